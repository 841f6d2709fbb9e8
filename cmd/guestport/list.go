package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"guestport/internal/forward"
)

type ruleJSON struct {
	Port   int    `json:"port"`
	Listen string `json:"listen"`
	Target string `json:"target"`
	Stale  bool   `json:"stale"`
}

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List owned forwarding rules",
		Long: `List the forwarding rules guestport owns, recognized by the firewall
display-name tag. STATUS marks rules whose target no longer matches the
guest's current address; run sync to repoint them.`,
		Example: `  guestport list
  guestport list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			target, err := app.resolveGuest()
			if err != nil {
				return err
			}

			rules, report, err := app.store().Rules()
			if err != nil {
				app.logger("store").Errorf("rule listing failed: %v", err)
				return err
			}

			if jsonOutput {
				return printRulesJSON(rules, target)
			}

			if len(rules) == 0 {
				fmt.Println("No rules found.")
			} else {
				printRulesTable(rules, target)
			}
			if report.Skipped > 0 {
				fmt.Printf("Skipped %d malformed listing line(s).\n", report.Skipped)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func rulesForOutput(rules []forward.Rule, target string) []ruleJSON {
	out := make([]ruleJSON, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleJSON{
			Port:   r.Port,
			Listen: r.ListenAddress,
			Target: r.TargetAddress,
			Stale:  r.TargetAddress != target,
		})
	}
	return out
}

func printRulesJSON(rules []forward.Rule, target string) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rulesForOutput(rules, target))
}

func printRulesTable(rules []forward.Rule, target string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("PORT", "LISTEN", "TARGET", "STATUS")

	for _, r := range rulesForOutput(rules, target) {
		status := ""
		if r.Stale {
			status = "stale"
		}
		_ = table.Append(strconv.Itoa(r.Port), r.Listen, r.Target, status)
	}

	_ = table.Render()
}
