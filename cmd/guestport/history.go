package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"guestport/internal/config"
	"guestport/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var (
		last       int
		opFilter   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rule mutations",
		Long: `Show the mutation audit log: every proxy and firewall change guestport
applied, newest first. The log is observational only; rules are always
discovered live from the host, never replayed from here.`,
		Example: `  guestport history
  guestport history --last 20
  guestport history --op sync
  guestport history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opFilter {
			case "", "add", "delete", "sync":
			default:
				return fmt.Errorf("invalid --op %q (use add, delete, or sync)", opFilter)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path := cfg.History.Path
			if path == "" {
				path, err = history.DefaultPath()
				if err != nil {
					return err
				}
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(history.Filter{Last: last, Op: opFilter})
			if err != nil {
				return err
			}

			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Println("No history recorded yet.")
				return nil
			}

			printHistoryTable(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&last, "last", "n", 0, "Show only last N entries")
	cmd.Flags().StringVar(&opFilter, "op", "", "Filter by operation: add, delete, or sync")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func printHistoryTable(entries []history.Entry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("TIME", "OP", "PORT", "LISTEN", "TARGET", "OUTCOME", "RUN")

	for _, e := range entries {
		outcome := e.Outcome
		if len(outcome) > 40 {
			outcome = outcome[:37] + "..."
		}
		_ = table.Append(
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Op,
			strconv.Itoa(e.Port),
			e.Listen,
			e.Target,
			outcome,
			shortRunID(e.RunID),
		)
	}

	_ = table.Render()
}

// shortRunID trims the uuid down to its first block for table display.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
