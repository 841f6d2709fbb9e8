package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"guestport/internal/config"
	"guestport/internal/forward"
	"guestport/internal/guest"
	"guestport/internal/history"
	"guestport/internal/hostcmd"
)

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the host environment",
		Long: `Verify that the host tools guestport depends on are present and usable.

Checks:
  - Configuration file loads and validates
  - Required binaries (resolver command, netsh, powershell)
  - Guest address resolution
  - Proxy table readability
  - History database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

func runDoctor() error {
	cfg, cfgResult := checkConfig()

	runner := hostcmd.DefaultRunner
	argv := cfg.Guest.ResolveCommand
	if len(argv) == 0 {
		argv = guest.DefaultCommand(cfg.Guest.Distro)
	}
	resolver := guest.NewCommandResolver(runner, argv)
	store := forward.NewHostStore(runner, cfg.Rules.Prefix)

	checks := []func() checkResult{
		func() checkResult { return checkBinary(argv[0], "guest address resolution runs it") },
		func() checkResult { return checkBinary("netsh", "creates proxy and firewall rules") },
		func() checkResult { return checkBinary("powershell", "owned rule listing runs through it") },
		func() checkResult { return checkResolver(resolver) },
		func() checkResult { return checkProxyTable(store) },
		func() checkResult { return checkHistory(cfg) },
	}

	results := make([]checkResult, len(checks)+1)
	results[0] = cfgResult

	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			results[i+1] = check()
			if results[i+1].status == "error" {
				return fmt.Errorf("%s check failed", results[i+1].name)
			}
			return nil
		})
	}
	groupErr := g.Wait()

	printDoctorResults(results)

	if cfgResult.status == "error" || groupErr != nil {
		fmt.Println("\nSome checks failed.")
		return fmt.Errorf("doctor found issues")
	}

	fmt.Println("\nAll checks passed!")
	return nil
}

func checkConfig() (*config.Config, checkResult) {
	path := config.ConfigPath()

	cfg, err := config.Load()
	if err != nil {
		// The remaining checks still run, against defaults.
		return config.DefaultConfig(), checkResult{
			name:    "config",
			status:  "error",
			message: err.Error(),
		}
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return cfg, checkResult{name: "config", status: "ok", message: "no config file, defaults in use"}
	}
	return cfg, checkResult{name: "config", status: "ok", message: path}
}

func checkBinary(name, description string) checkResult {
	path, err := exec.LookPath(name)
	if err != nil {
		return checkResult{
			name:    name,
			status:  "error",
			message: fmt.Sprintf("not found - %s", description),
		}
	}
	return checkResult{name: name, status: "ok", message: path}
}

func checkResolver(resolver guest.Resolver) checkResult {
	addr, err := resolver.Resolve()
	if err != nil {
		return checkResult{
			name:    "guest address",
			status:  "error",
			message: err.Error(),
		}
	}
	return checkResult{name: "guest address", status: "ok", message: addr}
}

func checkProxyTable(store forward.Store) checkResult {
	ports, err := store.ForwardedPorts()
	if err != nil {
		return checkResult{
			name:    "proxy table",
			status:  "error",
			message: fmt.Sprintf("cannot read the proxy table: %v (try an elevated prompt)", err),
		}
	}
	return checkResult{
		name:    "proxy table",
		status:  "ok",
		message: fmt.Sprintf("%d forwarded port(s)", len(ports)),
	}
}

func checkHistory(cfg *config.Config) checkResult {
	if !cfg.History.IsEnabled() {
		return checkResult{name: "history", status: "ok", message: "disabled"}
	}

	path := cfg.History.Path
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return checkResult{name: "history", status: "warn", message: err.Error()}
		}
		path = p
	}

	store, err := history.Open(path)
	if err != nil {
		return checkResult{name: "history", status: "warn", message: err.Error()}
	}
	_ = store.Close()

	return checkResult{name: "history", status: "ok", message: path}
}

func printDoctorResults(results []checkResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("CHECK", "STATUS", "DETAILS")

	for _, r := range results {
		status := r.status
		switch r.status {
		case "ok":
			status = "✓ ok"
		case "warn":
			status = "⚠ warn"
		case "error":
			status = "✗ error"
		}

		_ = table.Append(r.name, status, r.message)
	}

	_ = table.Render()
}
