package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"guestport/internal/forward"
	"guestport/internal/history"
)

func newSyncCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Repoint stale rules at the guest's current address",
		Long: `Rewrite every owned forwarding rule whose target differs from the
guest's current address: the rule is deleted and recreated at the same
listen endpoint with the new target. Firewall rules key on ports, not
addresses, and are left alone. When nothing has drifted, sync changes
nothing.`,
		Example: `  guestport sync
  guestport sync --watch                 # Re-sync every 30s until interrupted
  guestport sync --watch --interval 10s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if !watch {
				return runSyncOnce(app)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			fmt.Fprintf(os.Stderr, "Re-syncing every %s (Ctrl+C to stop)...\n", interval)

			// In watch mode a resolution failure is not fatal: the guest
			// is likely mid-reboot, which is when watching matters.
			if err := runSyncOnce(app); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := runSyncOnce(app); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
					}
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and re-sync on an interval")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Re-sync interval in watch mode")

	return cmd
}

func runSyncOnce(app *app) error {
	target, err := app.resolveGuest()
	if err != nil {
		return err
	}

	rules, report, err := app.store().Rules()
	if err != nil {
		app.logger("store").Errorf("rule listing failed: %v", err)
		return err
	}

	changed, results := forward.NewEngine(app.mutator()).Sync(rules, target)

	log := app.logger("sync")
	for _, r := range results {
		fmt.Printf("port %d: %s -> %s\n", r.Rule.Port, r.Rule.TargetAddress, r.NewTarget)
		if r.DeleteErr != nil {
			log.Debugf("port %d delete failed: %v", r.Rule.Port, r.DeleteErr)
		}
		if r.AddErr != nil {
			log.Debugf("port %d re-add failed: %v", r.Rule.Port, r.AddErr)
		}
	}

	app.recordSync(results)

	if changed {
		fmt.Printf("Updated %d of %d rule(s) to %s.\n", len(results), len(rules), target)
	} else {
		fmt.Printf("All %d rule(s) current (target %s).\n", len(rules), target)
	}
	if report.Skipped > 0 {
		fmt.Printf("Skipped %d malformed listing line(s).\n", report.Skipped)
	}

	return nil
}

// recordSync writes one audit row per rewritten rule.
func (a *app) recordSync(results []forward.SyncResult) {
	if len(results) == 0 {
		return
	}

	hist := a.openHistory()
	if hist == nil {
		return
	}
	defer hist.Close()

	log := a.logger("history")
	for _, r := range results {
		entry := history.Entry{
			RunID:   a.runID,
			Op:      "sync",
			Port:    r.Rule.Port,
			Listen:  r.Rule.ListenAddress,
			Target:  r.NewTarget,
			Outcome: outcomeText(r.DeleteErr, r.AddErr),
		}
		if err := hist.Record(entry); err != nil {
			log.Debugf("record failed: %v", err)
		}
	}
}
