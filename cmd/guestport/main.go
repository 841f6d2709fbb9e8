package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guestport/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "guestport",
		Short: "Forward host ports into a guest VM",
		Long: `guestport - TCP port forwarding from the host into a guest VM

The guest's IPv4 address changes across reboots. guestport creates netsh
portproxy rules paired with Windows Firewall rules, recognizes the rules
it owns by their firewall display-name tag, and rewrites stale rules to
the guest's current address.`,
		Example: `  guestport add 8080              # Forward host port 8080 to the guest
  guestport add 8000-8010         # Forward a port range
  guestport delete all            # Remove every forwarded port
  guestport sync                  # Repoint stale rules after a guest reboot
  guestport list                  # Show owned rules and their targets`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("guestport %s (commit %s, built %s)\n",
		version.Version, version.Commit, version.Date))

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
