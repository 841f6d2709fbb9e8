package main

import (
	"github.com/spf13/cobra"

	"guestport/internal/forward"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [port|start-end]",
		Short: "Forward ports to the guest",
		Long: `Create a forwarding rule per port, each paired with an Inbound and an
Outbound firewall rule. The rules connect to the same port on the guest's
current address. With no argument the port spec is prompted for.`,
		Example: `  guestport add 8080
  guestport add 8000-8010
  guestport add                   # Prompt for the port spec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(forward.OpAdd, args)
		},
	}
}
