package main

import (
	"github.com/spf13/cobra"

	"guestport/internal/forward"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [port|start-end|all]",
		Short: "Remove forwarded ports",
		Long: `Remove the forwarding rule and firewall pair per port. The literal spec
"all" removes every port currently present in the proxy table. With no
argument the port spec is prompted for.`,
		Example: `  guestport delete 8080
  guestport delete 8000-8010
  guestport delete all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(forward.OpDelete, args)
		},
	}
}
