package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"guestport/internal/config"
	"guestport/internal/history"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View and manage guestport configuration.

Configuration file location: ~/.config/guestport/config.toml
(or $XDG_CONFIG_HOME/guestport/config.toml)`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n\n", config.ConfigPath())

			fmt.Println("[guest]")
			distro := cfg.Guest.Distro
			if distro == "" {
				distro = "(default distro)"
			}
			fmt.Printf("  distro = %s\n", distro)
			if len(cfg.Guest.ResolveCommand) > 0 {
				fmt.Printf("  resolve_command = %s\n", strings.Join(cfg.Guest.ResolveCommand, " "))
			}
			fmt.Println()

			fmt.Println("[rules]")
			fmt.Printf("  prefix = %s\n", cfg.Rules.Prefix)
			fmt.Printf("  listen_address = %s\n", cfg.Rules.ListenAddress)
			fmt.Println()

			fmt.Println("[history]")
			fmt.Printf("  enabled = %v\n", cfg.History.IsEnabled())
			historyPath := cfg.History.Path
			if historyPath == "" {
				if p, err := history.DefaultPath(); err == nil {
					historyPath = p + " (default)"
				}
			}
			fmt.Printf("  path = %s\n", historyPath)
			fmt.Println()

			fmt.Println("[logging]")
			if len(cfg.Logging.Receivers) == 0 {
				fmt.Println("  receivers = (none)")
			} else {
				for i, r := range cfg.Logging.Receivers {
					fmt.Printf("  [[receivers]] #%d\n", i+1)
					fmt.Printf("    type = %s\n", r.Type)
					if r.Address != "" {
						fmt.Printf("    address = %s\n", r.Address)
					}
					if r.Endpoint != "" {
						fmt.Printf("    endpoint = %s\n", r.Endpoint)
					}
					if r.Facility != "" {
						fmt.Printf("    facility = %s\n", r.Facility)
					}
					if r.Tag != "" {
						fmt.Printf("    tag = %s\n", r.Tag)
					}
				}
			}

			if len(cfg.Include) > 0 {
				fmt.Println()
				for _, inc := range cfg.Include {
					fmt.Println("[[include]]")
					fmt.Printf("  if = %q\n", inc.If)
					fmt.Printf("  path = %q\n", inc.Path)
				}
			}

			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.ConfigPath())
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.ConfigPath()

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("config file already exists at %s\nUse --force to overwrite", configPath)
				}
			}

			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(configPath, []byte(config.GenerateDefault()), 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("Created config file at %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return cmd
}
