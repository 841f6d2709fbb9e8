// Package config provides configuration file support for guestport.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the guestport configuration file.
type Config struct {
	// Guest controls how the guest VM address is resolved.
	Guest GuestConfig `toml:"guest"`

	// Rules controls how forwarding and firewall rules are created.
	Rules RulesConfig `toml:"rules"`

	// History contains mutation audit log settings.
	History HistoryConfig `toml:"history"`

	// Logging contains remote logging settings.
	Logging LoggingConfig `toml:"logging"`

	// Include lists conditional config fragments, matched against the
	// current working directory. Only read from the main config file.
	Include []Include `toml:"include"`
}

// GuestConfig controls guest address resolution.
type GuestConfig struct {
	// Distro is the WSL distribution queried for the guest address.
	// Empty queries the default distro.
	Distro string `toml:"distro"`

	// ResolveCommand overrides the resolver argv entirely. When set,
	// Distro is ignored.
	ResolveCommand []string `toml:"resolve_command"`
}

// RulesConfig controls rule creation.
type RulesConfig struct {
	// Prefix is the firewall display-name tag marking rules owned by
	// guestport. Rules are named "<prefix> <port> <direction>".
	Prefix string `toml:"prefix"`

	// ListenAddress is the host endpoint new forwarding rules listen on.
	ListenAddress string `toml:"listen_address"`
}

// HistoryConfig contains audit log settings.
type HistoryConfig struct {
	// Enabled turns the mutation audit log on or off.
	// Default: true
	Enabled *bool `toml:"enabled"`

	// Path is the history database location.
	// Defaults to ~/.local/state/guestport/history.db if not set.
	Path string `toml:"path"`
}

// IsEnabled returns whether history recording is enabled (defaults to true).
func (h HistoryConfig) IsEnabled() bool {
	if h.Enabled == nil {
		return true
	}
	return *h.Enabled
}

// LoggingConfig contains remote logging configuration.
type LoggingConfig struct {
	// Receivers is a list of remote log destinations.
	Receivers []ReceiverConfig `toml:"receivers"`

	// Attributes are custom key-value pairs added to all log entries.
	Attributes map[string]string `toml:"attributes"`
}

// ReceiverConfig defines a single log receiver.
type ReceiverConfig struct {
	// Type is the receiver type: "syslog-remote" or "otlp".
	Type string `toml:"type"`

	// Address is the remote server address (for syslog-remote and otlp).
	Address string `toml:"address"`

	// Endpoint is the OTLP endpoint URL (alias for Address, for otlp type).
	Endpoint string `toml:"endpoint"`

	// Protocol is the transport protocol:
	// - For syslog-remote: "udp" or "tcp" (default: udp)
	// - For otlp: "http" or "grpc" (default: http)
	Protocol string `toml:"protocol"`

	// Facility is the syslog facility (e.g., "local0").
	Facility string `toml:"facility"`

	// Tag is the syslog program tag.
	Tag string `toml:"tag"`

	// Headers are custom HTTP headers for OTLP.
	Headers map[string]string `toml:"headers"`

	// BatchSize is the OTLP batch size before flush.
	BatchSize int `toml:"batch_size"`

	// FlushInterval is the OTLP flush interval (e.g., "5s").
	FlushInterval string `toml:"flush_interval"`

	// Insecure disables TLS verification for gRPC connections.
	Insecure bool `toml:"insecure"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Guest: GuestConfig{
			Distro: "", // Empty means the default WSL distro
		},
		Rules: RulesConfig{
			Prefix:        "GuestPort",
			ListenAddress: "0.0.0.0",
		},
		History: HistoryConfig{
			Enabled: nil, // nil means enabled (default true)
			Path:    "",  // Empty means use default state path
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME/guestport/config.toml or ~/.config/guestport/config.toml
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "guestport", "config.toml")
}

// Load reads the configuration from the default path and applies the
// include fragments matching the current working directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		dir = ""
	}
	return LoadForDir(ConfigPath(), dir)
}

// LoadFrom reads the configuration from the specified path.
// Returns default config if file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Expand ~ in the history path
	if cfg.History.Path != "" {
		cfg.History.Path = expandHome(cfg.History.Path)
	}

	// Validate configuration values
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadForDir reads the configuration from path and merges every include
// fragment whose condition matches workDir.
func LoadForDir(path, workDir string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if len(cfg.Include) == 0 || workDir == "" {
		return cfg, nil
	}

	matched, err := getMatchingIncludes(cfg.Include, workDir)
	if err != nil {
		return nil, fmt.Errorf("invalid include: %w", err)
	}
	for _, inc := range matched {
		fragment, err := loadFragment(expandHome(inc.Path))
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", inc.Path, err)
		}
		cfg = mergeConfigs(cfg, fragment)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFragment reads an include fragment. Unlike LoadFrom it starts from
// a zero config so the merge only sees values the fragment actually sets,
// and a missing file is an error since the include named it explicitly.
func loadFragment(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.History.Path != "" {
		cfg.History.Path = expandHome(cfg.History.Path)
	}
	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	// The prefix ends up in firewall display names and in the rule
	// listing, where ":" is the field delimiter.
	if strings.TrimSpace(c.Rules.Prefix) == "" {
		return fmt.Errorf("rules.prefix cannot be empty")
	}
	if strings.ContainsAny(c.Rules.Prefix, ":'\"") {
		return fmt.Errorf("rules.prefix cannot contain colons or quotes, got %q", c.Rules.Prefix)
	}

	if c.Rules.ListenAddress != "" {
		ip := net.ParseIP(c.Rules.ListenAddress)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("rules.listen_address must be an IPv4 address, got %q", c.Rules.ListenAddress)
		}
	}

	if len(c.Guest.ResolveCommand) > 0 && strings.TrimSpace(c.Guest.ResolveCommand[0]) == "" {
		return fmt.Errorf("guest.resolve_command cannot start with an empty element")
	}

	// Validate history path (no path traversal)
	if c.History.Path != "" {
		if err := validatePath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}

	return nil
}

// validatePath checks a path for security issues like path traversal.
func validatePath(path string) error {
	// Check for path traversal attempts in original path
	// We check before cleaning because Clean() resolves ".." which hides the attempt
	if strings.Contains(path, "..") {
		return fmt.Errorf("path contains traversal sequence: %q", path)
	}

	// Clean the path
	cleaned := filepath.Clean(path)

	// Path must be absolute
	if !filepath.IsAbs(cleaned) {
		return fmt.Errorf("path must be absolute: %q", path)
	}

	return nil
}

// expandHome expands ~ to the user's home directory.
func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return home
	}

	if path[1] == '/' || path[1] == '\\' {
		return filepath.Join(home, path[2:])
	}

	return path
}

// GenerateDefault returns the default configuration as a TOML string
// with comments explaining each option.
func GenerateDefault() string {
	return `# guestport configuration file
# Location: ~/.config/guestport/config.toml

# Guest address resolution
[guest]
# WSL distribution to query for the guest address.
# Empty uses the default distro.
distro = ""

# Override the resolver command entirely (first whitespace token of its
# output is used as the guest address). When set, distro is ignored.
# resolve_command = ["wsl", "hostname", "-I"]

# Rule creation settings
[rules]
# Firewall display-name tag marking rules owned by guestport.
# Rules are named "<prefix> <port> <direction>", e.g. "GuestPort 8080 Inbound".
# Must not contain colons or quotes.
prefix = "GuestPort"

# Host endpoint new forwarding rules listen on.
# 0.0.0.0 accepts traffic on every host interface.
listen_address = "0.0.0.0"

# Mutation audit log
[history]
# Record every add/delete/sync mutation (default: true).
# The log is purely informational; rules are always discovered live.
# enabled = true

# Database location
# path = "~/.local/state/guestport/history.db"

# Remote logging configuration
[logging]

# Custom attributes added to all log entries
# [logging.attributes]
# environment = "development"
# host = "myhost"

# Example: Remote syslog server
# [[logging.receivers]]
# type = "syslog-remote"
# address = "logs.example.com:514"
# protocol = "udp"  # or "tcp"
# facility = "local0"
# tag = "guestport"

# Example: OpenTelemetry collector (HTTP)
# [[logging.receivers]]
# type = "otlp"
# endpoint = "http://localhost:4318/v1/logs"
# protocol = "http"  # default
# headers = { "Authorization" = "Bearer token" }
# batch_size = 100
# flush_interval = "5s"

# Example: OpenTelemetry collector (gRPC)
# [[logging.receivers]]
# type = "otlp"
# endpoint = "localhost:4317"
# protocol = "grpc"
# insecure = true  # disable TLS for local testing
# batch_size = 100
# flush_interval = "5s"

# Conditional includes, matched against the current working directory.
# Fragment values override the main file; lists are concatenated.
# [[include]]
# if = "dir:~/work/**"
# path = "~/.config/guestport/work.toml"
`
}
