package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Guest.Distro != "" {
		t.Error("expected empty distro by default")
	}
	if cfg.Rules.Prefix != "GuestPort" {
		t.Errorf("expected default prefix GuestPort, got %q", cfg.Rules.Prefix)
	}
	if cfg.Rules.ListenAddress != "0.0.0.0" {
		t.Errorf("expected default listen address 0.0.0.0, got %q", cfg.Rules.ListenAddress)
	}
	if !cfg.History.IsEnabled() {
		t.Error("expected history to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestHistoryIsEnabled(t *testing.T) {
	tests := []struct {
		name     string
		enabled  *bool
		expected bool
	}{
		{"nil defaults to true", nil, true},
		{"explicit true", boolPtr(true), true},
		{"explicit false", boolPtr(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := HistoryConfig{Enabled: tt.enabled}
			if got := hc.IsEnabled(); got != tt.expected {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func TestLoadFromNonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}

	// Should return default config
	if cfg.Rules.Prefix != "GuestPort" {
		t.Error("expected default config")
	}
}

func TestLoadFromEmptyPath(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("unexpected error for empty path: %v", err)
	}
	if cfg.Rules.ListenAddress != "0.0.0.0" {
		t.Error("expected default config")
	}
}

func TestLoadFromValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[guest]
distro = "Ubuntu-24.04"

[rules]
prefix = "DevPorts"
listen_address = "127.0.0.1"

[history]
enabled = false

[[logging.receivers]]
type = "syslog-remote"
address = "logs.example.com:514"
protocol = "udp"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Guest.Distro != "Ubuntu-24.04" {
		t.Errorf("expected distro Ubuntu-24.04, got %q", cfg.Guest.Distro)
	}
	if cfg.Rules.Prefix != "DevPorts" {
		t.Errorf("expected prefix DevPorts, got %q", cfg.Rules.Prefix)
	}
	if cfg.Rules.ListenAddress != "127.0.0.1" {
		t.Errorf("expected listen address 127.0.0.1, got %q", cfg.Rules.ListenAddress)
	}
	if cfg.History.IsEnabled() {
		t.Error("expected history disabled (explicit false in config)")
	}
	if len(cfg.Logging.Receivers) != 1 || cfg.Logging.Receivers[0].Type != "syslog-remote" {
		t.Errorf("receivers = %+v", cfg.Logging.Receivers)
	}
}

func TestLoadFromExpandsHistoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := "[history]\npath = \"~/state/history.db\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if strings.HasPrefix(cfg.History.Path, "~") {
		t.Errorf("history path not expanded: %q", cfg.History.Path)
	}
	if !filepath.IsAbs(cfg.History.Path) {
		t.Errorf("expected absolute history path, got %q", cfg.History.Path)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("[rules\nprefix ="), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty prefix",
			mutate:  func(c *Config) { c.Rules.Prefix = "" },
			wantErr: true,
		},
		{
			name:    "prefix with colon",
			mutate:  func(c *Config) { c.Rules.Prefix = "Guest:Port" },
			wantErr: true,
		},
		{
			name:    "prefix with quote",
			mutate:  func(c *Config) { c.Rules.Prefix = `Guest"Port` },
			wantErr: true,
		},
		{
			name:   "prefix with space is fine",
			mutate: func(c *Config) { c.Rules.Prefix = "Guest Port" },
		},
		{
			name:    "listen address not an ip",
			mutate:  func(c *Config) { c.Rules.ListenAddress = "every-interface" },
			wantErr: true,
		},
		{
			name:    "listen address ipv6",
			mutate:  func(c *Config) { c.Rules.ListenAddress = "::1" },
			wantErr: true,
		},
		{
			name:   "loopback listen address",
			mutate: func(c *Config) { c.Rules.ListenAddress = "127.0.0.1" },
		},
		{
			name:    "history path traversal",
			mutate:  func(c *Config) { c.History.Path = "/var/../etc/history.db" },
			wantErr: true,
		},
		{
			name:    "relative history path",
			mutate:  func(c *Config) { c.History.Path = "state/history.db" },
			wantErr: true,
		},
		{
			name:    "resolve command with empty head",
			mutate:  func(c *Config) { c.Guest.ResolveCommand = []string{"", "-I"} },
			wantErr: true,
		},
		{
			name:   "custom resolve command",
			mutate: func(c *Config) { c.Guest.ResolveCommand = []string{"ssh", "guest", "hostname", "-I"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute untouched", "/etc/guestport.toml", "/etc/guestport.toml"},
		{"bare tilde", "~", home},
		{"tilde slash", "~/state/history.db", filepath.Join(home, "state", "history.db")},
		{"tilde user untouched", "~other/x", "~other/x"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandHome(tt.path); got != tt.want {
				t.Errorf("expandHome(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	want := filepath.Join("/custom/config", "guestport", "config.toml")
	if got := ConfigPath(); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestGenerateDefaultParses(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal([]byte(GenerateDefault()), &cfg); err != nil {
		t.Fatalf("generated default config does not parse: %v", err)
	}
	if cfg.Rules.Prefix != "GuestPort" {
		t.Errorf("generated prefix = %q", cfg.Rules.Prefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated default config does not validate: %v", err)
	}
}

func TestLoadForDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	fragmentPath := filepath.Join(tmpDir, "work.toml")

	main := `
[rules]
prefix = "GuestPort"

[[include]]
if = "dir:` + tmpDir + `/**"
path = "` + fragmentPath + `"
`
	fragment := `
[rules]
prefix = "WorkPorts"

[guest]
distro = "Work-Distro"
`
	if err := os.WriteFile(configPath, []byte(main), 0o644); err != nil {
		t.Fatalf("failed to write main config: %v", err)
	}
	if err := os.WriteFile(fragmentPath, []byte(fragment), 0o644); err != nil {
		t.Fatalf("failed to write fragment: %v", err)
	}

	t.Run("matching dir applies fragment", func(t *testing.T) {
		cfg, err := LoadForDir(configPath, filepath.Join(tmpDir, "project"))
		if err != nil {
			t.Fatalf("LoadForDir() error = %v", err)
		}
		if cfg.Rules.Prefix != "WorkPorts" {
			t.Errorf("prefix = %q, want WorkPorts", cfg.Rules.Prefix)
		}
		if cfg.Guest.Distro != "Work-Distro" {
			t.Errorf("distro = %q, want Work-Distro", cfg.Guest.Distro)
		}
		// Defaults not named by either file survive.
		if cfg.Rules.ListenAddress != "0.0.0.0" {
			t.Errorf("listen address = %q", cfg.Rules.ListenAddress)
		}
	})

	t.Run("non-matching dir keeps base", func(t *testing.T) {
		other := t.TempDir()
		cfg, err := LoadForDir(configPath, filepath.Join(other, "project"))
		if err != nil {
			t.Fatalf("LoadForDir() error = %v", err)
		}
		if cfg.Rules.Prefix != "GuestPort" {
			t.Errorf("prefix = %q, want GuestPort", cfg.Rules.Prefix)
		}
	})

	t.Run("missing fragment is an error", func(t *testing.T) {
		broken := filepath.Join(tmpDir, "broken.toml")
		content := `
[[include]]
if = "dir:` + tmpDir + `/**"
path = "` + filepath.Join(tmpDir, "missing.toml") + `"
`
		if err := os.WriteFile(broken, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadForDir(broken, filepath.Join(tmpDir, "project")); err == nil {
			t.Fatal("expected error for missing fragment")
		}
	})
}
