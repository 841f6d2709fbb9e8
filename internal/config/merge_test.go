package config

import "testing"

func TestMergeConfigsNil(t *testing.T) {
	base := DefaultConfig()

	if got := mergeConfigs(base, nil); got != base {
		t.Error("nil overlay should return base")
	}
	if got := mergeConfigs(nil, base); got != base {
		t.Error("nil base should return overlay")
	}
}

func TestMergeConfigsScalars(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{}
	overlay.Guest.Distro = "Work-Distro"
	overlay.Rules.Prefix = "WorkPorts"

	got := mergeConfigs(base, overlay)

	if got.Guest.Distro != "Work-Distro" {
		t.Errorf("distro = %q, want overlay value", got.Guest.Distro)
	}
	if got.Rules.Prefix != "WorkPorts" {
		t.Errorf("prefix = %q, want overlay value", got.Rules.Prefix)
	}
	// Zero values in the overlay leave base values alone.
	if got.Rules.ListenAddress != "0.0.0.0" {
		t.Errorf("listen address = %q, want base value", got.Rules.ListenAddress)
	}
}

func TestMergeConfigsHistoryPointer(t *testing.T) {
	base := DefaultConfig()
	base.History.Enabled = boolPtr(true)

	overlay := &Config{}
	got := mergeConfigs(base, overlay)
	if !got.History.IsEnabled() {
		t.Error("unset overlay pointer should keep base value")
	}

	overlay.History.Enabled = boolPtr(false)
	got = mergeConfigs(base, overlay)
	if got.History.IsEnabled() {
		t.Error("explicit false in overlay should win")
	}
}

func TestMergeConfigsResolveCommandReplaced(t *testing.T) {
	base := DefaultConfig()
	base.Guest.ResolveCommand = []string{"wsl", "hostname", "-I"}

	overlay := &Config{}
	overlay.Guest.ResolveCommand = []string{"ssh", "guest", "hostname", "-I"}

	got := mergeConfigs(base, overlay)
	if len(got.Guest.ResolveCommand) != 4 || got.Guest.ResolveCommand[0] != "ssh" {
		t.Errorf("resolve command = %v, want overlay argv to replace base", got.Guest.ResolveCommand)
	}
}

func TestMergeConfigsReceiversAppend(t *testing.T) {
	base := DefaultConfig()
	base.Logging.Receivers = []ReceiverConfig{
		{Type: "syslog-remote", Address: "logs.example.com:514"},
	}

	overlay := &Config{}
	overlay.Logging.Receivers = []ReceiverConfig{
		{Type: "otlp", Endpoint: "localhost:4317"},
	}

	got := mergeConfigs(base, overlay)
	if len(got.Logging.Receivers) != 2 {
		t.Fatalf("receivers = %d, want 2", len(got.Logging.Receivers))
	}
	if got.Logging.Receivers[0].Type != "syslog-remote" || got.Logging.Receivers[1].Type != "otlp" {
		t.Errorf("receivers = %+v", got.Logging.Receivers)
	}
}

func TestMergeConfigsAttributes(t *testing.T) {
	base := DefaultConfig()
	base.Logging.Attributes = map[string]string{"env": "dev", "host": "box1"}

	overlay := &Config{}
	overlay.Logging.Attributes = map[string]string{"env": "work"}

	got := mergeConfigs(base, overlay)
	if got.Logging.Attributes["env"] != "work" {
		t.Errorf("attributes[env] = %q, want overlay to win", got.Logging.Attributes["env"])
	}
	if got.Logging.Attributes["host"] != "box1" {
		t.Errorf("attributes[host] = %q, want base value kept", got.Logging.Attributes["host"])
	}
}

func TestMergeConfigsIncludeStaysFromBase(t *testing.T) {
	base := DefaultConfig()
	base.Include = []Include{{If: "dir:/work/**", Path: "/config/work.toml"}}

	overlay := &Config{}
	overlay.Include = []Include{{If: "dir:/evil/**", Path: "/config/evil.toml"}}

	got := mergeConfigs(base, overlay)
	if len(got.Include) != 1 || got.Include[0].Path != "/config/work.toml" {
		t.Errorf("includes = %+v, want base includes only", got.Include)
	}
}
