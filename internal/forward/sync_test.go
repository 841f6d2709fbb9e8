package forward

import (
	"errors"
	"testing"
)

func TestSyncIdempotent(t *testing.T) {
	mutator := &recordingMutator{}
	engine := NewEngine(mutator)
	rules := []Rule{
		{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.9"},
		{Port: 22, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.9"},
	}

	changed, results := engine.Sync(rules, "172.20.1.9")
	if changed {
		t.Error("Sync() changed = true for matching rules")
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
	if len(mutator.calls) != 0 {
		t.Errorf("mutations issued on matching rules: %+v", mutator.calls)
	}
}

func TestSyncRewritesStaleRule(t *testing.T) {
	mutator := &recordingMutator{}
	engine := NewEngine(mutator)
	stale := Rule{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.5"}

	changed, results := engine.Sync([]Rule{stale}, "172.20.1.9")
	if !changed {
		t.Fatal("Sync() changed = false")
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v, want 1", results)
	}
	if results[0].Rule != stale || results[0].NewTarget != "172.20.1.9" {
		t.Errorf("results[0] = %+v", results[0])
	}

	if len(mutator.calls) != 2 {
		t.Fatalf("calls = %+v, want delete then add", mutator.calls)
	}
	del := mutator.calls[0]
	if del.op != OpDelete || del.rule.Port != 80 || del.rule.ListenAddress != "0.0.0.0" {
		t.Errorf("first call = %+v, want delete at 0.0.0.0:80", del)
	}
	add := mutator.calls[1]
	if add.op != OpAdd {
		t.Fatalf("second call = %+v, want add", add)
	}
	want := Rule{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.9"}
	if add.rule != want {
		t.Errorf("re-added rule = %+v, want %+v", add.rule, want)
	}
}

func TestSyncLeavesFirewallAlone(t *testing.T) {
	mutator := &recordingMutator{}
	engine := NewEngine(mutator)
	stale := Rule{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.5"}

	engine.Sync([]Rule{stale}, "172.20.1.9")
	for _, call := range mutator.calls {
		if call.kind == "firewall" {
			t.Errorf("sync touched the firewall: %+v", call)
		}
	}
}

func TestSyncMixedRules(t *testing.T) {
	mutator := &recordingMutator{}
	engine := NewEngine(mutator)
	rules := []Rule{
		{Port: 22, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.9"},
		{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.5"},
		{Port: 443, ListenAddress: "127.0.0.1", TargetAddress: "10.0.0.3"},
	}

	changed, results := engine.Sync(rules, "172.20.1.9")
	if !changed {
		t.Fatal("Sync() changed = false")
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 rewrites", results)
	}
	if results[0].Rule.Port != 80 || results[1].Rule.Port != 443 {
		t.Errorf("rewrote ports %d and %d, want 80 and 443",
			results[0].Rule.Port, results[1].Rule.Port)
	}
	// Listen endpoints survive the rewrite.
	if mutator.calls[3].rule.ListenAddress != "127.0.0.1" {
		t.Errorf("rewrite changed the listen address: %+v", mutator.calls[3])
	}
}

func TestSyncRecordsPrimitiveFailures(t *testing.T) {
	mutator := &recordingMutator{forwardErr: errors.New("netsh failed")}
	engine := NewEngine(mutator)
	stale := Rule{Port: 80, ListenAddress: "0.0.0.0", TargetAddress: "172.20.1.5"}

	changed, results := engine.Sync([]Rule{stale}, "172.20.1.9")
	if !changed {
		t.Fatal("Sync() changed = false")
	}
	if results[0].DeleteErr == nil || results[0].AddErr == nil {
		t.Errorf("results[0] = %+v, want recorded failures", results[0])
	}
}

func TestSyncNoRules(t *testing.T) {
	engine := NewEngine(&recordingMutator{})
	changed, results := engine.Sync(nil, "172.20.1.9")
	if changed || len(results) != 0 {
		t.Errorf("Sync(nil) = %v, %+v", changed, results)
	}
}
