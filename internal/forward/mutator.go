package forward

import (
	"fmt"

	"guestport/internal/hostcmd"
)

// Op selects a mutation: creating rules or removing them.
type Op string

const (
	OpAdd    Op = "add"
	OpDelete Op = "delete"
)

// FirewallResult carries the per-direction outcome of the paired firewall
// primitives for one port.
type FirewallResult struct {
	Inbound  error
	Outbound error
}

// Failed reports whether either direction failed.
func (r FirewallResult) Failed() bool {
	return r.Inbound != nil || r.Outbound != nil
}

// Mutator issues forwarding and firewall mutations against the host
// tables. Implementations are best-effort: callers receive the outcome of
// each primitive but the operation as a whole never stops on one.
type Mutator interface {
	// ApplyForward creates or removes one proxy rule. The rule's target
	// is ignored on delete; identity is (ListenAddress, Port).
	ApplyForward(op Op, rule Rule) error

	// ApplyFirewall creates or removes the Inbound/Outbound firewall
	// rule pair for a port, one primitive per direction.
	ApplyFirewall(op Op, port int) FirewallResult
}

// HostMutator drives netsh through a command runner. prefix is the
// firewall display-name tag that marks rules as owned by this tool.
type HostMutator struct {
	runner hostcmd.Runner
	prefix string
}

// NewHostMutator creates a mutator issuing real netsh commands.
func NewHostMutator(runner hostcmd.Runner, prefix string) *HostMutator {
	return &HostMutator{runner: runner, prefix: prefix}
}

// ApplyForward issues the portproxy primitive for one rule. The connect
// port always equals the listen port.
func (m *HostMutator) ApplyForward(op Op, rule Rule) error {
	var args []string
	switch op {
	case OpAdd:
		args = []string{"interface", "portproxy", "add", "v4tov4",
			fmt.Sprintf("listenport=%d", rule.Port),
			"listenaddress=" + rule.ListenAddress,
			fmt.Sprintf("connectport=%d", rule.Port),
			"connectaddress=" + rule.TargetAddress,
		}
	case OpDelete:
		args = []string{"interface", "portproxy", "delete", "v4tov4",
			fmt.Sprintf("listenport=%d", rule.Port),
			"listenaddress=" + rule.ListenAddress,
		}
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	return m.runner.Run("netsh", args...)
}

// ApplyFirewall issues one advfirewall primitive per direction, Inbound
// first. Both run regardless of the first one's outcome.
func (m *HostMutator) ApplyFirewall(op Op, port int) FirewallResult {
	return FirewallResult{
		Inbound:  m.firewallPrimitive(op, port, Inbound),
		Outbound: m.firewallPrimitive(op, port, Outbound),
	}
}

func (m *HostMutator) firewallPrimitive(op Op, port int, dir Direction) error {
	rule := FirewallRule{Owner: m.prefix, Port: port, Direction: dir}
	switch op {
	case OpAdd:
		flag := "dir=in"
		if dir == Outbound {
			flag = "dir=out"
		}
		return m.runner.Run("netsh", "advfirewall", "firewall", "add", "rule",
			"name="+rule.DisplayName(), flag, "action=allow", "protocol=TCP",
			fmt.Sprintf("localport=%d", port))
	case OpDelete:
		return m.runner.Run("netsh", "advfirewall", "firewall", "delete", "rule",
			"name="+rule.DisplayName())
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}
