// Package forward manages the host's TCP port forwarding rules and the
// firewall rule pairs that accompany them.
package forward

import "fmt"

// Rule is one TCP forwarding rule in the host's proxy table. The host
// allows at most one rule per (ListenAddress, Port) endpoint, so that pair
// is the rule's identity. Traffic is delivered to the same port on
// TargetAddress; port remapping is not supported.
type Rule struct {
	Port          int
	ListenAddress string
	TargetAddress string
}

// Direction of a firewall rule.
type Direction string

const (
	Inbound  Direction = "Inbound"
	Outbound Direction = "Outbound"
)

// FirewallRule is one half of the Inbound/Outbound pair created alongside
// a forwarding rule. Owner is the display-name tag marking the rule as
// managed by this tool; the rendered name keeps the external
// "<owner> <port> <direction>" form so existing rules remain recognizable.
type FirewallRule struct {
	Owner     string
	Port      int
	Direction Direction
}

// DisplayName renders the rule name as it appears in the host firewall.
func (r FirewallRule) DisplayName() string {
	return fmt.Sprintf("%s %d %s", r.Owner, r.Port, r.Direction)
}
