package forward

import (
	"fmt"
	"io"
)

// Request is one user-requested mutation: the operation and the port spec
// it applies to. Commands construct it explicitly so the engine never
// depends on where the spec came from.
type Request struct {
	Op   Op
	Spec PortSpec
}

// ApplyResult records the primitive outcomes for one port. Failures here
// are best-effort information: the run that produced them completed
// normally.
type ApplyResult struct {
	Port        int
	ForwardErr  error
	InboundErr  error
	OutboundErr error
}

// Failed reports whether any primitive for this port failed.
func (r ApplyResult) Failed() bool {
	return r.ForwardErr != nil || r.InboundErr != nil || r.OutboundErr != nil
}

// Applier expands a request and applies the proxy and firewall primitives
// pairwise per port: forward first, then the firewall pair, before moving
// to the next port. A failure never stops the expansion; a partial run
// leaves at most the port in flight inconsistent.
type Applier struct {
	store    Store
	mutator  Mutator
	listen   string
	progress io.Writer
}

// NewApplier wires an applier. listen is the listen address for created
// rules; progress receives one ordered line per processed port.
func NewApplier(store Store, mutator Mutator, listen string, progress io.Writer) *Applier {
	return &Applier{store: store, mutator: mutator, listen: listen, progress: progress}
}

// Apply runs the request. target is the guest address used as the
// destination of created rules; it must already be resolved. An invalid
// spec (or a failed "all" lookup) returns an error before any mutation.
func (a *Applier) Apply(req Request, target string) ([]ApplyResult, error) {
	ports, err := req.Spec.Expand(req.Op, a.store)
	if err != nil {
		return nil, err
	}
	results := make([]ApplyResult, 0, len(ports))
	for i, port := range ports {
		if a.progress != nil {
			fmt.Fprintf(a.progress, "(%d/%d) %s port %d\n", i+1, len(ports), verb(req.Op), port)
		}
		res := ApplyResult{Port: port}
		rule := Rule{Port: port, ListenAddress: a.listen, TargetAddress: target}
		res.ForwardErr = a.mutator.ApplyForward(req.Op, rule)
		fw := a.mutator.ApplyFirewall(req.Op, port)
		res.InboundErr = fw.Inbound
		res.OutboundErr = fw.Outbound
		results = append(results, res)
	}
	return results, nil
}

func verb(op Op) string {
	if op == OpDelete {
		return "deleting"
	}
	return "adding"
}
