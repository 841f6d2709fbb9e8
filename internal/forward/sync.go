package forward

// SyncResult records the replacement of one stale rule.
type SyncResult struct {
	// Rule is the observed rule whose target no longer matched.
	Rule Rule
	// NewTarget is the address the rule was rewritten to.
	NewTarget string
	DeleteErr error
	AddErr    error
}

// Engine reconciles observed forwarding rules with the guest's current
// address.
type Engine struct {
	mutator Mutator
}

// NewEngine creates a sync engine driving mutator.
func NewEngine(mutator Mutator) *Engine {
	return &Engine{mutator: mutator}
}

// Sync rewrites every rule whose target differs from current: delete at
// (listen, port), then re-add with the same endpoint and the new target.
// The connect port stays equal to the listen port. Firewall rules key on
// port only and are left alone. Rules already pointing at current are
// untouched, so a second run with no external change performs zero
// mutations. Returns whether any rewrite was attempted.
func (e *Engine) Sync(observed []Rule, current string) (bool, []SyncResult) {
	var results []SyncResult
	for _, rule := range observed {
		if rule.TargetAddress == current {
			continue
		}
		res := SyncResult{Rule: rule, NewTarget: current}
		res.DeleteErr = e.mutator.ApplyForward(OpDelete, rule)
		fresh := rule
		fresh.TargetAddress = current
		res.AddErr = e.mutator.ApplyForward(OpAdd, fresh)
		results = append(results, res)
	}
	return len(results) > 0, results
}
