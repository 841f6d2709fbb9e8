package forward

// MemStore is an in-memory Store. It backs tests and any wiring that
// needs a rule table without a live host.
type MemStore struct {
	RuleList []Rule
	// Ports overrides the port listing; when nil the ports are derived
	// from RuleList.
	Ports  []int
	Report ParseReport
	Err    error
}

// Rules returns the configured rule list.
func (s *MemStore) Rules() ([]Rule, ParseReport, error) {
	if s.Err != nil {
		return nil, ParseReport{}, s.Err
	}
	return s.RuleList, s.Report, nil
}

// ForwardedPorts returns the configured ports, or the ports of RuleList.
func (s *MemStore) ForwardedPorts() ([]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Ports != nil {
		return s.Ports, nil
	}
	ports := make([]int, 0, len(s.RuleList))
	for _, rule := range s.RuleList {
		ports = append(ports, rule.Port)
	}
	return ports, nil
}
