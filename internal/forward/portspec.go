package forward

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Valid TCP port bounds.
const (
	MinPort = 1
	MaxPort = 65535
)

// SpecAll selects every port currently present in the host proxy table.
// Only meaningful for delete.
const SpecAll = "all"

// ErrInvalidPortSpec reports input that is neither a valid port, a valid
// range, nor the literal "all". No mutation is attempted after it.
var ErrInvalidPortSpec = errors.New("invalid port spec")

// PortSpec is a raw user-entered port selection: a single port, an
// inclusive "start-end" range, or the literal "all".
type PortSpec string

// IsAll reports whether the spec is the literal "all".
func (s PortSpec) IsAll() bool {
	return strings.TrimSpace(string(s)) == SpecAll
}

// Expand resolves the spec into the ordered list of ports to operate on.
// "all" is resolved from store's live port listing and is rejected for any
// operation other than delete.
func (s PortSpec) Expand(op Op, store Store) ([]int, error) {
	raw := strings.TrimSpace(string(s))
	if raw == SpecAll {
		if op != OpDelete {
			return nil, fmt.Errorf("%w: %q can only be used with delete", ErrInvalidPortSpec, SpecAll)
		}
		return store.ForwardedPorts()
	}
	if start, end, ok := strings.Cut(raw, "-"); ok {
		lo, err := parsePort(start)
		if err != nil {
			return nil, err
		}
		hi, err := parsePort(end)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: range %d-%d runs backwards", ErrInvalidPortSpec, lo, hi)
		}
		ports := make([]int, 0, hi-lo+1)
		for p := lo; p <= hi; p++ {
			ports = append(ports, p)
		}
		return ports, nil
	}
	p, err := parsePort(raw)
	if err != nil {
		return nil, err
	}
	return []int{p}, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a port number", ErrInvalidPortSpec, strings.TrimSpace(s))
	}
	if p < MinPort || p > MaxPort {
		return 0, fmt.Errorf("%w: port %d outside %d-%d", ErrInvalidPortSpec, p, MinPort, MaxPort)
	}
	return p, nil
}
