// Package guest resolves the current address of the guest VM.
package guest

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"guestport/internal/hostcmd"
)

// ErrNoAddress indicates the guest address could not be determined. Every
// resolution failure wraps it; callers treat it as fatal and must not
// mutate any rules afterwards.
var ErrNoAddress = errors.New("no guest address available")

// Resolver returns the guest's current IPv4 address.
type Resolver interface {
	Resolve() (string, error)
}

// DefaultCommand returns the resolver argv for a WSL distro. An empty
// distro name queries the default distro.
func DefaultCommand(distro string) []string {
	if distro == "" {
		return []string{"wsl", "hostname", "-I"}
	}
	return []string{"wsl", "-d", distro, "--", "hostname", "-I"}
}

// CommandResolver obtains the guest address by running an external command
// and taking the first whitespace-delimited token of its output.
type CommandResolver struct {
	runner hostcmd.Runner
	argv   []string
}

// NewCommandResolver creates a resolver that runs argv via runner.
func NewCommandResolver(runner hostcmd.Runner, argv []string) *CommandResolver {
	return &CommandResolver{runner: runner, argv: argv}
}

// Resolve runs the configured command and returns the guest IPv4 address.
func (r *CommandResolver) Resolve() (string, error) {
	if len(r.argv) == 0 {
		return "", fmt.Errorf("%w: resolver command not configured", ErrNoAddress)
	}
	out, err := r.runner.Output(r.argv[0], r.argv[1:]...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoAddress, r.argv[0], err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %s produced no output", ErrNoAddress, r.argv[0])
	}
	addr := fields[0]
	if ip := net.ParseIP(addr); ip == nil || ip.To4() == nil {
		return "", fmt.Errorf("%w: %q is not an IPv4 address", ErrNoAddress, addr)
	}
	return addr, nil
}
