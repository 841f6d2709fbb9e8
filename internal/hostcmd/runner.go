// Package hostcmd abstracts execution of host administration commands.
package hostcmd

import (
	"fmt"
	"os/exec"
)

// Runner abstracts shell command execution so that rule management can be
// tested without touching the host. Invocations block until the command
// exits; no timeout is applied.
type Runner interface {
	// Run executes a command, discarding output on success.
	Run(name string, args ...string) error

	// Output executes a command and returns its stdout.
	Output(name string, args ...string) ([]byte, error)
}

// ExecRunner executes actual host commands via os/exec.
type ExecRunner struct{}

// DefaultRunner is the runner used by production constructors.
var DefaultRunner Runner = &ExecRunner{}

// Run executes a command without capturing output.
func (r *ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %s failed: %w: %s", name, err, string(out))
	}
	return nil
}

// Output executes a command and returns its output.
func (r *ExecRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}
