package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptPortSpec asks the user for a port spec and reads one line.
// op is the operation name shown in the prompt ("add" or "delete");
// the "all" shorthand is only suggested for delete.
func PromptPortSpec(input io.Reader, output io.Writer, op string) (string, error) {
	hint := "port or start-end"
	if op == "delete" {
		hint = "port, start-end, or all"
	}
	_, _ = fmt.Fprintf(output, "Port(s) to %s (%s): ", op, hint)

	reader := bufio.NewReader(input)
	response, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read port spec: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// PromptPortSpecStdio is a convenience wrapper that uses os.Stdin/os.Stderr.
// It refuses to prompt when stdin is not a terminal.
func PromptPortSpecStdio(op string) (string, error) {
	if !isInteractive() {
		return "", fmt.Errorf("stdin is not a terminal; pass the port spec as an argument")
	}
	return PromptPortSpec(os.Stdin, os.Stderr, op)
}
