package hostcmd

import (
	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	mock.Mock
}

// Run mocks command execution.
func (m *MockRunner) Run(name string, args ...string) error {
	callArgs := make([]interface{}, 0, len(args)+1)
	callArgs = append(callArgs, name)
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	result := m.Called(callArgs...)
	return result.Error(0)
}

// Output mocks command execution with output capture.
func (m *MockRunner) Output(name string, args ...string) ([]byte, error) {
	callArgs := make([]interface{}, 0, len(args)+1)
	callArgs = append(callArgs, name)
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	result := m.Called(callArgs...)
	var out []byte
	if result.Get(0) != nil {
		out = result.Get(0).([]byte)
	}
	return out, result.Error(1)
}
