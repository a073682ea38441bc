package helpers

import (
	"context"
	"io"
	"os/exec"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc    func(name string) bool
	RunCommandMergedFunc func(ctx context.Context, w io.Writer, name string, args ...string) error
	GetExitCodeFunc      func(err error) int
	PrepareCommandFunc   func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RunCommandMerged implements CommandRunner.RunCommandMerged
func (m *MockCommandRunner) RunCommandMerged(ctx context.Context, w io.Writer, name string, args ...string) error {
	if m.RunCommandMergedFunc != nil {
		return m.RunCommandMergedFunc(ctx, w, name, args...)
	}
	return nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	if err != nil {
		return 1
	}
	return 0
}

// PrepareCommand implements CommandRunner.PrepareCommand
func (m *MockCommandRunner) PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	if m.PrepareCommandFunc != nil {
		return m.PrepareCommandFunc(ctx, name, args...)
	}
	return nil
}
