//go:build !windows

package helpers

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSCommandRunner(t *testing.T) {
	runner := NewOSCommandRunner()

	t.Run("CommandExists", func(t *testing.T) {
		assert.True(t, runner.CommandExists("sh"))
		assert.False(t, runner.CommandExists("nonexistentcommand123"))
		// cached answer
		assert.False(t, runner.CommandExists("nonexistentcommand123"))
	})

	t.Run("RunCommandMerged", func(t *testing.T) {
		var merged bytes.Buffer
		err := runner.RunCommandMerged(context.Background(), &merged, "sh", "-c", "echo one >&2; echo two")
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", merged.String())
	})

	t.Run("RunCommandMerged drains large output", func(t *testing.T) {
		var merged bytes.Buffer
		// well above a default pipe buffer
		err := runner.RunCommandMerged(context.Background(), &merged, "sh", "-c", "head -c 262144 /dev/zero")
		require.NoError(t, err)
		assert.Equal(t, 262144, merged.Len())
	})

	t.Run("timeout exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := runner.RunCommandMerged(ctx, &bytes.Buffer{}, "sleep", "5")
		assert.Error(t, err)
	})

	t.Run("GetExitCode", func(t *testing.T) {
		err := runner.RunCommandMerged(context.Background(), &bytes.Buffer{}, "sh", "-c", "exit 3")
		require.Error(t, err)
		assert.Equal(t, 3, runner.GetExitCode(err))
		assert.Equal(t, 0, runner.GetExitCode(nil))
	})

	t.Run("GetExitCode start failure", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		err := runner.RunCommandMerged(context.Background(), &bytes.Buffer{}, missing)
		require.Error(t, err)
		assert.Equal(t, -1, runner.GetExitCode(err))
	})

	t.Run("PrepareCommand", func(t *testing.T) {
		cmd := runner.PrepareCommand(context.Background(), "echo", "test")
		require.NotNil(t, cmd)
		assert.Equal(t, []string{"echo", "test"}, cmd.Args)
	})
}

func TestCommandRunnerInterface(_ *testing.T) {
	var _ CommandRunner = &OSCommandRunner{}
	var _ CommandRunner = &MockCommandRunner{}
}
