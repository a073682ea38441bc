package helpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockCommandRunner_CommandExists(t *testing.T) {
	t.Parallel()

	t.Run("with custom function", func(t *testing.T) {
		mock := &MockCommandRunner{
			CommandExistsFunc: func(name string) bool {
				return name == "java"
			},
		}

		assert.True(t, mock.CommandExists("java"))
		assert.False(t, mock.CommandExists("unknown"))
	})

	t.Run("without custom function", func(t *testing.T) {
		mock := &MockCommandRunner{}
		assert.False(t, mock.CommandExists("java"))
	})
}

func TestMockCommandRunner_RunCommandMerged(t *testing.T) {
	t.Parallel()

	t.Run("with custom function", func(t *testing.T) {
		mock := &MockCommandRunner{
			RunCommandMergedFunc: func(_ context.Context, w io.Writer, name string, args ...string) error {
				_, _ = io.WriteString(w, "java version \"1.8.0_292\"\n")
				assert.Equal(t, []string{"-version"}, args)
				return nil
			},
		}

		var buf bytes.Buffer
		assert.NoError(t, mock.RunCommandMerged(context.Background(), &buf, "java", "-version"))
		assert.Contains(t, buf.String(), "1.8.0")
	})

	t.Run("without custom function", func(t *testing.T) {
		mock := &MockCommandRunner{}
		assert.NoError(t, mock.RunCommandMerged(context.Background(), io.Discard, "java"))
	})
}

func TestMockCommandRunner_GetExitCode(t *testing.T) {
	t.Parallel()

	t.Run("with custom function", func(t *testing.T) {
		mock := &MockCommandRunner{
			GetExitCodeFunc: func(err error) int { return 42 },
		}
		assert.Equal(t, 42, mock.GetExitCode(errors.New("x")))
	})

	t.Run("default mapping", func(t *testing.T) {
		mock := &MockCommandRunner{}
		assert.Equal(t, 0, mock.GetExitCode(nil))
		assert.Equal(t, 1, mock.GetExitCode(errors.New("x")))
	})
}

func TestMockCommandRunner_PrepareCommand(t *testing.T) {
	t.Parallel()

	mock := &MockCommandRunner{
		PrepareCommandFunc: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, name, args...)
		},
	}
	cmd := mock.PrepareCommand(context.Background(), "java", "-version")
	assert.NotNil(t, cmd)
	assert.Nil(t, (&MockCommandRunner{}).PrepareCommand(context.Background(), "java"))
}
