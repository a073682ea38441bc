package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewRootCmd(config.Default(), &logger, "1.0.0")

	assert.NotNil(t, cmd)
	assert.Equal(t, "sdklaunch", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"find", "launch", "stage", "runtimes", "doctor", "completion", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootCmd_DebugFlag(t *testing.T) {
	cfg := testConfig(t)
	logger := zerolog.New(io.Discard).Level(zerolog.InfoLevel)

	root := NewRootCmd(cfg, &logger, "1.0.0")
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--debug", "version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestRootCmd_DebugEnv(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv("SDKLAUNCH_TEST_DEBUG", "")
	logger := zerolog.New(io.Discard).Level(zerolog.InfoLevel)

	root := NewRootCmd(cfg, &logger, "1.0.0")
	root.SetOut(io.Discard)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel(), "presence of the variable is enough")
}

func TestRootCmd_ConfigFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logging]
level = "warn"

[runtime]
home_env = "MY_JDK"
`), 0644))

	logger := zerolog.New(io.Discard)
	root := NewRootCmd(cfg, &logger, "1.0.0")
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "MY_JDK", cfg.Runtime.HomeEnv)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestRootCmd_BadConfigFile(t *testing.T) {
	cfg := testConfig(t)
	_, _, err := execute(t, cfg, "--config", filepath.Join(t.TempDir(), "missing.toml"), "version")
	assert.Error(t, err)
}

func TestRootCmd_InvalidInvocation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag on a subcommand", []string{"find", "--bogus"}},
		{"unknown root flag", []string{"--bogus"}},
		{"unexpected argument", []string{"find", "extra"}},
		{"unknown command", []string{"nosuchcmd"}},
		{"unsupported shell", []string{"completion", "tcsh"}},
		{"missing shell", []string{"completion"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			_, _, err := execute(t, cfg, tt.args...)
			require.ErrorIs(t, err, core.ErrInvalidInvocation)
			assert.Equal(t, core.ExitNotFound, core.ExitCode(err))
		})
	}
}

func TestRootCmd_NoArgsShowsHelp(t *testing.T) {
	cfg := testConfig(t)
	stdout, _, err := execute(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
}
