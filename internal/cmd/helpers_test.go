package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/logging"
	"github.com/stretchr/testify/require"
)

// testConfig isolates every variable and directory the commands touch
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Runtime.HomeEnv = "SDKLAUNCH_TEST_HOME"
	cfg.Runtime.PathEnv = "SDKLAUNCH_TEST_PATH"
	cfg.Runtime.ListSeparator = string(os.PathListSeparator)
	cfg.Paths.ToolsDirEnv = "SDKLAUNCH_TEST_TOOLS"
	cfg.Paths.DebugEnv = "SDKLAUNCH_TEST_DEBUG"

	data := t.TempDir()
	cfg.Paths.CacheFile = filepath.Join(data, "cache", "runtimes.db")
	cfg.Paths.LogFile = filepath.Join(data, "log", "sdklaunch.log")

	t.Setenv("TMPDIR", t.TempDir())
	t.Setenv("ProgramFiles", "")
	t.Setenv("ProgramW6432", "")
	t.Setenv("SDKLAUNCH_TEST_HOME", "")
	t.Setenv("SDKLAUNCH_TEST_PATH", "")
	t.Setenv("SDKLAUNCH_TEST_TOOLS", t.TempDir())

	return cfg
}

// execute runs the root command with args and returns stdout, stderr
func execute(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd(cfg, logging.NewTestLogger(io.Discard), "1.2.3")

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeLibs creates the files the default staging manifest asks for
func writeLibs(t *testing.T, toolsDir string) {
	t.Helper()
	files := []string{
		"lib/x86/swt.jar",
		"lib/x86_64/swt.jar",
		"lib/androidprefs.jar",
		"lib/org.eclipse.core.commands_3.6.0.jar",
		"lib/sdkmanager.jar",
		"lib/sdklib.jar",
		"lib/common.jar",
		"lib/commons-compress-1.0.jar",
		"lib/swtmenubar.jar",
		"lib/commons-logging-1.1.1.jar",
		"lib/commons-codec-1.4.jar",
		"lib/httpclient-4.1.1.jar",
		"lib/httpcore-4.1.jar",
		"lib/httpmime-4.1.1.jar",
	}
	for _, f := range files {
		path := filepath.Join(toolsDir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
}
