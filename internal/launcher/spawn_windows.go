//go:build windows

package launcher

import (
	"context"
	"os/exec"
	"strings"
	"syscall"

	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"golang.org/x/sys/windows"
)

// prepare hands the command line to CreateProcess untouched
func prepare(ctx context.Context, runner helpers.CommandRunner, spec Spec) (*exec.Cmd, error) {
	cmd := runner.PrepareCommand(ctx, spec.Binary)
	if cmd == nil {
		return nil, nil
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = spec.CommandLine
	return cmd, nil
}

// JoinArgs quotes args for a Windows command line
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = windows.EscapeArg(arg)
	}
	return strings.Join(quoted, " ")
}
