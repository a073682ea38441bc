//go:build !windows

package launcher

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/sdklaunch/internal/helpers"
)

// prepare splits the command line with shell quoting rules
func prepare(ctx context.Context, runner helpers.CommandRunner, spec Spec) (*exec.Cmd, error) {
	argv, err := shellquote.Split(spec.CommandLine)
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command line")
	}
	return runner.PrepareCommand(ctx, argv[0], argv[1:]...), nil
}

// JoinArgs quotes args for a shell-style command line
func JoinArgs(args []string) string {
	return shellquote.Join(args...)
}
