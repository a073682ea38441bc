package launcher

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/sdklaunch/internal/helpers"
)

type runnerSpawner struct {
	runner helpers.CommandRunner
}

// NewSpawner returns a Spawner that prepares commands through runner
func NewSpawner(runner helpers.CommandRunner) Spawner {
	return &runnerSpawner{runner: runner}
}

// Spawn starts the process and releases it. The child must outlive the
// caller, so cancellation of ctx does not reach it.
func (s *runnerSpawner) Spawn(ctx context.Context, spec Spec) (int, error) {
	cmd, err := prepare(context.WithoutCancel(ctx), s.runner, spec)
	if err != nil {
		return 0, err
	}
	if cmd == nil {
		return 0, fmt.Errorf("no command prepared for %s", spec.Binary)
	}

	cmd.Dir = spec.Dir
	if spec.Inherit {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	// the child keeps running; only our handle goes away
	_ = cmd.Process.Release()
	return pid, nil
}
