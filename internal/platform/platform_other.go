//go:build !windows

package platform

import (
	"os"
	"runtime"

	"github.com/quantmind-br/sdklaunch/internal/core"
	"golang.org/x/term"
)

func nativeArch() core.Arch {
	return labelFor(runtime.GOARCH)
}

// Without a console API, a terminal on stdout or stderr stands in for an
// inherited console.
func attachConsole() ConsoleState {
	if term.IsTerminal(int(os.Stdout.Fd())) || term.IsTerminal(int(os.Stderr.Fd())) {
		return ConsoleAlreadyAttached
	}
	return ConsoleNone
}

type noRegistry struct{}

func newRegistry() Registry {
	return noRegistry{}
}

func (noRegistry) StringValue(View, string, string) (string, error) {
	return "", ErrNoRegistry
}

func shortPath(path string) (string, error) {
	return path, nil
}
