// Package platform wraps the OS facts the launcher depends on: the native
// architecture, the configuration registry, console attachment and short
// path conversion. Non-Windows hosts get inert implementations.
package platform

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/core"
)

// View selects which registry personality a lookup goes through
type View int

const (
	ViewDefault View = iota // whatever the process bitness implies
	View32                  // forced 32-bit view
	View64                  // forced 64-bit view
)

func (v View) String() string {
	switch v {
	case View32:
		return "32-bit"
	case View64:
		return "64-bit"
	default:
		return "default"
	}
}

// ConsoleState is the outcome of trying to attach to the parent's console
type ConsoleState int

const (
	ConsoleAttached        ConsoleState = iota // attached to the parent console just now
	ConsoleAlreadyAttached                     // the process already owns a console
	ConsoleNone                                // no parent console to attach to
)

func (c ConsoleState) String() string {
	switch c {
	case ConsoleAttached:
		return "attached"
	case ConsoleAlreadyAttached:
		return "already-attached"
	default:
		return "none"
	}
}

// HasConsole reports whether output will be visible in a terminal
func (c ConsoleState) HasConsole() bool {
	return c != ConsoleNone
}

var (
	// ErrNoRegistry is returned by registry lookups on hosts without one
	ErrNoRegistry = errors.New("registry not available on this platform")

	// ErrValueTooLarge is returned when a value outgrows the retry bound
	ErrValueTooLarge = errors.New("registry value exceeds size limit")
)

// Registry reads string values below HKEY_LOCAL_MACHINE
type Registry interface {
	StringValue(view View, keyPath, name string) (string, error)
}

// System exposes native machine information
type System interface {
	// NativeArch reports the true hardware architecture label, bypassing WOW64
	NativeArch() core.Arch
}

// Console attaches to an inherited console
type Console interface {
	Attach() ConsoleState
}

// Host is the System and Console of the running machine
type Host struct{}

// NativeArch implements System.NativeArch
func (Host) NativeArch() core.Arch {
	return nativeArch()
}

// Attach implements Console.Attach
func (Host) Attach() ConsoleState {
	return attachConsole()
}

// NewRegistry returns the registry of the running machine
func NewRegistry() Registry {
	return newRegistry()
}

// ShortPath converts path to its short (8.3) form where the OS supports it
func ShortPath(path string) (string, error) {
	out, err := shortPath(path)
	if err != nil {
		return "", fmt.Errorf("convert %s to short path: %w", path, err)
	}
	return out, nil
}

const (
	initialValueSize = 4 << 10  // MAX_PATH is 260, so 4 KiB is usually plenty
	maxValueSize     = 64 << 10 // give up beyond this
)

// readGrowing calls read with an increasing buffer until the data fits.
// read returns the number of bytes needed and whether buf was too small.
// The buffer doubles (or jumps to the reported size) up to limit.
func readGrowing(read func(buf []byte) (n int, short bool, err error), start, limit int) ([]byte, error) {
	size := start
	for size <= limit {
		buf := make([]byte, size)
		n, short, err := read(buf)
		if err != nil {
			return nil, err
		}
		if !short {
			return buf[:n], nil
		}
		next := size * 2
		if n > next {
			next = n
		}
		size = next
	}
	return nil, ErrValueTooLarge
}

func labelFor(goarch string) core.Arch {
	switch goarch {
	case "amd64", "arm64", "x86_64", "ia64":
		return core.ArchX86_64
	default:
		return core.ArchX86
	}
}
