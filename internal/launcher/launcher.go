// Package launcher builds the final command line and starts the
// application under the located runtime without waiting for it.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/quantmind-br/sdklaunch/internal/redirect"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ArchPlaceholder is replaced in classpath entries by the native arch label
const ArchPlaceholder = "{arch}"

// Options are the launcher settings derived from configuration
type Options struct {
	Binary             string
	WindowedBinary     string
	MainClass          string
	ToolsProperty      string
	WorkProperty       string
	Classpath          []string
	ClasspathSeparator string
}

// OptionsFromConfig converts the launch section of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	sep := cfg.Runtime.ListSeparator
	if sep == "" {
		sep = string(os.PathListSeparator)
	}
	return Options{
		Binary:             cfg.Runtime.Binary,
		WindowedBinary:     cfg.Runtime.WindowedBinary,
		MainClass:          cfg.Launch.MainClass,
		ToolsProperty:      cfg.Launch.ToolsProperty,
		WorkProperty:       cfg.Launch.WorkProperty,
		Classpath:          cfg.Launch.Classpath,
		ClasspathSeparator: sep,
	}
}

// Request describes one launch
type Request struct {
	RuntimePath string
	WorkDir     string
	ToolsDir    string
	ExtraArgs   string // appended verbatim
}

// Started describes a process that was spawned and released
type Started struct {
	PID         int
	Binary      string
	CommandLine string
	Arch        core.Arch
	Console     platform.ConsoleState
}

// Spec is what a Spawner needs to start a process
type Spec struct {
	Binary      string
	CommandLine string
	Dir         string
	Inherit     bool // share the caller's standard streams
}

// Spawner starts a process and returns without waiting for it
type Spawner interface {
	Spawn(ctx context.Context, spec Spec) (int, error)
}

// Deps are the launcher's collaborators
type Deps struct {
	Fs       afero.Fs
	System   platform.System
	Console  platform.Console
	Redirect redirect.Provider
	Spawner  Spawner
}

// Launcher decides which binary to run and starts it
type Launcher struct {
	opts  Options
	deps  Deps
	scope *redirect.Scope
	log   *zerolog.Logger
}

// New creates a Launcher bound to the running machine
func New(cfg *config.Config, log *zerolog.Logger) *Launcher {
	host := platform.Host{}
	return NewWithDeps(OptionsFromConfig(cfg), Deps{
		Fs:       afero.NewOsFs(),
		System:   host,
		Console:  host,
		Redirect: redirect.NewProvider(),
		Spawner:  NewSpawner(helpers.NewOSCommandRunner()),
	}, log)
}

// NewWithDeps creates a Launcher with injected dependencies (for tests)
func NewWithDeps(opts Options, deps Deps, log *zerolog.Logger) *Launcher {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.System == nil {
		deps.System = platform.Host{}
	}
	if deps.Console == nil {
		deps.Console = platform.Host{}
	}
	if deps.Spawner == nil {
		deps.Spawner = NewSpawner(helpers.NewOSCommandRunner())
	}
	return &Launcher{
		opts:  opts,
		deps:  deps,
		scope: redirect.NewScope(deps.Redirect, log),
		log:   log,
	}
}

// Arch returns the native architecture label used in library paths
func (l *Launcher) Arch() core.Arch {
	return l.deps.System.NativeArch()
}

// SelectBinary attaches to the parent console and picks the binary to run.
// Without a console the windowed variant is used when it sits next to the
// console one, so no empty console window pops up.
func (l *Launcher) SelectBinary(runtimePath string) (string, platform.ConsoleState) {
	state := l.deps.Console.Attach()
	if state.HasConsole() || l.opts.WindowedBinary == "" {
		return runtimePath, state
	}

	current := paths.Path(runtimePath)
	if current.BaseName() != l.opts.Binary {
		return runtimePath, state
	}

	windowed := current.ReplaceName(l.opts.Binary, l.opts.WindowedBinary)
	if l.scope.Check(func() bool { return windowed.FileExists(l.deps.Fs) }) {
		return windowed.String(), state
	}

	l.log.Debug().
		Str("runtime", runtimePath).
		Str("windowed", windowed.String()).
		Msg("windowed runtime not found, keeping console runtime")
	return runtimePath, state
}

// ClasspathFor joins the configured entries for arch
func (o Options) ClasspathFor(arch core.Arch) string {
	entries := make([]string, 0, len(o.Classpath))
	for _, entry := range o.Classpath {
		entry = strings.ReplaceAll(entry, ArchPlaceholder, string(arch))
		entries = append(entries, filepath.FromSlash(entry))
	}
	return strings.Join(entries, o.ClasspathSeparator)
}

// BuildCommandLine renders
//
//	"<bin>" -D<tools>="<toolsDir>" -D<work>="<workDir>" -classpath "<cp>" <main> <extra>
func BuildCommandLine(binary string, req Request, opts Options, arch core.Arch) string {
	var b strings.Builder
	fmt.Fprintf(&b, `"%s" -D%s="%s" -D%s="%s" -classpath "%s" %s`,
		binary,
		opts.ToolsProperty, req.ToolsDir,
		opts.WorkProperty, req.WorkDir,
		opts.ClasspathFor(arch),
		opts.MainClass,
	)
	if extra := strings.TrimSpace(req.ExtraArgs); extra != "" {
		b.WriteByte(' ')
		b.WriteString(extra)
	}
	return b.String()
}

// Launch spawns the application and releases the process handle
func (l *Launcher) Launch(ctx context.Context, req Request) (Started, error) {
	if req.RuntimePath == "" {
		return Started{}, fmt.Errorf("launch: %w", core.ErrRuntimeNotFound)
	}

	arch := l.Arch()
	binary, state := l.SelectBinary(req.RuntimePath)
	cmdLine := BuildCommandLine(binary, req, l.opts, arch)

	started := Started{
		Binary:      binary,
		CommandLine: cmdLine,
		Arch:        arch,
		Console:     state,
	}

	l.log.Debug().
		Str("command_line", cmdLine).
		Str("dir", req.WorkDir).
		Str("console", state.String()).
		Msg("spawning")

	pid, err := l.deps.Spawner.Spawn(ctx, Spec{
		Binary:      binary,
		CommandLine: cmdLine,
		Dir:         req.WorkDir,
		Inherit:     state.HasConsole(),
	})
	if err != nil {
		return started, &core.LaunchError{CommandLine: cmdLine, Err: err}
	}
	started.PID = pid

	l.log.Info().
		Int("pid", pid).
		Str("binary", binary).
		Str("arch", string(arch)).
		Msg("application started")

	return started, nil
}
