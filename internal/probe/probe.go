// Package probe runs a candidate runtime with -version and decides whether
// it is usable and which major.minor version it reports.
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"github.com/rs/zerolog"
)

// WindowSize is how many leading output bytes are kept for parsing.
// The banner's first line, e.g. `java version "1.6.0_29"`, fits in it.
const WindowSize = 32

// VersionFlag is the argument that makes the runtime print its banner
const VersionFlag = "-version"

// DefaultKeywords must all appear in the captured window for a banner to count
var DefaultKeywords = []string{"java", "version"}

// Options tunes a Prober
type Options struct {
	Keywords []string
	Timeout  time.Duration // zero means wait for as long as the child runs
}

// Result is the outcome of one probe
type Result struct {
	Path     string
	ExitCode int
	Runnable bool   // the child started and exited with code 0
	Version  string // "d.d", empty when no banner was recognised
	Output   string // the lowercased capture window
	Err      error  // set when the child could not be run
}

// Verified reports whether the binary is runnable and identified itself
func (r Result) Verified() bool {
	return r.Runnable && r.Version != ""
}

// Prober spawns candidate binaries
type Prober struct {
	runner helpers.CommandRunner
	opts   Options
	log    *zerolog.Logger
}

// New creates a Prober
func New(runner helpers.CommandRunner, opts Options, log *zerolog.Logger) *Prober {
	if runner == nil {
		runner = helpers.NewOSCommandRunner()
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = DefaultKeywords
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Prober{runner: runner, opts: opts, log: log}
}

// Probe runs `<path> -version`, draining the merged output while keeping
// only the first WindowSize bytes, then parses the version token.
func (p *Prober) Probe(ctx context.Context, path string) Result {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	w := &window{}
	err := p.runner.RunCommandMerged(ctx, w, path, VersionFlag)

	res := Result{
		Path:     path,
		ExitCode: p.runner.GetExitCode(err),
		Output:   w.String(),
	}
	res.Runnable = err == nil && res.ExitCode == 0
	if res.ExitCode < 0 {
		res.Err = err
	}

	if version, ok := ParseVersion(res.Output, p.opts.Keywords); ok {
		if res.Runnable {
			res.Version = version
		}
	} else if res.Output != "" {
		p.log.Debug().
			Str("path", path).
			Str("output", res.Output).
			Strs("keywords", p.opts.Keywords).
			Msg("version banner not recognised")
	}

	p.log.Debug().
		Str("path", path).
		Int("exit_code", res.ExitCode).
		Str("version", res.Version).
		Msg("probed runtime")

	return res
}

// Runnable is the standalone "this binary works" check: exit code 0
func (p *Prober) Runnable(ctx context.Context, path string) bool {
	return p.Probe(ctx, path).Runnable
}

// ParseVersion looks for every keyword in captured, then returns the first
// digit.digit substring. Matching is case-sensitive; callers pass the
// lowercased window.
func ParseVersion(captured string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if !strings.Contains(captured, kw) {
			return "", false
		}
	}

	for i := 0; i+2 < len(captured); i++ {
		if isDigit(captured[i]) && captured[i+1] == '.' && isDigit(captured[i+2]) {
			return captured[i : i+3], true
		}
	}
	return "", false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// window keeps the first WindowSize bytes, ASCII-lowercased, and accepts
// (then drops) everything after so the child never blocks on a full pipe.
type window struct {
	buf   [WindowSize]byte
	n     int
	total int64
}

func (w *window) Write(b []byte) (int, error) {
	w.total += int64(len(b))
	for _, c := range b {
		if w.n >= WindowSize {
			break
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		w.buf[w.n] = c
		w.n++
	}
	return len(b), nil
}

func (w *window) String() string {
	return string(w.buf[:w.n])
}
