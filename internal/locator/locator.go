// Package locator finds a usable Java runtime by walking an ordered list of
// discovery strategies and verifying each candidate before accepting it.
package locator

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/quantmind-br/sdklaunch/internal/probe"
	"github.com/quantmind-br/sdklaunch/internal/redirect"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Strategy is one discovery technique
type Strategy interface {
	// Name returns the strategy name
	Name() core.Strategy

	// Find returns a verified runtime, or core.ErrRuntimeNotFound
	Find(ctx context.Context) (core.Runtime, error)
}

// Prober verifies a candidate binary
type Prober interface {
	Probe(ctx context.Context, path string) probe.Result
}

// Cache remembers the last runtime that was found
type Cache interface {
	Latest(ctx context.Context) (core.Runtime, error)
	Record(ctx context.Context, rt core.Runtime) error
	Delete(ctx context.Context, path string) error
}

// Options are the locator settings derived from configuration
type Options struct {
	Binary           string
	HomeEnv          string
	PathEnv          string
	ListSeparator    byte
	RegistryRoot     string
	RegistryFamilies []string
	VersionValue     string
	HomeValue        string
	InstallSubdir    string
	InstallGlob      string
	RequireVersion   bool
	UseCache         bool
}

// OptionsFromConfig converts the runtime section of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	sep := byte(os.PathListSeparator)
	if s := cfg.Runtime.ListSeparator; s != "" {
		sep = s[0]
	}
	return Options{
		Binary:           cfg.Runtime.Binary,
		HomeEnv:          cfg.Runtime.HomeEnv,
		PathEnv:          cfg.Runtime.PathEnv,
		ListSeparator:    sep,
		RegistryRoot:     cfg.Runtime.RegistryRoot,
		RegistryFamilies: cfg.Runtime.RegistryFamilies,
		VersionValue:     cfg.Runtime.VersionValue,
		HomeValue:        cfg.Runtime.HomeValue,
		InstallSubdir:    cfg.Runtime.InstallSubdir,
		InstallGlob:      cfg.Runtime.InstallGlob,
		RequireVersion:   cfg.Runtime.RequireVersion,
		UseCache:         cfg.Runtime.Cache,
	}
}

// Deps are the collaborators shared by every strategy
type Deps struct {
	Fs       afero.Fs
	Prober   Prober
	Registry platform.Registry
	System   platform.System
	Paths    *paths.Resolver
	Redirect redirect.Provider
	Cache    Cache // optional
}

// Locator runs strategies in priority order
type Locator struct {
	opts       Options
	deps       Deps
	scope      *redirect.Scope
	strategies []Strategy
	log        *zerolog.Logger
	now        func() time.Time
}

// New creates a Locator bound to the running machine
func New(cfg *config.Config, log *zerolog.Logger, cache Cache) *Locator {
	prober := probe.New(helpers.NewOSCommandRunner(), probe.Options{
		Keywords: cfg.Runtime.BannerKeywords,
		Timeout:  cfg.Runtime.ProbeTimeout,
	}, log)

	return NewWithDeps(OptionsFromConfig(cfg), Deps{
		Fs:       afero.NewOsFs(),
		Prober:   prober,
		Registry: platform.NewRegistry(),
		System:   platform.Host{},
		Paths:    paths.NewResolver(cfg),
		Redirect: redirect.NewProvider(),
		Cache:    cache,
	}, log)
}

// NewWithDeps creates a Locator with injected dependencies (for tests)
func NewWithDeps(opts Options, deps Deps, log *zerolog.Logger) *Locator {
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
	if deps.Registry == nil {
		deps.Registry = platform.NewRegistry()
	}
	if deps.Paths == nil {
		deps.Paths = paths.NewResolver(config.Default())
	}
	if deps.Prober == nil {
		deps.Prober = probe.New(nil, probe.Options{}, log)
	}

	l := &Locator{
		opts:  opts,
		deps:  deps,
		scope: redirect.NewScope(deps.Redirect, log),
		log:   log,
		now:   time.Now,
	}

	// Register strategies in priority order
	// 1. Explicit home variable, then the search path
	l.strategies = append(l.strategies, &envStrategy{l: l}, &pathStrategy{l: l})

	// 2. Runtime recorded by a previous run, re-verified; spares the
	// registry and install-dir passes
	if opts.UseCache && deps.Cache != nil {
		l.strategies = append(l.strategies, &cacheStrategy{l: l})
	}

	// 3. Installation registry, JRE families before JDK families
	l.strategies = append(l.strategies, &registryStrategy{l: l})

	// 4. Well-known install directory
	l.strategies = append(l.strategies, &programFilesStrategy{l: l})

	return l
}

// Strategies returns the strategies in the order Locate tries them
func (l *Locator) Strategies() []Strategy {
	out := make([]Strategy, len(l.strategies))
	copy(out, l.strategies)
	return out
}

// Locate returns the first verified runtime; later strategies are not consulted
func (l *Locator) Locate(ctx context.Context) (core.Runtime, error) {
	for _, s := range l.strategies {
		if err := ctx.Err(); err != nil {
			return core.Runtime{}, err
		}

		rt, err := s.Find(ctx)
		if err != nil {
			if !errors.Is(err, core.ErrRuntimeNotFound) {
				l.log.Warn().
					Err(err).
					Str("strategy", string(s.Name())).
					Msg("strategy failed")
			}
			continue
		}

		l.log.Info().
			Str("strategy", string(rt.Strategy)).
			Str("path", rt.Path).
			Str("version", rt.Version).
			Msg("runtime located")

		l.remember(ctx, rt)
		return rt, nil
	}

	return core.Runtime{}, core.ErrRuntimeNotFound
}

func (l *Locator) remember(ctx context.Context, rt core.Runtime) {
	if !l.opts.UseCache || l.deps.Cache == nil || rt.Strategy == core.StrategyCache {
		return
	}
	if err := l.deps.Cache.Record(ctx, rt); err != nil {
		l.log.Warn().Err(err).Str("path", rt.Path).Msg("failed to cache runtime")
	}
}

// check verifies one candidate: it must exist and pass the probe. Both
// happen with redirection disabled so a 32-bit process sees the real file.
func (l *Locator) check(ctx context.Context, candidate paths.Path, strategy core.Strategy) (core.Runtime, bool) {
	if candidate.IsEmpty() {
		return core.Runtime{}, false
	}

	var res probe.Result
	found := l.scope.Check(func() bool {
		if !candidate.FileExists(l.deps.Fs) {
			return false
		}
		res = l.deps.Prober.Probe(ctx, candidate.String())
		return true
	})

	switch {
	case !found:
		l.reject(strategy, candidate).Msg("candidate missing")
		return core.Runtime{}, false
	case !res.Runnable:
		l.reject(strategy, candidate).Int("exit_code", res.ExitCode).Err(res.Err).Msg("candidate not runnable")
		return core.Runtime{}, false
	case l.opts.RequireVersion && !res.Verified():
		l.reject(strategy, candidate).Str("output", res.Output).Err(core.ErrVerificationFailed).Msg("candidate rejected")
		return core.Runtime{}, false
	}

	return core.Runtime{
		Path:      candidate.String(),
		Version:   res.Version,
		Strategy:  strategy,
		Verified:  res.Verified(),
		LocatedAt: l.now(),
	}, true
}

func (l *Locator) reject(strategy core.Strategy, candidate paths.Path) *zerolog.Event {
	return l.log.Debug().Str("strategy", string(strategy)).Str("path", candidate.String())
}

// binaryUnder returns <home>/bin/<binary>
func (l *Locator) binaryUnder(home paths.Path) paths.Path {
	if home.IsEmpty() {
		return ""
	}
	return home.Append("bin", l.opts.Binary)
}
