package locator

import (
	"context"
	"errors"
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/spf13/afero"
)

var notFound = core.ErrRuntimeNotFound

type cacheStrategy struct{ l *Locator }

func (s *cacheStrategy) Name() core.Strategy { return core.StrategyCache }

func (s *cacheStrategy) Find(ctx context.Context) (core.Runtime, error) {
	cached, err := s.l.deps.Cache.Latest(ctx)
	if err != nil {
		s.l.log.Debug().Err(err).Msg("no usable cache entry")
		return core.Runtime{}, notFound
	}

	if rt, ok := s.l.check(ctx, paths.Path(cached.Path), core.StrategyCache); ok {
		return rt, nil
	}

	// stale: the runtime moved or broke since it was recorded
	if err := s.l.deps.Cache.Delete(ctx, cached.Path); err != nil {
		s.l.log.Warn().Err(err).Str("path", cached.Path).Msg("failed to drop stale cache entry")
	}
	return core.Runtime{}, notFound
}

type envStrategy struct{ l *Locator }

func (s *envStrategy) Name() core.Strategy { return core.StrategyEnv }

func (s *envStrategy) Find(ctx context.Context) (core.Runtime, error) {
	home := s.l.deps.Paths.Env(s.l.opts.HomeEnv)
	if home == "" {
		return core.Runtime{}, notFound
	}
	if rt, ok := s.l.check(ctx, s.l.binaryUnder(paths.Path(home)), core.StrategyEnv); ok {
		return rt, nil
	}
	return core.Runtime{}, notFound
}

type pathStrategy struct{ l *Locator }

func (s *pathStrategy) Name() core.Strategy { return core.StrategyPath }

func (s *pathStrategy) Find(ctx context.Context) (core.Runtime, error) {
	value := s.l.deps.Paths.Env(s.l.opts.PathEnv)
	for _, dir := range paths.SplitList(value, s.l.opts.ListSeparator) {
		if err := ctx.Err(); err != nil {
			return core.Runtime{}, err
		}
		if rt, ok := s.l.check(ctx, dir.Append(s.l.opts.Binary), core.StrategyPath); ok {
			return rt, nil
		}
	}
	return core.Runtime{}, notFound
}

type registryStrategy struct{ l *Locator }

func (s *registryStrategy) Name() core.Strategy { return core.StrategyRegistry }

// views lists the registry personalities to search. Forced views only make
// sense when the hardware is 64-bit.
func (s *registryStrategy) views() []platform.View {
	if s.l.deps.System.NativeArch().IsWide() {
		return []platform.View{platform.ViewDefault, platform.View32, platform.View64}
	}
	return []platform.View{platform.ViewDefault}
}

func (s *registryStrategy) Find(ctx context.Context) (core.Runtime, error) {
	for _, view := range s.views() {
		for _, family := range s.l.opts.RegistryFamilies {
			if err := ctx.Err(); err != nil {
				return core.Runtime{}, err
			}

			home, err := s.home(view, family)
			if errors.Is(err, platform.ErrNoRegistry) {
				return core.Runtime{}, notFound
			}
			if err != nil {
				s.l.log.Debug().
					Err(err).
					Str("view", view.String()).
					Str("family", family).
					Msg("registry lookup failed")
				continue
			}

			if rt, ok := s.l.check(ctx, s.l.binaryUnder(paths.Path(home)), core.StrategyRegistry); ok {
				return rt, nil
			}
		}
	}
	return core.Runtime{}, notFound
}

// home resolves <root>\<family>\CurrentVersion, then <root>\<family>\<version>\JavaHome
func (s *registryStrategy) home(view platform.View, family string) (string, error) {
	familyKey := s.l.opts.RegistryRoot + `\` + family

	version, err := s.l.deps.Registry.StringValue(view, familyKey, s.l.opts.VersionValue)
	if err != nil {
		return "", fmt.Errorf("read %s\\%s: %w", familyKey, s.l.opts.VersionValue, err)
	}
	if version == "" {
		return "", fmt.Errorf("empty %s under %s", s.l.opts.VersionValue, familyKey)
	}

	versionKey := familyKey + `\` + version
	home, err := s.l.deps.Registry.StringValue(view, versionKey, s.l.opts.HomeValue)
	if err != nil {
		return "", fmt.Errorf("read %s\\%s: %w", versionKey, s.l.opts.HomeValue, err)
	}
	return home, nil
}

type programFilesStrategy struct{ l *Locator }

func (s *programFilesStrategy) Name() core.Strategy { return core.StrategyProgramFiles }

func (s *programFilesStrategy) Find(ctx context.Context) (core.Runtime, error) {
	if rt, ok := s.first(ctx, s.installDirs(s.l.deps.Paths.ProgramFiles())); ok {
		return rt, nil
	}

	if !s.l.deps.System.NativeArch().IsWide() {
		return core.Runtime{}, notFound
	}

	// second pass over the native directory, enumerated with redirection off;
	// each candidate check opens its own scope afterwards
	var dirs []paths.Path
	_ = s.l.scope.Do(func() error {
		dirs = s.installDirs(s.l.deps.Paths.NativeProgramFiles())
		return nil
	})
	if rt, ok := s.first(ctx, dirs); ok {
		return rt, nil
	}
	return core.Runtime{}, notFound
}

// installDirs lists the directories matching <root>/<subdir>/<glob>
func (s *programFilesStrategy) installDirs(root string) []paths.Path {
	if root == "" {
		return nil
	}

	pattern := paths.Path(root).Append(s.l.opts.InstallSubdir, s.l.opts.InstallGlob).String()
	matches, err := afero.Glob(s.l.deps.Fs, pattern)
	if err != nil {
		s.l.log.Debug().Err(err).Str("pattern", pattern).Msg("install dir glob failed")
		return nil
	}

	var dirs []paths.Path
	for _, match := range matches {
		if dir := paths.Path(match); dir.DirExists(s.l.deps.Fs) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// first returns the first install dir holding a usable <dir>/bin/<binary>
func (s *programFilesStrategy) first(ctx context.Context, dirs []paths.Path) (core.Runtime, bool) {
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return core.Runtime{}, false
		}
		if rt, ok := s.l.check(ctx, s.l.binaryUnder(dir), core.StrategyProgramFiles); ok {
			return rt, true
		}
	}
	return core.Runtime{}, false
}
