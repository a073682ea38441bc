package locator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/db"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/quantmind-br/sdklaunch/internal/probe"
	"github.com/quantmind-br/sdklaunch/internal/redirect"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	results map[string]probe.Result
	calls   []string
}

func (f *fakeProber) Probe(_ context.Context, path string) probe.Result {
	f.calls = append(f.calls, path)
	if r, ok := f.results[path]; ok {
		r.Path = path
		return r
	}
	return probe.Result{Path: path, ExitCode: 1}
}

func verified(version string) probe.Result {
	return probe.Result{Runnable: true, Version: version}
}

func failing() probe.Result {
	return probe.Result{ExitCode: 1}
}

func runnableOnly() probe.Result {
	return probe.Result{Runnable: true}
}

type regKey struct {
	view platform.View
	key  string
	name string
}

type fakeRegistry struct {
	values  map[regKey]string
	err     error
	queried []platform.View
}

func (f *fakeRegistry) StringValue(view platform.View, keyPath, name string) (string, error) {
	f.queried = append(f.queried, view)
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[regKey{view, keyPath, name}]
	if !ok {
		return "", afero.ErrFileNotFound
	}
	return v, nil
}

// install registers a family whose CurrentVersion points at home
func (f *fakeRegistry) install(view platform.View, family, version, home string) {
	if f.values == nil {
		f.values = map[regKey]string{}
	}
	root := `SOFTWARE\JavaSoft\` + family
	f.values[regKey{view, root, "CurrentVersion"}] = version
	f.values[regKey{view, root + `\` + version, "JavaHome"}] = home
}

type fakeSystem core.Arch

func (f fakeSystem) NativeArch() core.Arch { return core.Arch(f) }

type countingProvider struct {
	depth    int
	maxDepth int
	disables int
	reverts  int
}

func (p *countingProvider) Available() bool { return true }

func (p *countingProvider) Disable() (redirect.Token, error) {
	p.depth++
	p.disables++
	if p.depth > p.maxDepth {
		p.maxDepth = p.depth
	}
	return redirect.Token(p.depth), nil
}

func (p *countingProvider) Revert(redirect.Token) error {
	p.depth--
	p.reverts++
	return nil
}

type fixture struct {
	fs       afero.Fs
	env      map[string]string
	prober   *fakeProber
	registry *fakeRegistry
	provider *countingProvider
	arch     core.Arch
	cache    Cache
	opts     Options
}

func newFixture() *fixture {
	opts := OptionsFromConfig(config.Default())
	opts.Binary = "java"
	opts.ListSeparator = ';'
	opts.UseCache = false

	return &fixture{
		fs:       afero.NewMemMapFs(),
		env:      map[string]string{},
		prober:   &fakeProber{results: map[string]probe.Result{}},
		registry: &fakeRegistry{},
		provider: &countingProvider{},
		arch:     core.ArchX86,
		opts:     opts,
	}
}

// binary creates <dir>/bin/java (or <dir>/java when bare) and returns its path
func (f *fixture) binary(t *testing.T, dir string, bare bool, result probe.Result) string {
	t.Helper()
	path := filepath.Join(dir, "bin", "java")
	if bare {
		path = filepath.Join(dir, "java")
	}
	require.NoError(t, f.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(f.fs, path, []byte("#!"), 0755))
	f.prober.results[path] = result
	return path
}

func (f *fixture) locator() *Locator {
	lookup := func(key string) (string, bool) {
		v, ok := f.env[key]
		return v, ok
	}
	return NewWithDeps(f.opts, Deps{
		Fs:       f.fs,
		Prober:   f.prober,
		Registry: f.registry,
		System:   fakeSystem(f.arch),
		Paths:    paths.NewResolverWithEnv(config.Default(), lookup, "/tmp"),
		Redirect: f.provider,
		Cache:    f.cache,
	}, nil)
}

func newCache(t *testing.T) *db.DB {
	t.Helper()
	cache, err := db.New(context.Background(), filepath.Join(t.TempDir(), "runtimes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}
