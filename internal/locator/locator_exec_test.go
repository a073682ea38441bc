//go:build !windows

package locator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/probe"
	"github.com/quantmind-br/sdklaunch/internal/redirect"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func script(t *testing.T, dir, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestLocate_SearchPathWithRealProbe(t *testing.T) {
	root := t.TempDir()
	broken := script(t, filepath.Join(root, "broken", "bin"), "exit 1\n")
	want := script(t, filepath.Join(root, "good"), `echo 'java version "1.6.0_29"' >&2`+"\n")

	env := map[string]string{
		"JAVA_HOME": filepath.Join(root, "broken"),
		"PATH":      filepath.Join(root, "empty") + ":" + filepath.Join(root, "good"),
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := config.Default()
	opts := OptionsFromConfig(cfg)
	opts.Binary = "java"
	opts.ListSeparator = ':'
	opts.UseCache = false

	prober := probe.New(helpers.NewOSCommandRunner(), probe.Options{}, nil)
	l := NewWithDeps(opts, Deps{
		Fs:       afero.NewOsFs(),
		Prober:   prober,
		Registry: &fakeRegistry{},
		System:   fakeSystem(core.ArchX86),
		Paths:    paths.NewResolverWithEnv(cfg, lookup, root),
		Redirect: redirect.Noop{},
	}, nil)

	rt, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, rt.Path)
	assert.Equal(t, core.StrategyPath, rt.Strategy)
	assert.Equal(t, "1.6", rt.Version)
	assert.NotEqual(t, broken, rt.Path)

	// an independent probe of the reported path agrees
	again := prober.Probe(context.Background(), rt.Path)
	assert.True(t, again.Verified())
	assert.Equal(t, rt.Version, again.Version)
}
