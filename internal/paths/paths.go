package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/sdklaunch/internal/config"
)

// LookupEnv matches os.LookupEnv
type LookupEnv func(key string) (string, bool)

// Resolver centralises the well-known locations used by sdklaunch.
// It reads the environment through an injectable lookup so tests stay hermetic.
type Resolver struct {
	cfg     *config.Config
	lookup  LookupEnv
	tempDir string
	exeDir  func() (string, error)
}

// NewResolver creates a Resolver bound to the process environment
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		cfg:     cfg,
		lookup:  os.LookupEnv,
		tempDir: os.TempDir(),
		exeDir:  executableDir,
	}
}

// NewResolverWithEnv creates a Resolver with explicit environment and temp root (useful for tests)
func NewResolverWithEnv(cfg *config.Config, lookup LookupEnv, tempDir string) *Resolver {
	return &Resolver{
		cfg:     cfg,
		lookup:  lookup,
		tempDir: tempDir,
		exeDir:  executableDir,
	}
}

// Env returns the value of key, or "" when unset
func (r *Resolver) Env(key string) string {
	if key == "" {
		return ""
	}
	v, _ := r.lookup(key)
	return v
}

// ToolsDir returns the tools directory: the override variable when set,
// otherwise the directory holding the running executable.
func (r *Resolver) ToolsDir() (string, error) {
	if dir := r.Env(r.cfg.Paths.ToolsDirEnv); dir != "" {
		return dir, nil
	}
	dir, err := r.exeDir()
	if err != nil {
		return "", fmt.Errorf("resolve tools dir: %w", err)
	}
	return dir, nil
}

// StagingDir returns the fixed private working directory under the temp root
func (r *Resolver) StagingDir() string {
	return filepath.Join(r.tempDir, r.cfg.Staging.DirName)
}

// ProgramFiles returns the program-files directory as seen by this process
func (r *Resolver) ProgramFiles() string {
	return r.Env("ProgramFiles")
}

// NativeProgramFiles returns the program-files directory of the native
// architecture. On a 64-bit OS a 32-bit process sees ProgramFiles pointing
// at the x86 folder; ProgramW6432 always names the real one.
func (r *Resolver) NativeProgramFiles() string {
	if dir := r.Env("ProgramW6432"); dir != "" {
		return dir
	}
	return r.ProgramFiles()
}

// CacheFile returns the runtime cache database location
func (r *Resolver) CacheFile() string {
	return r.cfg.Paths.CacheFile
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
