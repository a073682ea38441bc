// Package staging mirrors the application's library files into a private
// working directory so the originals stay unlocked while the app runs.
package staging

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/fsops"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/security"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Entry selects source files with a glob relative to the source root
type Entry struct {
	Glob     string
	Dest     string // directory under the work dir; defaults to the glob's directory
	Optional bool   // zero matches is not an error
}

// Manifest is the full staging request
type Manifest struct {
	Dirs  []string
	Files []Entry
}

// ManifestFromConfig converts the staging section of cfg
func ManifestFromConfig(cfg config.StagingConfig) Manifest {
	m := Manifest{Dirs: append([]string(nil), cfg.Dirs...)}
	for _, f := range cfg.Files {
		m.Files = append(m.Files, Entry{Glob: f.Glob, Dest: f.Dest, Optional: f.Optional})
	}
	return m
}

// Action tells what happened to one matched file
type Action int

const (
	ActionCopied Action = iota
	ActionSkipped
)

func (a Action) String() string {
	if a == ActionSkipped {
		return "skipped"
	}
	return "copied"
}

// Event is passed to a ProgressFunc once per processed file
type Event struct {
	Source string
	Dest   string
	Action Action
}

// ProgressFunc observes staging progress
type ProgressFunc func(Event)

// Report summarises one staging run
type Report struct {
	WorkDir         string
	Copied          int
	Skipped         int
	MissingOptional []string
}

// Copier copies one file; fsops.CopyFile by default
type Copier func(fs afero.Fs, src, dst string) error

// Manager owns the fixed-name working directory
type Manager struct {
	fs      afero.Fs
	workDir string
	copy    Copier
	log     *zerolog.Logger
}

// New creates a Manager rooted at the OS temp directory
func New(cfg *config.Config, log *zerolog.Logger) *Manager {
	return NewWithDeps(afero.NewOsFs(), paths.NewResolver(cfg).StagingDir(), nil, log)
}

// NewWithDeps creates a Manager with injected dependencies (for tests)
func NewWithDeps(fs afero.Fs, workDir string, copier Copier, log *zerolog.Logger) *Manager {
	if copier == nil {
		copier = fsops.CopyFile
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Manager{fs: fs, workDir: workDir, copy: copier, log: log}
}

// Stage creates the work dir and mirrors manifest into it, returning the work dir
func (m *Manager) Stage(ctx context.Context, sourceRoot string, manifest Manifest) (string, error) {
	report, err := m.StageWithReport(ctx, sourceRoot, manifest, nil)
	if err != nil {
		return "", err
	}
	return report.WorkDir, nil
}

// StageWithReport is Stage with per-file progress and a summary
func (m *Manager) StageWithReport(ctx context.Context, sourceRoot string, manifest Manifest, progress ProgressFunc) (Report, error) {
	report := Report{WorkDir: m.workDir}

	if m.workDir == "" {
		return report, &core.StagingError{Path: m.workDir, Err: fmt.Errorf("work dir not set")}
	}

	dests, err := m.plan(manifest)
	if err != nil {
		return report, err
	}

	if err := fsops.EnsureDir(m.fs, m.workDir, 0755); err != nil {
		return report, &core.StagingError{Path: m.workDir, Err: err}
	}
	for _, dir := range manifest.Dirs {
		target := filepath.Join(m.workDir, filepath.FromSlash(dir))
		if err := fsops.EnsureDir(m.fs, target, 0755); err != nil {
			return report, &core.StagingError{Path: target, Err: err}
		}
	}

	for i, entry := range manifest.Files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := m.stageEntry(sourceRoot, entry, dests[i], &report, progress); err != nil {
			return report, err
		}
	}

	m.log.Debug().
		Str("work_dir", m.workDir).
		Int("copied", report.Copied).
		Int("skipped", report.Skipped).
		Int("missing_optional", len(report.MissingOptional)).
		Msg("staging complete")

	return report, nil
}

// plan validates every entry before anything touches the disk and returns
// the resolved destination directory of each one
func (m *Manager) plan(manifest Manifest) ([]string, error) {
	declared := map[string]bool{".": true}
	for _, dir := range manifest.Dirs {
		if err := security.ValidateRelativePath(m.workDir, dir); err != nil {
			return nil, &core.StagingError{Path: dir, Err: err}
		}
		declared[normalize(dir)] = true
	}

	dests := make([]string, len(manifest.Files))
	for i, entry := range manifest.Files {
		if err := security.ValidateGlob(entry.Glob); err != nil {
			return nil, &core.StagingError{Path: entry.Glob, Err: err}
		}

		dest := entry.Dest
		if dest == "" {
			dest = path.Dir(strings.ReplaceAll(entry.Glob, `\`, "/"))
		}
		dest = normalize(dest)
		if !declared[dest] {
			return nil, &core.StagingError{
				Path: entry.Glob,
				Err:  fmt.Errorf("destination %q is not a declared directory", dest),
			}
		}
		dests[i] = dest
	}
	return dests, nil
}

func (m *Manager) stageEntry(sourceRoot string, entry Entry, dest string, report *Report, progress ProgressFunc) error {
	pattern := filepath.Join(sourceRoot, filepath.FromSlash(entry.Glob))
	matches, err := afero.Glob(m.fs, pattern)
	if err != nil {
		return &core.StagingError{Path: pattern, Err: err}
	}

	var files []string
	for _, match := range matches {
		if !fsops.IsDir(m.fs, match) {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		if entry.Optional {
			m.log.Debug().Str("glob", entry.Glob).Msg("optional staging entry matched nothing")
			report.MissingOptional = append(report.MissingOptional, entry.Glob)
			return nil
		}
		return &core.StagingError{Path: pattern, Err: os.ErrNotExist}
	}

	destDir := filepath.Join(m.workDir, filepath.FromSlash(dest))
	for _, src := range files {
		dst := filepath.Join(destDir, filepath.Base(src))
		action, err := m.stageFile(src, dst)
		if err != nil {
			return err
		}

		switch action {
		case ActionCopied:
			report.Copied++
		case ActionSkipped:
			report.Skipped++
		}
		if progress != nil {
			progress(Event{Source: src, Dest: dst, Action: action})
		}
	}
	return nil
}

// stageFile copies src over dst unless dst is already current.
// The copy keeps the source's modification time, so an untouched source
// is skipped on the next run.
func (m *Manager) stageFile(src, dst string) (Action, error) {
	srcInfo, err := m.fs.Stat(src)
	if err != nil {
		return ActionCopied, &core.StagingError{Path: src, Err: err}
	}

	if dstInfo, err := m.fs.Stat(dst); err == nil {
		if fsops.UpToDate(srcInfo, dstInfo) {
			m.log.Debug().Str("file", dst).Msg("up to date, skipping")
			return ActionSkipped, nil
		}
		if fsops.IsReadOnly(dstInfo) {
			if err := fsops.ClearReadOnly(m.fs, dst); err != nil {
				return ActionCopied, &core.StagingError{Path: dst, Err: err}
			}
		}
	}

	if err := m.copy(m.fs, src, dst); err != nil {
		return ActionCopied, &core.StagingError{Path: dst, Err: err}
	}

	mtime := srcInfo.ModTime()
	if err := m.fs.Chtimes(dst, mtime, mtime); err != nil {
		m.log.Debug().Err(err).Str("file", dst).Msg("failed to keep source mtime")
	}

	m.log.Debug().Str("src", src).Str("dst", dst).Msg("copied")
	return ActionCopied, nil
}

// normalize turns a manifest directory into a comparable slash form
func normalize(dir string) string {
	dir = strings.ReplaceAll(dir, `\`, "/")
	dir = path.Clean(dir)
	if dir == "" || dir == "/" {
		return "."
	}
	return strings.TrimSuffix(dir, "/")
}
