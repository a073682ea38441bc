package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/fsops"
	"github.com/quantmind-br/sdklaunch/internal/helpers"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/quantmind-br/sdklaunch/internal/redirect"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the runtime search and the staging environment",
		Long:  `Report platform facts, run every runtime strategy and check that the staging and cache directories are usable.`,
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()
			fs := afero.NewOsFs()
			resolver := paths.NewResolver(cfg)

			var issues []string

			// 1. Platform
			ui.PrintHeader(out, "Platform")
			ui.PrintKeyValue(out, "Native arch", string(platform.Host{}.NativeArch()))
			ui.PrintKeyValue(out, "FS redirection", redirect.Describe(redirect.NewProvider()))
			ui.PrintKeyValue(out, "Runtime binary", cfg.Runtime.Binary)
			ui.PrintKeyValue(out, "On PATH", fmt.Sprintf("%t", helpers.NewOSCommandRunner().CommandExists(cfg.Runtime.Binary)))

			// 2. Runtime strategies
			ui.PrintHeader(out, "Runtime")
			database := openCache(ctx, cfg, log)
			defer closeCache(database, log)

			err := runStrategyTable(ctx, out, newLocator(cfg, log, database))
			if errors.Is(err, core.ErrRuntimeNotFound) {
				issues = append(issues, "no usable Java runtime found")
			} else if err != nil {
				return err
			}

			// 3. Directories
			ui.PrintHeader(out, "Directories")
			toolsDir, err := resolver.ToolsDir()
			if err != nil {
				fmt.Fprintln(out, ui.SprintStatus(false, fmt.Sprintf("tools dir: %v", err)))
				issues = append(issues, "tools directory cannot be resolved")
			} else if fsops.IsDir(fs, toolsDir) {
				fmt.Fprintln(out, ui.SprintStatus(true, "tools dir: "+toolsDir))
			} else {
				fmt.Fprintln(out, ui.SprintStatus(false, "tools dir missing: "+toolsDir))
				issues = append(issues, "tools directory does not exist: "+toolsDir)
			}

			dirs := []struct {
				name string
				path string
			}{
				{"staging dir", resolver.StagingDir()},
				{"cache dir", filepath.Dir(resolver.CacheFile())},
				{"log dir", filepath.Dir(cfg.Paths.LogFile)},
			}
			for _, dir := range dirs {
				if err := checkDirectory(fs, dir.path); err != nil {
					fmt.Fprintln(out, ui.SprintStatus(false, fmt.Sprintf("%s: %s (%v)", dir.name, dir.path, err)))
					issues = append(issues, fmt.Sprintf("%s not writable: %s", dir.name, dir.path))
					continue
				}
				fmt.Fprintln(out, ui.SprintStatus(true, fmt.Sprintf("%s: %s", dir.name, dir.path)))
			}

			// 4. Environment
			ui.PrintHeader(out, "Environment")
			for _, name := range []string{cfg.Runtime.HomeEnv, cfg.Paths.ToolsDirEnv, cfg.Paths.DebugEnv} {
				value, ok := os.LookupEnv(name)
				if !ok {
					value = "(unset)"
				}
				ui.PrintKeyValue(out, name, value)
			}

			// Summary
			ui.PrintHeader(out, "Summary")
			if len(issues) == 0 {
				ui.PrintSuccess(out, "All checks passed")
				return nil
			}

			for _, issue := range issues {
				ui.PrintError(out, "%s", issue)
			}
			return fmt.Errorf("doctor found %d issue(s)", len(issues))
		},
	}

	return cmd
}

// checkDirectory creates path when missing and verifies it is writable
func checkDirectory(fs afero.Fs, path string) error {
	if fsops.Exists(fs, path) && !fsops.IsDir(fs, path) {
		return fmt.Errorf("not a directory")
	}
	if err := fsops.EnsureDir(fs, path, 0755); err != nil {
		return err
	}
	return fsops.CheckWritable(fs, path)
}
