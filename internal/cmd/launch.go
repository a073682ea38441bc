package cmd

import (
	"context"
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/launcher"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/quantmind-br/sdklaunch/internal/staging"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewLaunchCmd creates the launch command
func NewLaunchCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch [-- args...]",
		Short: "Locate a runtime, stage the libraries and start the SDK manager",
		Long: `Locate a Java runtime, mirror the SDK manager libraries into the private
temp directory and start the manager from there without waiting for it.

Arguments after the command (use -- before any that start with a dash) are
appended to the manager's command line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			resolver := paths.NewResolver(cfg)
			toolsDir, err := resolver.ToolsDir()
			if err != nil {
				return err
			}

			database := openCache(ctx, cfg, log)
			defer closeCache(database, log)

			rt, err := newLocator(cfg, log, database).Locate(ctx)
			if err != nil {
				return err
			}

			workDir, err := stageWithProgress(ctx, cmd, cfg, log, toolsDir)
			if err != nil {
				return err
			}

			started, err := launcher.New(cfg, log).Launch(ctx, launcher.Request{
				RuntimePath: rt.Path,
				WorkDir:     workDir,
				ToolsDir:    toolsDir,
				ExtraArgs:   launcher.JoinArgs(args),
			})
			if err != nil {
				return err
			}

			ui.PrintSuccess(cmd.ErrOrStderr(), "started %s (pid %d)", started.Binary, started.PID)
			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}

// stageWithProgress stages the configured manifest, drawing a counter on a terminal
func stageWithProgress(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *zerolog.Logger, toolsDir string) (string, error) {
	bar := ui.NewCounter(cmd.ErrOrStderr(), "staging", stderrIsTerminal())

	report, err := staging.New(cfg, log).StageWithReport(ctx, toolsDir, staging.ManifestFromConfig(cfg.Staging), func(staging.Event) {
		_ = bar.Add(1)
	})
	if err != nil {
		_ = bar.Clear()
		return "", err
	}

	bar.Describe(fmt.Sprintf("staged (%d copied, %d up to date)", report.Copied, report.Skipped))
	_ = bar.Finish()

	for _, glob := range report.MissingOptional {
		log.Debug().Str("glob", glob).Msg("optional library not present")
	}
	return report.WorkDir, nil
}
