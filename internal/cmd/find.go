package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/locator"
	"github.com/quantmind-br/sdklaunch/internal/platform"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// shortPath converts a located path for --short
var shortPath = platform.ShortPath

// NewFindCmd creates the find command
func NewFindCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		short       bool
		showVersion bool
		test        bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print the path of the Java runtime that would be used",
		Long: `Locate a Java runtime and print its path.

Exit status is 0 when a runtime was found, 2 when none was found and 1 when
a runtime was found but the requested conversion failed.`,
		Args: invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			database := openCache(ctx, cfg, log)
			defer closeCache(database, log)
			loc := newLocator(cfg, log, database)

			if test {
				return runStrategyTable(ctx, cmd.OutOrStdout(), loc)
			}

			rt, err := loc.Locate(ctx)
			if err != nil {
				return err
			}

			out := rt.Path
			if short {
				sp, err := shortPath(rt.Path)
				if err != nil {
					return &core.SubOperationError{Op: "short path", Err: err}
				}
				out = sp
			}
			if showVersion {
				if rt.Version == "" {
					ui.PrintWarning(cmd.ErrOrStderr(), "%s did not report a version", out)
				} else {
					out = rt.Version
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print the short (8.3) form of the path")
	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print the runtime version instead of its path")
	cmd.Flags().BoolVarP(&test, "test", "t", false, "run every strategy and print a table of results")

	return cmd
}

// runStrategyTable runs each strategy on its own, regardless of earlier hits
func runStrategyTable(ctx context.Context, w io.Writer, loc *locator.Locator) error {
	var (
		rows  [][]string
		found int
	)

	for _, s := range loc.Strategies() {
		rt, err := s.Find(ctx)
		status, path, version := "not found", "-", "-"
		switch {
		case err == nil:
			found++
			status, path = "found", rt.Path
			if rt.Version != "" {
				version = rt.Version
			}
		case !errors.Is(err, core.ErrRuntimeNotFound):
			status = err.Error()
		}
		rows = append(rows, []string{
			ui.ColorizeStrategy(string(s.Name())),
			ui.SprintStatus(err == nil, status),
			path,
			version,
		})
	}

	if err := ui.RenderTable(w, []string{"Strategy", "Status", "Path", "Version"}, rows); err != nil {
		return err
	}

	if found == 0 {
		return core.ErrRuntimeNotFound
	}
	return nil
}
