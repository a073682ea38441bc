package cmd

import (
	"context"
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRuntimesCmd creates the runtimes command
func NewRuntimesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "runtimes",
		Short: "List runtimes remembered by previous runs",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			database := openCache(ctx, cfg, log)
			if database == nil {
				return fmt.Errorf("runtime cache is disabled or unavailable (%s)", cfg.Paths.CacheFile)
			}
			defer closeCache(database, log)

			if purge {
				n, err := database.Clear(ctx)
				if err != nil {
					return err
				}
				ui.PrintSuccess(cmd.OutOrStdout(), "removed %d cached runtime(s)", n)
				return nil
			}

			runtimes, err := database.List(ctx)
			if err != nil {
				return err
			}
			if len(runtimes) == 0 {
				ui.PrintInfo(cmd.OutOrStdout(), "no cached runtimes")
				return nil
			}

			rows := make([][]string, 0, len(runtimes))
			for _, rt := range runtimes {
				version := rt.Version
				if version == "" {
					version = "-"
				}
				rows = append(rows, []string{
					rt.Path,
					version,
					ui.ColorizeStrategy(string(rt.Strategy)),
					fmt.Sprintf("%t", rt.Verified),
					rt.LocatedAt.Local().Format("2006-01-02 15:04"),
				})
			}

			return ui.RenderTable(cmd.OutOrStdout(), []string{"Path", "Version", "Strategy", "Verified", "Located"}, rows)
		},
	}

	cmd.Flags().BoolVar(&purge, "clear", false, "forget every cached runtime")

	return cmd
}
