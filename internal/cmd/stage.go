package cmd

import (
	"context"
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewStageCmd creates the stage command
func NewStageCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Mirror the SDK manager libraries into the private temp directory",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			toolsDir := from
			if toolsDir == "" {
				var err error
				toolsDir, err = paths.NewResolver(cfg).ToolsDir()
				if err != nil {
					return err
				}
			}

			workDir, err := stageWithProgress(ctx, cmd, cfg, log, toolsDir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), workDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "tools directory to stage from (default: the override variable or the executable's directory)")

	return cmd
}
