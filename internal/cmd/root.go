package cmd

import (
	"fmt"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/logging"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	var (
		debug      bool
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "sdklaunch",
		Short: "Locate a Java runtime and launch the SDK manager",
		Long: `sdklaunch finds a usable Java runtime, stages the SDK manager libraries
into a private temp directory and starts the manager from there, so the
originals can be updated while it runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          invocationArgs(unknownCommand),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configFile != "" {
				loaded, err := config.LoadFile(configFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				*cfg = *loaded
				*log = log.Level(logging.ParseLevel(cfg.Logging.Level))
			}
			if debug || logging.DebugRequested(cfg.Paths.DebugEnv) {
				*log = log.Level(zerolog.DebugLevel)
			}
			ui.InitColors(cfg.Logging.Color)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocation(err)
	})

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "use this config file instead of the default search")

	// Add subcommands
	cmd.AddCommand(NewFindCmd(cfg, log))
	cmd.AddCommand(NewLaunchCmd(cfg, log))
	cmd.AddCommand(NewStageCmd(cfg, log))
	cmd.AddCommand(NewRuntimesCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
