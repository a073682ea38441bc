package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/sdklaunch/internal/cmd"
	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/logging"
	"github.com/quantmind-br/sdklaunch/internal/ui"
)

var version = "dev"

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(core.ExitFailure)
	}

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
		Debug:   logging.DebugRequested(cfg.Paths.DebugEnv),
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("command failed")
		ui.PrintError(os.Stderr, "%v", err)
		os.Exit(core.ExitCode(err))
	}
}
