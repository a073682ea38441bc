package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/quantmind-br/sdklaunch/internal/db"
	"github.com/quantmind-br/sdklaunch/internal/fsops"
	"github.com/quantmind-br/sdklaunch/internal/locator"
	"github.com/quantmind-br/sdklaunch/internal/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// openCache opens the runtime cache. A cache that is disabled or cannot be
// opened yields nil; locating works without it.
func openCache(ctx context.Context, cfg *config.Config, log *zerolog.Logger) *db.DB {
	cacheFile := paths.NewResolver(cfg).CacheFile()
	if !cfg.Runtime.Cache || cacheFile == "" {
		return nil
	}

	if err := fsops.EnsureDir(afero.NewOsFs(), filepath.Dir(cacheFile), 0755); err != nil {
		log.Warn().Err(err).Msg("runtime cache unavailable")
		return nil
	}

	database, err := db.New(ctx, cacheFile)
	if err != nil {
		log.Warn().Err(err).Str("path", cacheFile).Msg("runtime cache unavailable")
		return nil
	}
	return database
}

// newLocator builds a locator; database may be nil
func newLocator(cfg *config.Config, log *zerolog.Logger, database *db.DB) *locator.Locator {
	var cache locator.Cache
	if database != nil {
		cache = database
	}
	return locator.New(cfg, log, cache)
}

func closeCache(database *db.DB, log *zerolog.Logger) {
	if database == nil {
		return
	}
	if err := database.Close(); err != nil {
		log.Debug().Err(err).Msg("close runtime cache")
	}
}

// stderrIsTerminal decides whether progress output is worth drawing
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// invalidInvocation tags a usage error so it exits like a failed search
func invalidInvocation(err error) error {
	return fmt.Errorf("%v: %w", err, core.ErrInvalidInvocation)
}

// invocationArgs wraps a positional-argument validator with invalidInvocation
func invocationArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return invalidInvocation(err)
		}
		return nil
	}
}

// unknownCommand rejects positional arguments that name no subcommand
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}
