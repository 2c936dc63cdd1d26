package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookshelf/catalog-api/internal/pkg/config"
	"github.com/bookshelf/catalog-api/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Bookshelf catalog API server and maintenance tasks.",
		Long: `bookshelf serves the catalog REST API: registration and login with bearer
tokens, profile management, favorite books and profile images.

Configuration is read from the environment and an optional .env file.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedAdminCmd(),
	)
	return root
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bookshelf",
		Version: version,
	})
	return cfg, log, nil
}
