package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookshelf/catalog-api/internal/infrastructure/db/postgres"
	"github.com/bookshelf/catalog-api/internal/pkg/config"
)

var errNotPostgres = errors.New("migrations only apply to STORAGE_DRIVER=postgres")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(cmd)
				if err != nil {
					return err
				}
				if err := postgres.MigrateUp(dsn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(cmd)
				if err != nil {
					return err
				}
				if err := postgres.MigrateDown(dsn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(cmd)
				if err != nil {
					return err
				}
				v, dirty, err := postgres.MigrationVersion(dsn)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}

func postgresDSN(cmd *cobra.Command) (string, error) {
	cfg, _, err := bootstrap(cmd.Context())
	if err != nil {
		return "", err
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return "", errNotPostgres
	}
	return cfg.Postgres.DSN, nil
}
