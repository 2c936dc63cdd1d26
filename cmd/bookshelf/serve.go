package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookshelf/catalog-api/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("startup failed")
				return err
			}
			defer a.close(context.Background(), log)

			if cfg.Admin.Password != "" {
				created, err := a.auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
				if err != nil {
					return err
				}
				if created {
					log.Info().Str("username", cfg.Admin.Username).Msg("administrator account created")
				}
			}

			e := api.NewRouter(api.Dependencies{
				Auth:         a.auth,
				Users:        a.users,
				Favorites:    a.favorites,
				Resolver:     a.resolver,
				TokenDecoder: a.codec,
				Checks:       a.checks,
				Logger:       log,
				Metrics:      !noMetrics,
			})

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					log.Error().Err(err).Msg("server failed")
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown failed")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the Prometheus middleware and /metrics endpoint")
	return cmd
}
