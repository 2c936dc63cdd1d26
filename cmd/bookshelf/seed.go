package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:     "seed-admin",
		Short:   "Create the administrator account if it does not exist.",
		Example: "bookshelf seed-admin --username sudo --password 's3cret!'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("username") {
				username = cfg.Admin.Username
			}
			if password == "" {
				password = cfg.Admin.Password
			}
			if password == "" {
				return errors.New("a password is required: pass --password or set ADMIN_PASSWORD")
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close(ctx, log)

			created, err := a.auth.EnsureAdmin(ctx, username, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "administrator %q created\n", username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists, nothing to do\n", username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "sudo", "administrator username")
	cmd.Flags().StringVar(&password, "password", "", "administrator password (defaults to ADMIN_PASSWORD)")
	return cmd
}
