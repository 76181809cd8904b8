package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hrms/internal/domain/auth"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/email"
)

const passwordEnv = "HRMCTL_PASSWORD"

type createUserOptions struct {
	email       string
	role        string
	mustChange  bool
	password    string
	passwordEnv string
}

func newCreateUserCmd(rt *runtime) *cobra.Command {
	opts := createUserOptions{passwordEnv: passwordEnv}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if !auth.ValidRole(opts.role) {
				return withCode(exitUsage, fmt.Errorf("invalid --role %q, want one of %s", opts.role, strings.Join(auth.Roles, ", ")))
			}
			if opts.password == "" {
				opts.password = os.Getenv(opts.passwordEnv)
			}
			if opts.password == "" {
				return withCode(exitUsage, fmt.Errorf("password is required, set %s", opts.passwordEnv))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := rt.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			crypto, err := cryptoutil.New(rt.cfg.DataEncryptionKey)
			if err != nil {
				return err
			}
			svc := auth.NewService(auth.NewStore(pool), crypto, email.New(rt.cfg, rt.logger), auth.Options{Secret: rt.cfg.JWTSecret}, rt.logger)
			user, err := svc.CreateUser(ctx, auth.User{Email: opts.email, Role: opts.role, MustChangePassword: opts.mustChange}, opts.password)
			if errors.Is(err, auth.ErrUserExists) {
				return withCode(exitUsage, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&opts.role, "role", auth.RoleHR, "Role: admin, hr or employee")
	cmd.Flags().BoolVar(&opts.mustChange, "must-change-password", true, "Force a password change at first login")
	cmd.Flags().StringVar(&opts.password, "password", "", "Initial password (prefer the "+passwordEnv+" variable)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
