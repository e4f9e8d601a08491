package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/dmitrijs2005/issuetracker/internal/server/services"
	"github.com/spf13/cobra"
)

type cli struct {
	open     Opener
	password PasswordReader
	dsn      string
}

// NewRootCommand builds the issuectl command tree.
func NewRootCommand(open Opener, password PasswordReader) *cobra.Command {
	c := &cli{open: open, password: password}

	rootCmd := &cobra.Command{
		Use:   "issuectl",
		Short: "Administration tool for the issue tracker",
		Long: `A CLI tool to administer the issue tracker database.

This tool allows you to:
  - Apply schema migrations
  - Create credentials with a chosen permission vector
  - Change the permissions of an existing credential
  - Revoke tokens`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&c.dsn, "dsn", "d", "", "Postgres connection string (required)")
	rootCmd.MarkPersistentFlagRequired("dsn")

	rootCmd.AddCommand(c.migrateCmd())
	rootCmd.AddCommand(c.createUserCmd())
	rootCmd.AddCommand(c.grantCmd())
	rootCmd.AddCommand(c.revokeCmd())

	return rootCmd
}

func (c *cli) withEnv(cmd *cobra.Command, fn func(env *Env) error) (err error) {
	env, err := c.open(cmd.Context(), c.dsn)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()
	return fn(env)
}

// parseVector accepts the bit string form, e.g. 1010.
func parseVector(s string) (permissions.Vector, error) {
	v, err := permissions.ParseVector(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --permissions %q: %w", s, err)
	}
	return v, nil
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEnv(cmd, func(*Env) error {
				cmd.Println("Migrations applied")
				return nil
			})
		},
	}
}

func (c *cli) createUserCmd() *cobra.Command {
	var email, perms string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a credential",
		Long: `Register a credential. The password is read from the terminal without echo.

Without --permissions the credential gets the default vector 1010
(create, view).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := permissions.Default
			if perms != "" {
				var err error
				if v, err = parseVector(perms); err != nil {
					return err
				}
			}

			pw, err := c.password(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return c.withEnv(cmd, func(env *Env) error {
				cred, err := env.Services.Credentials.RegisterWithPermissions(cmd.Context(), email, pw, v)
				if err != nil {
					return err
				}
				cmd.Printf("Created %s (%s) with permissions %s\n", cred.Email, cred.ID, cred.Permissions)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&perms, "permissions", "p", "", "Permission vector as four bits: create, edit, view, delete")
	cmd.MarkFlagRequired("email")

	return cmd
}

func (c *cli) grantCmd() *cobra.Command {
	var email, perms string

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Replace the permission vector of a credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVector(perms)
			if err != nil {
				return err
			}

			return c.withEnv(cmd, func(env *Env) error {
				cred, err := env.Services.Credentials.FindByEmail(cmd.Context(), email)
				if err != nil {
					return err
				}
				if cred, err = env.Services.Credentials.StorePermissions(cmd.Context(), cred.ID, v); err != nil {
					return err
				}
				cmd.Printf("%s now has permissions %s\n", cred.Email, cred.Permissions)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&perms, "permissions", "p", "", "Permission vector as four bits (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("permissions")

	return cmd
}

func (c *cli) revokeCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTokenID(token)
			if err != nil {
				return err
			}

			return c.withEnv(cmd, func(env *Env) error {
				tok, err := env.Services.Tokens.Revoke(cmd.Context(), id)
				if err != nil {
					return err
				}
				cmd.Printf("Token %s revoked at %s\n", tok.ID, tok.RevokedAt.Format(time.RFC3339))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Token identifier (required)")
	cmd.MarkFlagRequired("token")

	return cmd
}
