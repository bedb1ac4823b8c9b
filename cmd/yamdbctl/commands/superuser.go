// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

var (
	// Createsuperuser flags
	superuserName  string
	superuserEmail string
)

// createSuperuserCmd creates or promotes an admin account
var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create or promote an admin account",
	Long: `Create a superuser, or promote the existing account with the same
username and email, and print a confirmation code for POST /api/v1/auth/token.

Examples:
  yamdbctl createsuperuser --username root --email root@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		user, code, err := createSuperuser(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Superuser %q (id %d) is ready.\n", user.Username, user.ID)
		fmt.Fprintf(out, "Confirmation code: %s\n", code)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "Username of the superuser")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email of the superuser")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}

func createSuperuser(ctx context.Context) (*auth.User, string, error) {
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, "", err
	}
	defer pool.Close()

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return nil, "", err
	}

	// Codes are printed, never mailed, so no cooldown store is needed.
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewCodeRepository(pool),
		nil,
		mail.NewLogSender(logger),
		tokens,
		auth.Settings{AccessTokenTTL: cfg.AccessTokenTTL, SingleUse: cfg.ConfirmationSingleUse},
		logger,
	)

	accounts := account.NewService(account.NewPostgresRepository(pool), authService, logger)
	return accounts.CreateSuperuser(ctx, superuserName, superuserEmail)
}
