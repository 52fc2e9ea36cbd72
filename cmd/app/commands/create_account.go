package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/filevault/internal/auth/usecase"
)

// RunCreateAccount creates a new account directly against the database.
// Used to bootstrap the first admin account, since the registration endpoint
// itself requires an authenticated admin session.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAccount(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	password string,
	role string,
	format string,
) error {
	logger.Info("creating new account",
		slog.String("username", username),
		slog.String("role", role),
	)

	account, err := accountUseCase.Register(ctx, authUseCase.RegisterAccountInput{
		Username: username,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if format == "json" {
		payload := map[string]string{
			"id":         account.ID.String(),
			"username":   account.Username,
			"role":       string(account.Role),
			"mfa_status": string(account.MfaStatus),
		}
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Account created successfully")
		_, _ = fmt.Fprintf(writer, "  ID:       %s\n", account.ID)
		_, _ = fmt.Fprintf(writer, "  Username: %s\n", account.Username)
		_, _ = fmt.Fprintf(writer, "  Role:     %s\n", account.Role)
	}

	logger.Info("account created successfully",
		slog.String("account_id", account.ID.String()),
		slog.String("username", account.Username),
	)

	return nil
}
