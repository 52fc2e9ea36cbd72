// Package usecase implements business logic orchestration for account
// management, login with lockout, and the MFA lifecycle.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/domain"
	authService "github.com/allisson/filevault/internal/auth/service"
)

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	// Create persists a new account.
	// Returns domain.ErrAccountAlreadyExists on a duplicate username.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its ID.
	// Returns domain.ErrAccountNotFound if no account exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account by username.
	// Returns domain.ErrAccountNotFound if no account exists.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// UpdateLockoutState persists the failed-attempt counter and lockout expiry.
	UpdateLockoutState(ctx context.Context, id uuid.UUID, failedAttempts int, lockedUntil *time.Time) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// UpdateMfa persists the MFA lifecycle state and secret together.
	UpdateMfa(ctx context.Context, id uuid.UUID, status domain.MfaStatus, secret string) error
}

// RegisterAccountInput contains the input data for account registration.
type RegisterAccountInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AccountUseCase defines account management operations.
type AccountUseCase interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, input RegisterAccountInput) (*domain.Account, error)

	// Get retrieves an account by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// LoginInput contains the credentials submitted to Login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginOutput is the result of a login step.
//
// When MfaRequired is true the password was accepted but the login is not
// complete: ChallengeToken must be exchanged together with a TOTP code via
// CompleteMfaLogin, and SessionToken is empty.
type LoginOutput struct {
	SessionToken   string
	ExpiresAt      time.Time
	MfaRequired    bool
	ChallengeToken string
}

// SessionUseCase defines the authentication operations.
type SessionUseCase interface {
	// Login authenticates a username/password pair. For MFA-enabled accounts
	// it returns a challenge instead of a session token.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// CompleteMfaLogin finishes an MFA-gated login by verifying the TOTP code
	// attached to a challenge token.
	CompleteMfaLogin(ctx context.Context, challengeToken, code string) (*LoginOutput, error)

	// Authenticate verifies a session token and returns its claims.
	Authenticate(ctx context.Context, sessionToken string) (*authService.SessionClaims, error)
}

// MfaUseCase defines the MFA setup lifecycle operations.
type MfaUseCase interface {
	// BeginSetup provisions a TOTP secret for the account and moves it to
	// PendingVerification. Fails if MFA is already enabled.
	BeginSetup(ctx context.Context, accountID uuid.UUID) (*authService.MfaEnrollment, error)

	// ConfirmSetup verifies the first TOTP code and flips the account from
	// PendingVerification to Enabled.
	ConfirmSetup(ctx context.Context, accountID uuid.UUID, code string) error

	// Disable turns MFA off after verifying a current TOTP code, clearing the
	// stored secret.
	Disable(ctx context.Context, accountID uuid.UUID, code string) error
}
