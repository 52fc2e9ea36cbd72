// Package service provides authentication services: Argon2id password
// hashing, signed session tokens, and TOTP multi-factor verification.
package service

import (
	"time"

	"github.com/allisson/filevault/internal/auth/domain"
)

// PasswordService defines password hashing operations.
type PasswordService interface {
	// HashPassword hashes a plain text password using Argon2id.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword verifies a plain password against its hash.
	// Returns false on any error, never leaking why verification failed.
	ComparePassword(plainPassword, hashedPassword string) bool
}

// SessionClaims are the verified claims extracted from a session token.
type SessionClaims struct {
	AccountID string
	Username  string
	Role      domain.Role
	ExpiresAt time.Time
}

// ChallengeClaims are the verified claims extracted from an MFA challenge
// token. The challenge carries only enough to resume the login; it grants no
// access on its own.
type ChallengeClaims struct {
	AccountID string
	Username  string
}

// TokenService issues and verifies the two token kinds used during
// authentication: full session tokens and short-lived MFA challenge markers.
type TokenService interface {
	// IssueSessionToken creates a signed session token for the account.
	// Returns the token string and its expiry time.
	IssueSessionToken(account *domain.Account) (string, time.Time, error)

	// ParseSessionToken verifies a session token and extracts its claims.
	// Returns domain.ErrInvalidSessionToken on any verification failure.
	ParseSessionToken(tokenString string) (*SessionClaims, error)

	// IssueChallengeToken creates a short-lived MFA challenge token after a
	// successful password check on an MFA-enabled account.
	IssueChallengeToken(account *domain.Account) (string, error)

	// ParseChallengeToken verifies an MFA challenge token.
	// Returns domain.ErrInvalidMfaChallenge on any verification failure.
	ParseChallengeToken(tokenString string) (*ChallengeClaims, error)
}

// MfaEnrollment holds the material handed to a user starting MFA setup.
type MfaEnrollment struct {
	Secret          string // base32-encoded TOTP secret
	ProvisioningURI string // otpauth:// URI for authenticator apps
	QRCodePNG       []byte // PNG rendering of the provisioning URI
}

// MfaService defines TOTP secret provisioning and code verification.
type MfaService interface {
	// GenerateEnrollment provisions a new TOTP secret for the given username.
	GenerateEnrollment(username string) (*MfaEnrollment, error)

	// VerifyCode checks a TOTP code against a secret with one time-step of
	// clock skew tolerance. Malformed codes return false, never an error.
	VerifyCode(secret, code string) bool
}
