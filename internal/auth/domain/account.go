// Package domain defines the account and authentication domain models:
// accounts with Argon2id password hashes, TOTP MFA lifecycle state, and
// failed-login lockout tracking.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role defines the access level of an account.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "user"

	// RoleAdmin allows administrative operations.
	RoleAdmin Role = "admin"
)

// MfaStatus is the MFA lifecycle state of an account.
//
// The lifecycle is NotConfigured -> PendingVerification -> Enabled and back to
// NotConfigured on disable. Only Enabled gates login: an account stuck in
// PendingVerification (secret provisioned but never confirmed) authenticates
// with password alone, exactly like NotConfigured.
type MfaStatus string

const (
	// MfaNotConfigured means the account has no MFA secret.
	MfaNotConfigured MfaStatus = "not_configured"

	// MfaPendingVerification means a secret has been provisioned but the user
	// has not yet proven possession of it with a valid code.
	MfaPendingVerification MfaStatus = "pending_verification"

	// MfaEnabled means MFA is active and login requires a TOTP code.
	MfaEnabled MfaStatus = "enabled"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s MfaStatus) IsValid() bool {
	switch s {
	case MfaNotConfigured, MfaPendingVerification, MfaEnabled:
		return true
	}
	return false
}

// Account represents a user account in the system.
type Account struct {
	ID             uuid.UUID
	Username       string
	PasswordHash   string
	Role           Role
	MfaStatus      MfaStatus
	MfaSecret      string // base32 TOTP secret, empty when MfaNotConfigured
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLocked reports whether the account is locked out at the given instant.
// An expired lockout counts as unlocked; clearing the stale state is the
// caller's responsibility.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// MfaGatesLogin reports whether login must be completed with a TOTP code.
func (a *Account) MfaGatesLogin() bool {
	return a.MfaStatus == MfaEnabled
}
