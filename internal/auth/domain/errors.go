package domain

import (
	"fmt"
	"time"

	"github.com/allisson/filevault/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidCredentials indicates the username/password pair did not
	// authenticate. Deliberately identical for unknown usernames and wrong
	// passwords so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrAccountNotFound indicates an account with the specified ID was not found.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates an account with the same username already exists.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrInvalidMfaCode indicates the submitted TOTP code did not verify.
	ErrInvalidMfaCode = errors.Wrap(errors.ErrUnauthorized, "invalid mfa code")

	// ErrMfaNotPending indicates MFA confirmation was attempted without a
	// setup in progress.
	ErrMfaNotPending = errors.Wrap(errors.ErrConflict, "mfa setup is not pending")

	// ErrMfaAlreadyEnabled indicates MFA setup was started while MFA is
	// already active.
	ErrMfaAlreadyEnabled = errors.Wrap(errors.ErrConflict, "mfa is already enabled")

	// ErrMfaNotEnabled indicates an MFA operation requires MFA to be active.
	ErrMfaNotEnabled = errors.Wrap(errors.ErrConflict, "mfa is not enabled")

	// ErrInvalidSessionToken indicates the session token is missing, malformed,
	// expired, or carries an invalid signature.
	ErrInvalidSessionToken = errors.Wrap(errors.ErrUnauthorized, "invalid session token")

	// ErrInvalidMfaChallenge indicates the MFA challenge token is invalid or expired.
	ErrInvalidMfaChallenge = errors.Wrap(errors.ErrUnauthorized, "invalid mfa challenge")
)

// AccountLockedError indicates the account is locked out from authentication
// attempts until the embedded time. It unwraps to errors.ErrLocked so the
// boundary layer can map it without knowing the concrete type.
type AccountLockedError struct {
	Until time.Time
}

// Error implements the error interface.
func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// Unwrap returns the base locked sentinel.
func (e *AccountLockedError) Unwrap() error {
	return errors.ErrLocked
}

// NewAccountLockedError creates an AccountLockedError for the given unlock time.
func NewAccountLockedError(until time.Time) *AccountLockedError {
	return &AccountLockedError{Until: until}
}
