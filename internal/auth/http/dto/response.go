package dto

import (
	"encoding/base64"
	"time"

	authDomain "github.com/allisson/filevault/internal/auth/domain"
	authService "github.com/allisson/filevault/internal/auth/service"
)

// AccountResponse represents an account in API responses (excludes password hash
// and MFA secret).
type AccountResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	MfaStatus string     `json:"mfa_status"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login_at,omitempty"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *authDomain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Username:  account.Username,
		Role:      string(account.Role),
		MfaStatus: string(account.MfaStatus),
		CreatedAt: account.CreatedAt,
		LastLogin: account.LastLoginAt,
	}
}

// LoginResponse contains the result of a completed login.
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MfaChallengeResponse is returned when the password was accepted but the
// account requires a TOTP code to finish logging in.
type MfaChallengeResponse struct {
	MfaRequired    bool   `json:"mfa_required"`
	ChallengeToken string `json:"challenge_token"`
}

// MfaEnrollmentResponse contains the material for configuring an authenticator app.
// SECURITY: The secret is only returned once during setup.
type MfaEnrollmentResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCodePNG       string `json:"qr_code_png"` // base64-encoded PNG image
}

// MapEnrollmentToResponse converts an MFA enrollment to an API response.
func MapEnrollmentToResponse(enrollment *authService.MfaEnrollment) MfaEnrollmentResponse {
	return MfaEnrollmentResponse{
		Secret:          enrollment.Secret,
		ProvisioningURI: enrollment.ProvisioningURI,
		QRCodePNG:       base64.StdEncoding.EncodeToString(enrollment.QRCodePNG),
	}
}

// SessionResponse represents the authenticated session in API responses.
type SessionResponse struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapClaimsToResponse converts session claims to an API response.
func MapClaimsToResponse(claims *authService.SessionClaims) SessionResponse {
	return SessionResponse{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      string(claims.Role),
		ExpiresAt: claims.ExpiresAt,
	}
}
