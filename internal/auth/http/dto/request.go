// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/filevault/internal/validation"
)

// RegisterAccountRequest contains the parameters for creating a new account.
type RegisterAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks if the register account request is valid.
// Password strength rules are enforced by the use case.
func (r *RegisterAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
		validation.Field(&r.Role,
			validation.In("user", "admin", ""),
		),
	)
}

// LoginRequest contains the credentials for the first login step.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}

// MfaLoginRequest contains the challenge token and TOTP code for the second
// login step of MFA-enabled accounts.
type MfaLoginRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

// Validate checks if the MFA login request is valid.
func (r *MfaLoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ChallengeToken,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Code,
			validation.Required,
			customValidation.TOTPCode,
		),
	)
}

// MfaCodeRequest carries a single TOTP code, used to confirm MFA setup and to
// disable MFA.
type MfaCodeRequest struct {
	Code string `json:"code"`
}

// Validate checks if the MFA code request is valid.
func (r *MfaCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Code,
			validation.Required,
			customValidation.TOTPCode,
		),
	)
}
