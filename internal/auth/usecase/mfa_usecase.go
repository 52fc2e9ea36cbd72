package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/domain"
	authService "github.com/allisson/filevault/internal/auth/service"
)

// mfaUseCase implements the MFA setup lifecycle:
// NotConfigured -> PendingVerification -> Enabled -> NotConfigured.
type mfaUseCase struct {
	accountRepo AccountRepository
	mfaService  authService.MfaService
}

// NewMfaUseCase creates a new MfaUseCase.
func NewMfaUseCase(accountRepo AccountRepository, mfaService authService.MfaService) MfaUseCase {
	return &mfaUseCase{
		accountRepo: accountRepo,
		mfaService:  mfaService,
	}
}

// BeginSetup provisions a fresh TOTP secret and moves the account to
// PendingVerification. Restarting a pending setup replaces the secret;
// starting while already enabled is a conflict.
func (m *mfaUseCase) BeginSetup(ctx context.Context, accountID uuid.UUID) (*authService.MfaEnrollment, error) {
	account, err := m.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.MfaStatus == domain.MfaEnabled {
		return nil, domain.ErrMfaAlreadyEnabled
	}

	enrollment, err := m.mfaService.GenerateEnrollment(account.Username)
	if err != nil {
		return nil, err
	}

	err = m.accountRepo.UpdateMfa(ctx, account.ID, domain.MfaPendingVerification, enrollment.Secret)
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

// ConfirmSetup verifies the first TOTP code against the pending secret and
// enables MFA. Until this succeeds the account still logs in with password
// alone.
func (m *mfaUseCase) ConfirmSetup(ctx context.Context, accountID uuid.UUID, code string) error {
	account, err := m.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.MfaStatus != domain.MfaPendingVerification {
		return domain.ErrMfaNotPending
	}

	if !m.mfaService.VerifyCode(account.MfaSecret, code) {
		return domain.ErrInvalidMfaCode
	}

	return m.accountRepo.UpdateMfa(ctx, account.ID, domain.MfaEnabled, account.MfaSecret)
}

// Disable turns MFA off. A current TOTP code is required and the stored
// secret is cleared.
func (m *mfaUseCase) Disable(ctx context.Context, accountID uuid.UUID, code string) error {
	account, err := m.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.MfaStatus != domain.MfaEnabled {
		return domain.ErrMfaNotEnabled
	}

	if !m.mfaService.VerifyCode(account.MfaSecret, code) {
		return domain.ErrInvalidMfaCode
	}

	return m.accountRepo.UpdateMfa(ctx, account.ID, domain.MfaNotConfigured, "")
}
