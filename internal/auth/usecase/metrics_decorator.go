package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authService "github.com/allisson/filevault/internal/auth/service"
	"github.com/allisson/filevault/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	start := time.Now()
	output, err := s.next.Login(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "login", status)
	s.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return output, err
}

// CompleteMfaLogin records metrics for MFA login completion operations.
func (s *sessionUseCaseWithMetrics) CompleteMfaLogin(
	ctx context.Context,
	challengeToken, code string,
) (*LoginOutput, error) {
	start := time.Now()
	output, err := s.next.CompleteMfaLogin(ctx, challengeToken, code)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "mfa_login", status)
	s.metrics.RecordDuration(ctx, "auth", "mfa_login", time.Since(start), status)

	return output, err
}

// Authenticate records metrics for session authentication operations.
func (s *sessionUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	sessionToken string,
) (*authService.SessionClaims, error) {
	start := time.Now()
	claims, err := s.next.Authenticate(ctx, sessionToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	s.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return claims, err
}

// mfaUseCaseWithMetrics decorates MfaUseCase with metrics instrumentation.
type mfaUseCaseWithMetrics struct {
	next    MfaUseCase
	metrics metrics.BusinessMetrics
}

// NewMfaUseCaseWithMetrics wraps an MfaUseCase with metrics recording.
func NewMfaUseCaseWithMetrics(useCase MfaUseCase, m metrics.BusinessMetrics) MfaUseCase {
	return &mfaUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// BeginSetup records metrics for MFA setup start operations.
func (m *mfaUseCaseWithMetrics) BeginSetup(
	ctx context.Context,
	accountID uuid.UUID,
) (*authService.MfaEnrollment, error) {
	start := time.Now()
	enrollment, err := m.next.BeginSetup(ctx, accountID)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "auth", "mfa_begin_setup", status)
	m.metrics.RecordDuration(ctx, "auth", "mfa_begin_setup", time.Since(start), status)

	return enrollment, err
}

// ConfirmSetup records metrics for MFA setup confirmation operations.
func (m *mfaUseCaseWithMetrics) ConfirmSetup(ctx context.Context, accountID uuid.UUID, code string) error {
	start := time.Now()
	err := m.next.ConfirmSetup(ctx, accountID, code)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "auth", "mfa_confirm_setup", status)
	m.metrics.RecordDuration(ctx, "auth", "mfa_confirm_setup", time.Since(start), status)

	return err
}

// Disable records metrics for MFA disable operations.
func (m *mfaUseCaseWithMetrics) Disable(ctx context.Context, accountID uuid.UUID, code string) error {
	start := time.Now()
	err := m.next.Disable(ctx, accountID, code)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "auth", "mfa_disable", status)
	m.metrics.RecordDuration(ctx, "auth", "mfa_disable", time.Since(start), status)

	return err
}
