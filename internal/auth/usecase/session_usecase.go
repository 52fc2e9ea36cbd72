package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/domain"
	authService "github.com/allisson/filevault/internal/auth/service"
	"github.com/allisson/filevault/internal/config"
)

// sessionUseCase implements SessionUseCase with the failed-attempt lockout
// state machine.
//
// Lockout semantics:
//   - every attempt on a locked account fails immediately with
//     AccountLockedError, without touching the password
//   - each wrong password or wrong TOTP code increments the failed-attempt
//     counter; reaching the threshold locks the account for the configured
//     duration and resets the counter
//   - a fully successful authentication resets the counter and clears any
//     expired lockout
//
// Read-modify-write of the attempt state is serialized per account with an
// in-process mutex so concurrent failures cannot lose increments.
type sessionUseCase struct {
	config          *config.Config
	accountRepo     AccountRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	mfaService      authService.MfaService
	accountLocks    sync.Map // uuid.UUID -> *sync.Mutex
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(
	config *config.Config,
	accountRepo AccountRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	mfaService authService.MfaService,
) SessionUseCase {
	return &sessionUseCase{
		config:          config,
		accountRepo:     accountRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		mfaService:      mfaService,
	}
}

// lockAccount acquires the per-account mutex. The returned function releases it.
func (s *sessionUseCase) lockAccount(id uuid.UUID) func() {
	mu, _ := s.accountLocks.LoadOrStore(id, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

// registerFailure increments the failed-attempt counter and triggers a lockout
// when the configured threshold is reached. Caller must hold the account mutex.
func (s *sessionUseCase) registerFailure(ctx context.Context, account *domain.Account) error {
	failedAttempts := account.FailedAttempts + 1
	var lockedUntil *time.Time

	if failedAttempts >= s.config.LockoutMaxAttempts {
		until := time.Now().UTC().Add(s.config.LockoutDuration)
		lockedUntil = &until
		failedAttempts = 0
	}

	return s.accountRepo.UpdateLockoutState(ctx, account.ID, failedAttempts, lockedUntil)
}

// registerSuccess resets the lockout state and records the login time.
// Caller must hold the account mutex.
func (s *sessionUseCase) registerSuccess(ctx context.Context, account *domain.Account) error {
	if account.FailedAttempts > 0 || account.LockedUntil != nil {
		if err := s.accountRepo.UpdateLockoutState(ctx, account.ID, 0, nil); err != nil {
			return err
		}
	}
	return s.accountRepo.UpdateLastLogin(ctx, account.ID, time.Now().UTC())
}

// Login authenticates a username/password pair.
//
// Unknown usernames and wrong passwords both return ErrInvalidCredentials so
// responses cannot be used to enumerate accounts. For accounts with MFA
// enabled a successful password check returns a short-lived challenge token
// instead of a session; the login finishes in CompleteMfaLogin.
func (s *sessionUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	account, err := s.accountRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	unlock := s.lockAccount(account.ID)
	defer unlock()

	if account.IsLocked(time.Now().UTC()) {
		return nil, domain.NewAccountLockedError(*account.LockedUntil)
	}

	if !s.passwordService.ComparePassword(input.Password, account.PasswordHash) {
		if err := s.registerFailure(ctx, account); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	if account.MfaGatesLogin() {
		challengeToken, err := s.tokenService.IssueChallengeToken(account)
		if err != nil {
			return nil, err
		}
		return &LoginOutput{
			MfaRequired:    true,
			ChallengeToken: challengeToken,
		}, nil
	}

	if err := s.registerSuccess(ctx, account); err != nil {
		return nil, err
	}

	sessionToken, expiresAt, err := s.tokenService.IssueSessionToken(account)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SessionToken: sessionToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// CompleteMfaLogin finishes an MFA-gated login.
//
// The account state is re-read and the lockout re-checked: a lockout that
// started between the password step and the code entry still blocks
// completion. A wrong code counts as a failed attempt exactly like a wrong
// password.
func (s *sessionUseCase) CompleteMfaLogin(ctx context.Context, challengeToken, code string) (*LoginOutput, error) {
	claims, err := s.tokenService.ParseChallengeToken(challengeToken)
	if err != nil {
		return nil, err
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, domain.ErrInvalidMfaChallenge
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidMfaChallenge
		}
		return nil, err
	}

	unlock := s.lockAccount(account.ID)
	defer unlock()

	if account.IsLocked(time.Now().UTC()) {
		return nil, domain.NewAccountLockedError(*account.LockedUntil)
	}

	// MFA may have been disabled while the challenge was outstanding
	if !account.MfaGatesLogin() {
		return nil, domain.ErrInvalidMfaChallenge
	}

	if !s.mfaService.VerifyCode(account.MfaSecret, code) {
		if err := s.registerFailure(ctx, account); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidMfaCode
	}

	if err := s.registerSuccess(ctx, account); err != nil {
		return nil, err
	}

	sessionToken, expiresAt, err := s.tokenService.IssueSessionToken(account)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SessionToken: sessionToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// Authenticate verifies a session token and returns its claims.
func (s *sessionUseCase) Authenticate(ctx context.Context, sessionToken string) (*authService.SessionClaims, error) {
	return s.tokenService.ParseSessionToken(sessionToken)
}
