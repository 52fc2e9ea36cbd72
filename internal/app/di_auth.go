package app

import (
	"fmt"

	authHTTP "github.com/allisson/filevault/internal/auth/http"
	authRepository "github.com/allisson/filevault/internal/auth/repository"
	authService "github.com/allisson/filevault/internal/auth/service"
	authUseCase "github.com/allisson/filevault/internal/auth/usecase"
)

// PasswordService returns the Argon2id password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenService returns the JWT session token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService(
			c.config.AuthTokenSigningKey,
			c.config.AuthTokenIssuer,
			c.config.AuthTokenExpiration,
		)
	})
	return c.tokenService
}

// MfaService returns the TOTP service.
func (c *Container) MfaService() authService.MfaService {
	c.mfaServiceInit.Do(func() {
		c.mfaService = authService.NewMfaService(c.config.MFAIssuer)
	})
	return c.mfaService
}

// AccountRepository returns the account repository based on database driver.
func (c *Container) AccountRepository() (authUseCase.AccountRepository, error) {
	var err error
	c.accountRepositoryInit.Do(func() {
		c.accountRepository, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepository"]; exists {
		return nil, storedErr
	}
	return c.accountRepository, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (authUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// SessionUseCase returns the session use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// MfaUseCase returns the MFA enrollment use case.
func (c *Container) MfaUseCase() (authUseCase.MfaUseCase, error) {
	var err error
	c.mfaUseCaseInit.Do(func() {
		c.mfaUseCase, err = c.initMfaUseCase()
		if err != nil {
			c.initErrors["mfaUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mfaUseCase"]; exists {
		return nil, storedErr
	}
	return c.mfaUseCase, nil
}

// AccountHandler returns the HTTP handler for account operations.
func (c *Container) AccountHandler() (*authHTTP.AccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		c.accountHandler, err = c.initAccountHandler()
		if err != nil {
			c.initErrors["accountHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// SessionHandler returns the HTTP handler for login and session operations.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		c.sessionHandler, err = c.initSessionHandler()
		if err != nil {
			c.initErrors["sessionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// MfaHandler returns the HTTP handler for MFA enrollment operations.
func (c *Container) MfaHandler() (*authHTTP.MfaHandler, error) {
	var err error
	c.mfaHandlerInit.Do(func() {
		c.mfaHandler, err = c.initMfaHandler()
		if err != nil {
			c.initErrors["mfaHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mfaHandler"]; exists {
		return nil, storedErr
	}
	return c.mfaHandler, nil
}

// initAccountRepository creates the account repository based on the database driver.
func (c *Container) initAccountRepository() (authUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLAccountRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (authUseCase.AccountUseCase, error) {
	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	return authUseCase.NewAccountUseCase(accountRepository, c.PasswordService()), nil
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for session use case: %w", err)
	}

	baseUseCase := authUseCase.NewSessionUseCase(
		c.config,
		accountRepository,
		c.PasswordService(),
		c.TokenService(),
		c.MfaService(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initMfaUseCase creates the MFA use case with all its dependencies.
func (c *Container) initMfaUseCase() (authUseCase.MfaUseCase, error) {
	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for mfa use case: %w", err)
	}

	baseUseCase := authUseCase.NewMfaUseCase(accountRepository, c.MfaService())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for mfa use case: %w", err)
		}
		return authUseCase.NewMfaUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccountHandler creates the account HTTP handler with all its dependencies.
func (c *Container) initAccountHandler() (*authHTTP.AccountHandler, error) {
	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for account handler: %w", err)
	}

	return authHTTP.NewAccountHandler(accountUseCase, c.Logger()), nil
}

// initSessionHandler creates the session HTTP handler with all its dependencies.
func (c *Container) initSessionHandler() (*authHTTP.SessionHandler, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for session handler: %w", err)
	}

	return authHTTP.NewSessionHandler(sessionUseCase, c.Logger()), nil
}

// initMfaHandler creates the MFA HTTP handler with all its dependencies.
func (c *Container) initMfaHandler() (*authHTTP.MfaHandler, error) {
	mfaUseCase, err := c.MfaUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get mfa use case for mfa handler: %w", err)
	}

	return authHTTP.NewMfaHandler(mfaUseCase, c.Logger()), nil
}
