package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/domain"
	authService "github.com/allisson/filevault/internal/auth/service"
	appValidation "github.com/allisson/filevault/internal/validation"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	accountRepo     AccountRepository
	passwordService authService.PasswordService
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	passwordService authService.PasswordService,
) AccountUseCase {
	return &accountUseCase{
		accountRepo:     accountRepo,
		passwordService: passwordService,
	}
}

// validateRegisterAccountInput validates registration input: username shape
// and password strength (min 8 chars, uppercase, lowercase, number, special char).
func (a *accountUseCase) validateRegisterAccountInput(input RegisterAccountInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.Role,
			validation.In(string(domain.RoleUser), string(domain.RoleAdmin), "").Error("role must be user or admin"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new account with a hashed password and MFA not configured.
func (a *accountUseCase) Register(ctx context.Context, input RegisterAccountInput) (*domain.Account, error) {
	if err := a.validateRegisterAccountInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := a.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RoleUser
	}

	account := &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     strings.TrimSpace(strings.ToLower(input.Username)),
		PasswordHash: hashedPassword,
		Role:         role,
		MfaStatus:    domain.MfaNotConfigured,
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Get retrieves an account by ID.
func (a *accountUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return a.accountRepo.GetByID(ctx, id)
}
