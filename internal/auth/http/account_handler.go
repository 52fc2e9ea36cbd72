package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/http/dto"
	authUseCase "github.com/allisson/filevault/internal/auth/usecase"
	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// AccountHandler handles HTTP requests for account management operations.
type AccountHandler struct {
	accountUseCase authUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler with required dependencies.
func NewAccountHandler(
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// RegisterHandler creates a new account.
// POST /v1/accounts - Requires an authenticated admin session.
// Returns 201 Created with the account data.
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterAccountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := authUseCase.RegisterAccountInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	}

	account, err := h.accountUseCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAccountToResponse(account))
}

// MeHandler returns the account of the authenticated session.
// GET /v1/accounts/me - Requires an authenticated session.
// Returns 200 OK with the account data.
func (h *AccountHandler) MeHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}
