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

// MfaHandler handles HTTP requests for the MFA setup lifecycle.
type MfaHandler struct {
	mfaUseCase authUseCase.MfaUseCase
	logger     *slog.Logger
}

// NewMfaHandler creates a new MFA handler with required dependencies.
func NewMfaHandler(
	mfaUseCase authUseCase.MfaUseCase,
	logger *slog.Logger,
) *MfaHandler {
	return &MfaHandler{
		mfaUseCase: mfaUseCase,
		logger:     logger,
	}
}

// accountID extracts the authenticated account ID from the request context.
func (h *MfaHandler) accountID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return accountID, true
}

// BeginSetupHandler provisions a TOTP secret for the authenticated account.
// POST /v1/auth/mfa/setup - Requires an authenticated session.
// Returns 200 OK with the secret, provisioning URI, and QR code.
func (h *MfaHandler) BeginSetupHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	enrollment, err := h.mfaUseCase.BeginSetup(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEnrollmentToResponse(enrollment))
}

// ConfirmSetupHandler verifies the first TOTP code and enables MFA.
// POST /v1/auth/mfa/verify - Requires an authenticated session.
// Returns 204 No Content.
func (h *MfaHandler) ConfirmSetupHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	var req dto.MfaCodeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.mfaUseCase.ConfirmSetup(c.Request.Context(), accountID, req.Code); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DisableHandler turns MFA off after verifying a current TOTP code.
// POST /v1/auth/mfa/disable - Requires an authenticated session.
// Returns 204 No Content.
func (h *MfaHandler) DisableHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	var req dto.MfaCodeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.mfaUseCase.Disable(c.Request.Context(), accountID, req.Code); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
