package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/filevault/internal/auth/http/dto"
	authUseCase "github.com/allisson/filevault/internal/auth/usecase"
	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// SessionHandler handles HTTP requests for login and session operations.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler authenticates a username/password pair.
// POST /v1/auth/login - No authentication required.
// Returns 200 OK with a session token, or with an MFA challenge when the
// account has MFA enabled.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := authUseCase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}

	output, err := h.sessionUseCase.Login(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if output.MfaRequired {
		c.JSON(http.StatusOK, dto.MfaChallengeResponse{
			MfaRequired:    true,
			ChallengeToken: output.ChallengeToken,
		})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		SessionToken: output.SessionToken,
		ExpiresAt:    output.ExpiresAt,
	})
}

// MfaLoginHandler finishes an MFA-gated login.
// POST /v1/auth/login/mfa - No authentication required, consumes a challenge token.
// Returns 200 OK with a session token.
func (h *SessionHandler) MfaLoginHandler(c *gin.Context) {
	var req dto.MfaLoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.sessionUseCase.CompleteMfaLogin(c.Request.Context(), req.ChallengeToken, req.Code)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		SessionToken: output.SessionToken,
		ExpiresAt:    output.ExpiresAt,
	})
}

// GetSessionHandler returns the claims of the authenticated session.
// GET /v1/auth/session - Requires an authenticated session.
// Returns 200 OK with the session claims.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClaimsToResponse(claims))
}
