package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/filevault/internal/auth/domain"
	"github.com/allisson/filevault/internal/auth/http/dto"
	authService "github.com/allisson/filevault/internal/auth/service"
)

// stubMfaUseCase implements authUseCase.MfaUseCase with function fields.
type stubMfaUseCase struct {
	beginSetupFn   func(ctx context.Context, accountID uuid.UUID) (*authService.MfaEnrollment, error)
	confirmSetupFn func(ctx context.Context, accountID uuid.UUID, code string) error
	disableFn      func(ctx context.Context, accountID uuid.UUID, code string) error
}

func (s *stubMfaUseCase) BeginSetup(
	ctx context.Context,
	accountID uuid.UUID,
) (*authService.MfaEnrollment, error) {
	return s.beginSetupFn(ctx, accountID)
}

func (s *stubMfaUseCase) ConfirmSetup(ctx context.Context, accountID uuid.UUID, code string) error {
	return s.confirmSetupFn(ctx, accountID, code)
}

func (s *stubMfaUseCase) Disable(ctx context.Context, accountID uuid.UUID, code string) error {
	return s.disableFn(ctx, accountID, code)
}

func performAuthenticatedJSONRequest(
	handler gin.HandlerFunc,
	accountID uuid.UUID,
	method, url string,
	body any,
) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	c.Request = req.WithContext(WithClaims(req.Context(), &authService.SessionClaims{
		AccountID: accountID.String(),
		Username:  "alice",
		Role:      authDomain.RoleUser,
	}))

	handler(c)
	return w
}

func TestMfaHandler_BeginSetupHandler(t *testing.T) {
	t.Run("returns enrollment material", func(t *testing.T) {
		accountID := uuid.Must(uuid.NewV7())
		qrPNG := []byte{0x89, 'P', 'N', 'G'}
		useCase := &stubMfaUseCase{
			beginSetupFn: func(_ context.Context, id uuid.UUID) (*authService.MfaEnrollment, error) {
				assert.Equal(t, accountID, id)
				return &authService.MfaEnrollment{
					Secret:          "JBSWY3DPEHPK3PXP",
					ProvisioningURI: "otpauth://totp/FileVault:alice?secret=JBSWY3DPEHPK3PXP",
					QRCodePNG:       qrPNG,
				}, nil
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.BeginSetupHandler, accountID,
			http.MethodPost, "/v1/auth/mfa/setup", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.MfaEnrollmentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "JBSWY3DPEHPK3PXP", response.Secret)
		assert.Contains(t, response.ProvisioningURI, "otpauth://totp/")
		assert.Equal(t, base64.StdEncoding.EncodeToString(qrPNG), response.QRCodePNG)
	})

	t.Run("already enabled", func(t *testing.T) {
		useCase := &stubMfaUseCase{
			beginSetupFn: func(_ context.Context, _ uuid.UUID) (*authService.MfaEnrollment, error) {
				return nil, authDomain.ErrMfaAlreadyEnabled
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.BeginSetupHandler, uuid.Must(uuid.NewV7()),
			http.MethodPost, "/v1/auth/mfa/setup", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("no claims", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		handler := NewMfaHandler(&stubMfaUseCase{}, testLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/auth/mfa/setup", nil)

		handler.BeginSetupHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMfaHandler_ConfirmSetupHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		accountID := uuid.Must(uuid.NewV7())
		useCase := &stubMfaUseCase{
			confirmSetupFn: func(_ context.Context, id uuid.UUID, code string) error {
				assert.Equal(t, accountID, id)
				assert.Equal(t, "123456", code)
				return nil
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.ConfirmSetupHandler, accountID,
			http.MethodPost, "/v1/auth/mfa/verify", dto.MfaCodeRequest{Code: "123456"})

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wrong code keeps pending state", func(t *testing.T) {
		useCase := &stubMfaUseCase{
			confirmSetupFn: func(_ context.Context, _ uuid.UUID, _ string) error {
				return authDomain.ErrInvalidMfaCode
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.ConfirmSetupHandler, uuid.Must(uuid.NewV7()),
			http.MethodPost, "/v1/auth/mfa/verify", dto.MfaCodeRequest{Code: "000000"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("setup never started", func(t *testing.T) {
		useCase := &stubMfaUseCase{
			confirmSetupFn: func(_ context.Context, _ uuid.UUID, _ string) error {
				return authDomain.ErrMfaNotPending
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.ConfirmSetupHandler, uuid.Must(uuid.NewV7()),
			http.MethodPost, "/v1/auth/mfa/verify", dto.MfaCodeRequest{Code: "123456"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed code", func(t *testing.T) {
		handler := NewMfaHandler(&stubMfaUseCase{}, testLogger())

		w := performAuthenticatedJSONRequest(handler.ConfirmSetupHandler, uuid.Must(uuid.NewV7()),
			http.MethodPost, "/v1/auth/mfa/verify", dto.MfaCodeRequest{Code: "12ab56"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestMfaHandler_DisableHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		accountID := uuid.Must(uuid.NewV7())
		useCase := &stubMfaUseCase{
			disableFn: func(_ context.Context, id uuid.UUID, code string) error {
				assert.Equal(t, accountID, id)
				assert.Equal(t, "123456", code)
				return nil
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.DisableHandler, accountID,
			http.MethodPost, "/v1/auth/mfa/disable", dto.MfaCodeRequest{Code: "123456"})

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not enabled", func(t *testing.T) {
		useCase := &stubMfaUseCase{
			disableFn: func(_ context.Context, _ uuid.UUID, _ string) error {
				return authDomain.ErrMfaNotEnabled
			},
		}
		handler := NewMfaHandler(useCase, testLogger())

		w := performAuthenticatedJSONRequest(handler.DisableHandler, uuid.Must(uuid.NewV7()),
			http.MethodPost, "/v1/auth/mfa/disable", dto.MfaCodeRequest{Code: "123456"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
