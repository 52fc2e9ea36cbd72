package service

import (
	"bytes"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	apperrors "github.com/allisson/filevault/internal/errors"
)

// QR image dimensions in pixels. Large enough for phone cameras at typical
// screen sizes.
const qrImageSize = 256

// mfaService implements MfaService using RFC 6238 TOTP with standard
// parameters: 30-second period, SHA-1, 6 digits.
type mfaService struct {
	issuer string
}

// NewMfaService creates an MfaService. The issuer is the label shown in
// authenticator apps next to the account name.
func NewMfaService(issuer string) MfaService {
	return &mfaService{issuer: issuer}
}

// GenerateEnrollment provisions a new TOTP secret for the given username and
// renders the otpauth:// provisioning URI as a QR PNG.
func (m *mfaService) GenerateEnrollment(username string) (*MfaEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: username,
		Algorithm:   otp.AlgorithmSHA1,
		Digits:      otp.DigitsSix,
		Period:      30,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate totp secret")
	}

	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render provisioning qr code")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.Wrap(err, "failed to encode qr code png")
	}

	return &MfaEnrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRCodePNG:       buf.Bytes(),
	}, nil
}

// VerifyCode checks a TOTP code against a secret, accepting codes from the
// current time step and one step either side for clock skew. Malformed codes
// and verification errors both report false; callers never need to
// distinguish "wrong code" from "garbage input".
func (m *mfaService) VerifyCode(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}

	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}
