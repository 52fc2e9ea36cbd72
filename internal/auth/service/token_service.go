package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/filevault/internal/auth/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
)

// Challenge tokens only bridge the gap between password check and TOTP entry,
// so they expire quickly regardless of the session expiration setting.
const challengeTokenExpiration = 5 * time.Minute

// Token use claim values distinguishing session tokens from MFA challenges.
// A challenge must never be accepted where a session is required.
const (
	tokenUseSession   = "session"
	tokenUseChallenge = "mfa_challenge"
)

// tokenClaims is the JWT claim set shared by both token kinds.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	TokenUse string `json:"token_use"`
}

// tokenService implements TokenService using HMAC-SHA256 signed JWTs.
type tokenService struct {
	signingKey []byte
	issuer     string
	expiration time.Duration
}

// NewTokenService creates a TokenService signing tokens with HMAC-SHA256.
func NewTokenService(signingKey string, issuer string, expiration time.Duration) TokenService {
	return &tokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		expiration: expiration,
	}
}

func (t *tokenService) issue(account *domain.Account, tokenUse string, expiration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiration)

	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: account.Username,
		TokenUse: tokenUse,
	}
	if tokenUse == tokenUseSession {
		claims.Role = string(account.Role)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}

	return tokenString, expiresAt, nil
}

func (t *tokenService) parse(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			return t.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" {
		return nil, apperrors.New("missing token claims")
	}

	return claims, nil
}

// IssueSessionToken creates a signed session token for the account.
func (t *tokenService) IssueSessionToken(account *domain.Account) (string, time.Time, error) {
	return t.issue(account, tokenUseSession, t.expiration)
}

// ParseSessionToken verifies a session token and extracts its claims.
func (t *tokenService) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims, err := t.parse(tokenString)
	if err != nil || claims.TokenUse != tokenUseSession {
		return nil, domain.ErrInvalidSessionToken
	}

	return &SessionClaims{
		AccountID: claims.Subject,
		Username:  claims.Username,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueChallengeToken creates a short-lived MFA challenge token.
func (t *tokenService) IssueChallengeToken(account *domain.Account) (string, error) {
	tokenString, _, err := t.issue(account, tokenUseChallenge, challengeTokenExpiration)
	return tokenString, err
}

// ParseChallengeToken verifies an MFA challenge token.
func (t *tokenService) ParseChallengeToken(tokenString string) (*ChallengeClaims, error) {
	claims, err := t.parse(tokenString)
	if err != nil || claims.TokenUse != tokenUseChallenge {
		return nil, domain.ErrInvalidMfaChallenge
	}

	return &ChallengeClaims{
		AccountID: claims.Subject,
		Username:  claims.Username,
	}, nil
}
