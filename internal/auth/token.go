package auth

import (
	"context"
	"errors"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/financy/financy-backend/internal/domain"
	"github.com/golang-jwt/jwt"
)

// ErrInvalidToken is returned when a token fails verification for any
// reason: bad signature, malformed payload, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Default token lifetimes
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims are the identity attributes embedded in a session token
type Claims struct {
	UserID string
	Name   string
	Email  string
}

// customClaims carries the non-registered claims through the validator
type customClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements validator.CustomClaims
func (c *customClaims) Validate(ctx context.Context) error {
	return nil
}

// tokenClaims is the full claim set used when signing
type tokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenManager issues and verifies signed, time-limited session tokens.
// Tokens are HS256-signed with a shared secret; expiration is the only
// invalidation mechanism.
type TokenManager struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	validator  *validator.Validator
}

// NewTokenManager creates a TokenManager. Zero TTLs fall back to the defaults.
func NewTokenManager(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return []byte(secret), nil
		},
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &customClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		validator:  jwtValidator,
	}, nil
}

// GenerateAccessToken issues the short-lived token used for authentication
func (m *TokenManager) GenerateAccessToken(user *domain.User) (string, error) {
	return m.sign(user, m.accessTTL)
}

// GenerateRefreshToken issues the longer-lived token redeemable via the
// refresh exchange
func (m *TokenManager) GenerateRefreshToken(user *domain.User) (string, error) {
	return m.sign(user, m.refreshTTL)
}

func (m *TokenManager) sign(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Name:  user.Name,
		Email: user.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.String(),
			Issuer:    m.issuer,
			Audience:  m.audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates a token's signature, shape, and expiry and returns the
// embedded claims. Any failure maps to ErrInvalidToken.
func (m *TokenManager) Verify(ctx context.Context, token string) (*Claims, error) {
	parsed, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	validated, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: validated.RegisteredClaims.Subject}
	if custom, ok := validated.CustomClaims.(*customClaims); ok {
		claims.Name = custom.Name
		claims.Email = custom.Email
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTokenTTL returns the configured access token lifetime
func (m *TokenManager) AccessTokenTTL() time.Duration {
	return m.accessTTL
}
