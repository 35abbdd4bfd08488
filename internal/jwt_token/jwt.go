// Package jwttoken issues and validates the signed session tokens carried
// by every authenticated request.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stipend/internal/platform/middleware"
	dErrors "stipend/pkg/domain-errors"
)

// TokenTTL is the fixed lifetime of issued session tokens.
const TokenTTL = 24 * time.Hour

// SessionClaims are the JWT claims for an admin session. The claim names
// are part of the API contract with existing clients.
type SessionClaims struct {
	Email    string `json:"email"`
	TenantID int64  `json:"family_office_id"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation with a symmetric key.
type Service struct {
	signingKey []byte
	clock      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by expiry tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs a JWT service signing with the given symmetric key.
func NewService(signingKey string, opts ...Option) *Service {
	s := &Service{
		signingKey: []byte(signingKey),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueToken produces a signed HS256 token carrying the admin's email and
// tenant, expiring TokenTTL from now.
func (s *Service) IssueToken(email string, tenantID int64) (string, error) {
	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Email:    email,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign token")
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, expiry, and required claims.
// It satisfies middleware.TokenVerifier so handlers never touch raw JWTs.
func (s *Service) VerifyToken(tokenString string) (*middleware.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.Email == "" || claims.TenantID == 0 {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing token claims")
	}

	return &middleware.Principal{Email: claims.Email, TenantID: claims.TenantID}, nil
}
