package service

import (
	"context"
	"errors"
	"log/slog"

	"stipend/internal/audit"
	"stipend/internal/auth/models"
	"stipend/internal/platform/metrics"
	"stipend/internal/platform/middleware"
	"stipend/internal/sentinel"
	dErrors "stipend/pkg/domain-errors"
)

// CredentialStore is the pluggable identity source. The demo ships an
// in-memory table; a real provider can replace it without touching this
// service's contract.
type CredentialStore interface {
	Lookup(ctx context.Context, email string) (models.Credential, error)
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	IssueToken(email string, tenantID int64) (string, error)
}

// AuditPublisher records login outcomes.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// Service authenticates admins and issues session tokens.
type Service struct {
	creds   CredentialStore
	tokens  TokenIssuer
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(creds CredentialStore, tokens TokenIssuer, auditor AuditPublisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{creds: creds, tokens: tokens, auditor: auditor, metrics: m, logger: logger}
}

// Authenticate returns the admin identity for an exact email and password
// match, or nil. Plaintext comparison; demo credential table only.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	cred, err := s.creds.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credential lookup failed")
	}
	if cred.Password != password {
		return nil, nil
	}
	return &models.Identity{
		Email:            cred.Email,
		FamilyOfficeID:   cred.FamilyOfficeID,
		FamilyOfficeName: cred.FamilyOfficeName,
	}, nil
}

// Login authenticates and issues a session token. Wrong password and unknown
// email produce the same error so callers cannot enumerate accounts. The
// device description is recorded with the audit event only.
func (s *Service) Login(ctx context.Context, email, password, device string) (string, *models.Identity, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if identity == nil {
		if s.metrics != nil {
			s.metrics.AuthFailures.Inc()
		}
		s.auditor.Publish(ctx, audit.Event{
			Email:     email,
			Action:    audit.ActionLoginFailed,
			Device:    device,
			RequestID: middleware.GetRequestID(ctx),
		})
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "incorrect email or password")
	}

	token, err := s.tokens.IssueToken(identity.Email, identity.FamilyOfficeID)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}

	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
	s.auditor.Publish(ctx, audit.Event{
		FamilyOfficeID: identity.FamilyOfficeID,
		Email:          identity.Email,
		Action:         audit.ActionLoginSucceeded,
		Device:         device,
		RequestID:      middleware.GetRequestID(ctx),
	})
	return token, identity, nil
}
