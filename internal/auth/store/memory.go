package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stipend/internal/auth/models"
	"stipend/internal/sentinel"
)

// InMemory is the demo credential table: email to credential, seeded at
// startup.
type InMemory struct {
	mu    sync.RWMutex
	creds map[string]models.Credential
}

// NewInMemory creates an empty in-memory credential store.
func NewInMemory() *InMemory {
	return &InMemory{creds: make(map[string]models.Credential)}
}

// Put registers or replaces a credential, keyed by lowercased email.
func (s *InMemory) Put(_ context.Context, cred models.Credential) error {
	if cred.Email == "" {
		return fmt.Errorf("credential email: %w", sentinel.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[strings.ToLower(cred.Email)] = cred
	return nil
}

// Lookup finds a credential by email (case-insensitive).
func (s *InMemory) Lookup(_ context.Context, email string) (models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[strings.ToLower(email)]
	if !ok {
		return models.Credential{}, sentinel.ErrNotFound
	}
	return cred, nil
}
