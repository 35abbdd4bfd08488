package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stipend/internal/payroll/models"
	"stipend/internal/sentinel"
)

// InMemory stores payroll runs in memory for the demo environment and tests.
type InMemory struct {
	mu     sync.RWMutex
	runs   map[int64]models.PayrollRun
	nextID int64
}

// NewInMemory creates an in-memory payroll run store.
func NewInMemory() *InMemory {
	return &InMemory{runs: make(map[int64]models.PayrollRun)}
}

// CreateRun creates a pending run for the office.
func (s *InMemory) CreateRun(_ context.Context, familyOfficeID int64) (*models.PayrollRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run := models.PayrollRun{
		ID:             s.nextID,
		FamilyOfficeID: familyOfficeID,
		Status:         models.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	s.runs[run.ID] = run
	return &run, nil
}

// GetRun retrieves a run scoped to one office. An absent id and a foreign id
// are indistinguishable; both return sentinel.ErrNotFound.
func (s *InMemory) GetRun(_ context.Context, runID, familyOfficeID int64) (*models.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok || run.FamilyOfficeID != familyOfficeID {
		return nil, sentinel.ErrNotFound
	}
	out := run
	return &out, nil
}

// FindRun retrieves a run by id without tenant scoping. Worker-only.
func (s *InMemory) FindRun(_ context.Context, runID int64) (*models.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := run
	return &out, nil
}

// UpdateRun persists status, pdf path, and completion transitions.
// Last-write-wins; the engine is the run's single writer.
func (s *InMemory) UpdateRun(_ context.Context, run *models.PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return fmt.Errorf("payroll run %d: %w", run.ID, sentinel.ErrNotFound)
	}
	s.runs[run.ID] = *run
	return nil
}
