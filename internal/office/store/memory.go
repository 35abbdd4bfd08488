package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stipend/internal/office/models"
	"stipend/internal/sentinel"
)

// InMemory stores family offices and employees in memory for the demo
// environment and for tests.
type InMemory struct {
	mu         sync.RWMutex
	offices    map[int64]*models.FamilyOffice
	employees  []*models.Employee
	nextOffice int64
	nextEmp    int64
}

// NewInMemory creates an in-memory office store.
func NewInMemory() *InMemory {
	return &InMemory{
		offices: make(map[int64]*models.FamilyOffice),
	}
}

// CreateOffice creates a family office with a unique name (case-insensitive).
func (s *InMemory) CreateOffice(_ context.Context, name string) (*models.FamilyOffice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.offices {
		if strings.EqualFold(o.Name, name) {
			return nil, fmt.Errorf("family office name must be unique: %w", sentinel.ErrInvalidInput)
		}
	}
	s.nextOffice++
	office := &models.FamilyOffice{
		ID:        s.nextOffice,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.offices[office.ID] = office
	return office, nil
}

// FindOfficeByName looks up an office by its name (case-insensitive).
func (s *InMemory) FindOfficeByName(_ context.Context, name string) (*models.FamilyOffice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.offices {
		if strings.EqualFold(o.Name, name) {
			clone := *o
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("family office %q: %w", name, sentinel.ErrNotFound)
}

// CountOffices returns the number of offices. The seeder uses it to stay idempotent.
func (s *InMemory) CountOffices(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offices), nil
}

// CreateEmployee persists an employee under the given office.
func (s *InMemory) CreateEmployee(_ context.Context, familyOfficeID int64, name string, salary decimal.Decimal) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offices[familyOfficeID]; !ok {
		return nil, fmt.Errorf("family office %d: %w", familyOfficeID, sentinel.ErrNotFound)
	}
	emp, err := models.NewEmployee(familyOfficeID, name, salary)
	if err != nil {
		return nil, err
	}
	s.nextEmp++
	emp.ID = s.nextEmp
	emp.CreatedAt = time.Now().UTC()
	s.employees = append(s.employees, emp)
	return emp, nil
}

// ListEmployees returns the office's employees in insertion order.
func (s *InMemory) ListEmployees(_ context.Context, familyOfficeID int64) ([]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Employee
	for _, e := range s.employees {
		if e.FamilyOfficeID == familyOfficeID {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindEmployeesByIDs resolves the given ids within one office. Ids that do
// not exist or belong to another office are simply absent from the result;
// callers compare counts to reject foreign or unknown ids.
func (s *InMemory) FindEmployeesByIDs(_ context.Context, familyOfficeID int64, ids []int64) ([]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Employee
	for _, e := range s.employees {
		if e.FamilyOfficeID == familyOfficeID && slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}
