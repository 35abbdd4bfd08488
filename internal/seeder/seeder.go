// Package seeder populates the stores with the demo family offices,
// employees, and admin credentials.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	authmodels "stipend/internal/auth/models"
	officemodels "stipend/internal/office/models"
	"stipend/internal/sentinel"
)

// OfficeStore covers the office operations seeding needs.
type OfficeStore interface {
	CountOffices(ctx context.Context) (int, error)
	CreateOffice(ctx context.Context, name string) (*officemodels.FamilyOffice, error)
	FindOfficeByName(ctx context.Context, name string) (*officemodels.FamilyOffice, error)
	CreateEmployee(ctx context.Context, familyOfficeID int64, name string, salary decimal.Decimal) (*officemodels.Employee, error)
}

// CredentialStore registers demo admin logins.
type CredentialStore interface {
	Put(ctx context.Context, cred authmodels.Credential) error
}

type office struct {
	name       string
	adminEmail string
	employees  []employee
}

type employee struct {
	name   string
	salary int64
}

// demoPassword is shared by every demo admin. Plaintext on purpose.
const demoPassword = "demo123"

var demoOffices = []office{
	{
		name:       "Smith Family Office",
		adminEmail: "smith@demo.com",
		employees: []employee{
			{"John Butler", 75000},
			{"Mary Chef", 65000},
			{"Robert Driver", 55000},
			{"Sarah Nanny", 50000},
			{"James Gardener", 45000},
		},
	},
	{
		name:       "Jones Family Office",
		adminEmail: "jones@demo.com",
		employees: []employee{
			{"Emily Assistant", 60000},
			{"Michael Security", 70000},
			{"Lisa Housekeeper", 48000},
		},
	},
}

// Seeder loads demo data at startup. Safe to run on every boot.
type Seeder struct {
	offices OfficeStore
	creds   CredentialStore
	logger  *slog.Logger
}

func New(offices OfficeStore, creds CredentialStore, logger *slog.Logger) *Seeder {
	return &Seeder{offices: offices, creds: creds, logger: logger}
}

// Seed creates the demo offices, rosters, and admin credentials. Offices and
// employees are skipped when any office already exists; credentials are
// re-registered every boot so the in-memory table is always usable.
func (s *Seeder) Seed(ctx context.Context) error {
	count, err := s.offices.CountOffices(ctx)
	if err != nil {
		return fmt.Errorf("count offices: %w", err)
	}

	for _, o := range demoOffices {
		var officeID int64
		if count == 0 {
			created, err := s.offices.CreateOffice(ctx, o.name)
			if err != nil {
				return fmt.Errorf("seed office %q: %w", o.name, err)
			}
			officeID = created.ID
			for _, e := range o.employees {
				if _, err := s.offices.CreateEmployee(ctx, officeID, e.name, decimal.NewFromInt(e.salary)); err != nil {
					return fmt.Errorf("seed employee %q: %w", e.name, err)
				}
			}
		} else {
			// Offices persist across boots; resolve ids by name so
			// credentials bind to the right office even when the
			// database assigned ids we did not pick.
			existing, err := s.offices.FindOfficeByName(ctx, o.name)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					s.logger.WarnContext(ctx, "demo office missing, skipping its credential",
						"office", o.name)
					continue
				}
				return fmt.Errorf("find office %q: %w", o.name, err)
			}
			officeID = existing.ID
		}

		if err := s.creds.Put(ctx, authmodels.Credential{
			Email:            o.adminEmail,
			Password:         demoPassword,
			FamilyOfficeID:   officeID,
			FamilyOfficeName: o.name,
		}); err != nil {
			return fmt.Errorf("seed credential %q: %w", o.adminEmail, err)
		}
	}

	if count == 0 {
		s.logger.InfoContext(ctx, "seeded demo data",
			"offices", len(demoOffices),
			"admins", len(demoOffices))
	} else {
		s.logger.InfoContext(ctx, "demo data already present, refreshed credentials",
			"offices", count)
	}
	return nil
}
