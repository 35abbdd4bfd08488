package seeder

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authstore "stipend/internal/auth/store"
	officestore "stipend/internal/office/store"
)

func TestSeed_PopulatesDemoData(t *testing.T) {
	ctx := context.Background()
	offices := officestore.NewInMemory()
	creds := authstore.NewInMemory()

	require.NoError(t, New(offices, creds, slog.New(slog.DiscardHandler)).Seed(ctx))

	count, err := offices.CountOffices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	smith, err := offices.ListEmployees(ctx, 1)
	require.NoError(t, err)
	require.Len(t, smith, 5)
	assert.Equal(t, "John Butler", smith[0].Name)
	assert.Equal(t, "75000", smith[0].Salary.String())

	jones, err := offices.ListEmployees(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, jones, 3)

	cred, err := creds.Lookup(ctx, "smith@demo.com")
	require.NoError(t, err)
	assert.Equal(t, "demo123", cred.Password)
	assert.Equal(t, int64(1), cred.FamilyOfficeID)
	assert.Equal(t, "Smith Family Office", cred.FamilyOfficeName)
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	offices := officestore.NewInMemory()
	creds := authstore.NewInMemory()
	s := New(offices, creds, slog.New(slog.DiscardHandler))

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	count, err := offices.CountOffices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	employees, err := offices.ListEmployees(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, employees, 5)

	cred, err := creds.Lookup(ctx, "jones@demo.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cred.FamilyOfficeID)
}

func TestSeed_BindsCredentialsToExistingOfficeIDs(t *testing.T) {
	ctx := context.Background()
	offices := officestore.NewInMemory()
	creds := authstore.NewInMemory()

	// Offices created out of seed order, so their ids differ from the
	// ids a fresh seed would assign.
	jones, err := offices.CreateOffice(ctx, "Jones Family Office")
	require.NoError(t, err)
	smith, err := offices.CreateOffice(ctx, "Smith Family Office")
	require.NoError(t, err)
	require.NotEqual(t, int64(1), smith.ID)

	require.NoError(t, New(offices, creds, slog.New(slog.DiscardHandler)).Seed(ctx))

	smithCred, err := creds.Lookup(ctx, "smith@demo.com")
	require.NoError(t, err)
	assert.Equal(t, smith.ID, smithCred.FamilyOfficeID)

	jonesCred, err := creds.Lookup(ctx, "jones@demo.com")
	require.NoError(t, err)
	assert.Equal(t, jones.ID, jonesCred.FamilyOfficeID)
}

func TestSeed_SkipsCredentialForMissingOffice(t *testing.T) {
	ctx := context.Background()
	offices := officestore.NewInMemory()
	creds := authstore.NewInMemory()

	_, err := offices.CreateOffice(ctx, "Smith Family Office")
	require.NoError(t, err)

	require.NoError(t, New(offices, creds, slog.New(slog.DiscardHandler)).Seed(ctx))

	_, err = creds.Lookup(ctx, "smith@demo.com")
	require.NoError(t, err)

	_, err = creds.Lookup(ctx, "jones@demo.com")
	assert.Error(t, err)
}
