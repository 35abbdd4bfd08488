package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	officestore "stipend/internal/office/store"
	"stipend/internal/platform/middleware"
)

func TestHandleListEmployees_ScopedToCaller(t *testing.T) {
	store := officestore.NewInMemory()
	ctx := context.Background()

	smith, err := store.CreateOffice(ctx, "Smith Family Office")
	require.NoError(t, err)
	jones, err := store.CreateOffice(ctx, "Jones Family Office")
	require.NoError(t, err)

	_, err = store.CreateEmployee(ctx, smith.ID, "John Butler", decimal.NewFromInt(75000))
	require.NoError(t, err)
	_, err = store.CreateEmployee(ctx, jones.ID, "Emily Assistant", decimal.NewFromInt(60000))
	require.NoError(t, err)

	h := New(store, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		Email:    "smith@demo.com",
		TenantID: smith.ID,
	}))
	rec := httptest.NewRecorder()
	h.HandleListEmployees(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []EmployeeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "John Butler", body[0].Name)
	assert.InDelta(t, 75000.0, body[0].Salary, 0.001)
}

func TestHandleListEmployees_EmptyOfficeReturnsEmptyList(t *testing.T) {
	store := officestore.NewInMemory()
	office, err := store.CreateOffice(context.Background(), "Smith Family Office")
	require.NoError(t, err)

	h := New(store, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		Email:    "smith@demo.com",
		TenantID: office.ID,
	}))
	rec := httptest.NewRecorder()
	h.HandleListEmployees(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleListEmployees_NoPrincipalIs401(t *testing.T) {
	h := New(officestore.NewInMemory(), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.HandleListEmployees(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
