package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stipend/internal/office/models"
	"stipend/internal/platform/middleware"
	dErrors "stipend/pkg/domain-errors"
	"stipend/pkg/httputil"
)

// EmployeeLister is the slice of the office store the employee listing
// needs. Listing reads the store directly; there is no service layer for it.
type EmployeeLister interface {
	ListEmployees(ctx context.Context, familyOfficeID int64) ([]*models.Employee, error)
}

type Handler struct {
	employees EmployeeLister
	logger    *slog.Logger
}

func New(employees EmployeeLister, logger *slog.Logger) *Handler {
	return &Handler{employees: employees, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/employees", h.HandleListEmployees)
}

// EmployeeResponse is the wire shape for one employee.
type EmployeeResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Salary float64 `json:"salary"`
}

// HandleListEmployees returns the caller's employees, scoped to their office.
func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials"))
		return
	}

	employees, err := h.employees.ListEmployees(ctx, principal.TenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list employees failed",
			"error", err,
			"family_office_id", principal.TenantID,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeResponse{
			ID:     e.ID,
			Name:   e.Name,
			Salary: e.Salary.InexactFloat64(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
