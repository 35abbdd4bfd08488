package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stipend/internal/audit"
	"stipend/internal/payroll/models"
	"stipend/internal/platform/middleware"
	dErrors "stipend/pkg/domain-errors"
	"stipend/pkg/httputil"
)

// Service is the slice of the payroll service the HTTP layer needs.
type Service interface {
	Submit(ctx context.Context, familyOfficeID int64, employeeIDs []int64) (*models.PayrollRun, error)
	GetRun(ctx context.Context, runID, familyOfficeID int64) (*models.PayrollRun, error)
	ArtifactPath(ctx context.Context, runID, familyOfficeID int64) (string, error)
}

// AuditPublisher records downloads of the combined pay-stub PDF.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

type Handler struct {
	service Service
	auditor AuditPublisher
	logger  *slog.Logger
}

func New(service Service, auditor AuditPublisher, logger *slog.Logger) *Handler {
	return &Handler{service: service, auditor: auditor, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/payroll/run", h.HandleSubmitRun)
	r.Get("/payroll/{run_id}", h.HandleGetRun)
	r.Get("/payroll/{run_id}/pdf", h.HandleDownloadPDF)
}

// SubmitRunRequest is the payroll submission body.
type SubmitRunRequest struct {
	EmployeeIDs []int64 `json:"employee_ids"`
}

// RunResponse is the wire shape for one payroll run. completed_at is null
// until the run reaches a completed state.
type RunResponse struct {
	ID          int64      `json:"id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func runResponse(run *models.PayrollRun) RunResponse {
	return RunResponse{
		ID:          run.ID,
		Status:      string(run.Status),
		CreatedAt:   run.CreatedAt,
		CompletedAt: run.CompletedAt,
	}
}

// HandleSubmitRun accepts a set of employee ids and starts a payroll run
// for the caller's office. Processing happens in the background; the
// response carries the pending run for status polling.
func (h *Handler) HandleSubmitRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials"))
		return
	}

	var req SubmitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	run, err := h.service.Submit(ctx, principal.TenantID, req.EmployeeIDs)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "submit payroll run failed",
				"error", err,
				"family_office_id", principal.TenantID,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, runResponse(run))
}

// HandleGetRun returns the current state of one run. Runs of other offices
// and unknown run ids are both 404.
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials"))
		return
	}

	runID, err := runIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := h.service.GetRun(ctx, runID, principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, runResponse(run))
}

// HandleDownloadPDF streams the combined pay-stub PDF of a completed run.
func (h *Handler) HandleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials"))
		return
	}

	runID, err := runIDFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	path, err := h.service.ArtifactPath(ctx, runID, principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditor.Publish(ctx, audit.Event{
		FamilyOfficeID: principal.TenantID,
		Email:          principal.Email,
		Action:         audit.ActionPDFDownloaded,
		Detail:         fmt.Sprintf("run %d", runID),
		RequestID:      middleware.GetRequestID(ctx),
	})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payroll_run_%d.pdf"`, runID))
	http.ServeFile(w, r, path)
}

// runIDFromRequest parses the run_id path segment. Non-numeric ids read the
// same as unknown runs.
func runIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "run_id")
	runID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "payroll run not found")
	}
	return runID, nil
}
