// Package service implements payroll run submission and background
// processing: net pay calculation, pay-stub rendering, and run lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stipend/internal/audit"
	officemodels "stipend/internal/office/models"
	"stipend/internal/payroll/models"
	"stipend/internal/platform/metrics"
	"stipend/internal/platform/middleware"
	"stipend/internal/sentinel"
	dErrors "stipend/pkg/domain-errors"
)

// EmployeeStore is the roster source for a family office.
type EmployeeStore interface {
	ListEmployees(ctx context.Context, familyOfficeID int64) ([]*officemodels.Employee, error)
	FindEmployeesByIDs(ctx context.Context, familyOfficeID int64, ids []int64) ([]*officemodels.Employee, error)
}

// RunStore persists payroll runs. GetRun is tenant-scoped; FindRun is the
// unscoped lookup for the worker, which receives only a run id.
type RunStore interface {
	CreateRun(ctx context.Context, familyOfficeID int64) (*models.PayrollRun, error)
	GetRun(ctx context.Context, runID, familyOfficeID int64) (*models.PayrollRun, error)
	FindRun(ctx context.Context, runID int64) (*models.PayrollRun, error)
	UpdateRun(ctx context.Context, run *models.PayrollRun) error
}

// Renderer produces a pay-stub PDF for one employee.
type Renderer interface {
	Render(employee *officemodels.Employee, netPay decimal.Decimal, now time.Time) ([]byte, error)
}

// Dispatcher hands a run off for background processing.
type Dispatcher interface {
	EnqueueRun(ctx context.Context, runID int64) error
}

// AuditPublisher records run lifecycle events.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// ProgressObserver is notified after each stub is rendered.
type ProgressObserver func(runID int64, current, total int)

// Service coordinates payroll run submission and execution.
type Service struct {
	employees  EmployeeStore
	runs       RunStore
	renderer   Renderer
	dispatcher Dispatcher
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer

	storageDir string
	delay      time.Duration
	observer   ProgressObserver
	clock      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithProcessingDelay adds a pause after each employee to simulate heavier
// per-stub work.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithProgressObserver registers a callback invoked after each stub.
func WithProgressObserver(fn ProgressObserver) Option {
	return func(s *Service) {
		if fn != nil {
			s.observer = fn
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(
	employees EmployeeStore,
	runs RunStore,
	renderer Renderer,
	dispatcher Dispatcher,
	auditor AuditPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	storageDir string,
	opts ...Option,
) *Service {
	s := &Service{
		employees:  employees,
		runs:       runs,
		renderer:   renderer,
		dispatcher: dispatcher,
		auditor:    auditor,
		metrics:    m,
		logger:     logger,
		tracer:     otel.Tracer("stipend/payroll"),
		storageDir: storageDir,
		observer:   func(int64, int, int) {},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the requested employee ids against the caller's office,
// creates a pending run, and enqueues it for background processing. Every
// requested id must belong to the office or the whole submission is rejected.
func (s *Service) Submit(ctx context.Context, familyOfficeID int64, employeeIDs []int64) (*models.PayrollRun, error) {
	if len(employeeIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no employee ids provided")
	}

	matched, err := s.employees.FindEmployeesByIDs(ctx, familyOfficeID, employeeIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve employees")
	}
	if len(matched) != len(employeeIDs) {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid employee ids")
	}

	run, err := s.runs.CreateRun(ctx, familyOfficeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create payroll run")
	}

	if err := s.dispatcher.EnqueueRun(ctx, run.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "enqueue payroll run")
	}

	if s.metrics != nil {
		s.metrics.RunsSubmitted.Inc()
	}
	s.auditor.Publish(ctx, audit.Event{
		FamilyOfficeID: familyOfficeID,
		Action:         audit.ActionRunSubmitted,
		Detail:         fmt.Sprintf("run %d, %d employees requested", run.ID, len(employeeIDs)),
		RequestID:      middleware.GetRequestID(ctx),
	})

	s.logger.Info("payroll run submitted",
		"run_id", run.ID,
		"family_office_id", familyOfficeID,
		"requested_employees", len(employeeIDs))
	return run, nil
}

// GetRun returns a run scoped to the caller's office. Runs belonging to
// other offices look identical to runs that do not exist.
func (s *Service) GetRun(ctx context.Context, runID, familyOfficeID int64) (*models.PayrollRun, error) {
	run, err := s.runs.GetRun(ctx, runID, familyOfficeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payroll run not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load payroll run")
	}
	return run, nil
}

// ArtifactPath resolves the combined pay-stub PDF for a completed run.
// A run that is not completed, or whose file is gone, reads as not found.
func (s *Service) ArtifactPath(ctx context.Context, runID, familyOfficeID int64) (string, error) {
	run, err := s.GetRun(ctx, runID, familyOfficeID)
	if err != nil {
		return "", err
	}
	if run.Status != models.StatusCompleted || run.PDFPath == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "pay stubs not available")
	}
	if _, err := os.Stat(run.PDFPath); err != nil {
		return "", dErrors.New(dErrors.CodeNotFound, "pay stubs not available")
	}
	return run.PDFPath, nil
}

// Execute processes one run end to end: marks it processing, renders a stub
// for every employee of the owning office, writes the combined artifact, and
// records the terminal state. Any failure leaves the run failed.
func (s *Service) Execute(ctx context.Context, runID int64) error {
	ctx, span := s.tracer.Start(ctx, "payroll.Execute",
		trace.WithAttributes(attribute.Int64("payroll.run_id", runID)))
	defer span.End()

	run, err := s.runs.FindRun(ctx, runID)
	if err != nil {
		s.logger.Error("payroll run vanished before processing", "run_id", runID, "error", err)
		span.SetStatus(codes.Error, "run not found")
		return fmt.Errorf("load run %d: %w", runID, err)
	}

	started := s.clock()
	if err := s.process(ctx, run); err != nil {
		s.fail(ctx, run, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "run failed")
		return err
	}

	if s.metrics != nil {
		s.metrics.RunsCompleted.Inc()
		s.metrics.RunDuration.Observe(s.clock().Sub(started).Seconds())
	}
	s.auditor.Publish(ctx, audit.Event{
		FamilyOfficeID: run.FamilyOfficeID,
		Action:         audit.ActionRunCompleted,
		Detail:         fmt.Sprintf("run %d", run.ID),
	})
	s.logger.Info("payroll run completed", "run_id", run.ID, "family_office_id", run.FamilyOfficeID)
	return nil
}

func (s *Service) process(ctx context.Context, run *models.PayrollRun) error {
	if err := run.BeginProcessing(); err != nil {
		return fmt.Errorf("run %d: %w", run.ID, err)
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("mark run %d processing: %w", run.ID, err)
	}

	// The run covers the office's full roster at processing time, not a
	// snapshot of the submitted ids.
	roster, err := s.employees.ListEmployees(ctx, run.FamilyOfficeID)
	if err != nil {
		return fmt.Errorf("load roster for office %d: %w", run.FamilyOfficeID, err)
	}

	dir := s.runDir(run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	var firstStub []byte
	for i, emp := range roster {
		if err := ctx.Err(); err != nil {
			return err
		}

		net := models.NetPay(emp.Salary)
		renderStart := s.clock()
		data, err := s.renderer.Render(emp, net, s.clock())
		if err != nil {
			return fmt.Errorf("render stub for employee %d: %w", emp.ID, err)
		}
		if s.metrics != nil {
			s.metrics.StubsRendered.Inc()
			s.metrics.StubRenderLatency.Observe(s.clock().Sub(renderStart).Seconds())
		}

		if err := os.WriteFile(s.stubPath(dir, emp), data, 0o644); err != nil {
			return fmt.Errorf("write stub for employee %d: %w", emp.ID, err)
		}
		if firstStub == nil {
			firstStub = data
		}

		s.observer(run.ID, i+1, len(roster))
		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	var combined string
	if firstStub != nil {
		combined = filepath.Join(dir, "all_pay_stubs.pdf")
		if err := os.WriteFile(combined, firstStub, 0o644); err != nil {
			return fmt.Errorf("write combined pay stubs: %w", err)
		}
	}

	if err := run.Complete(combined, s.clock().UTC()); err != nil {
		return fmt.Errorf("run %d: %w", run.ID, err)
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("mark run %d completed: %w", run.ID, err)
	}
	return nil
}

// fail records the failed state best effort. The original error is what the
// caller sees; persistence problems here are only logged.
func (s *Service) fail(ctx context.Context, run *models.PayrollRun, cause error) {
	s.logger.Error("payroll run failed",
		"run_id", run.ID,
		"family_office_id", run.FamilyOfficeID,
		"error", cause)
	if s.metrics != nil {
		s.metrics.RunsFailed.Inc()
	}
	s.auditor.Publish(ctx, audit.Event{
		FamilyOfficeID: run.FamilyOfficeID,
		Action:         audit.ActionRunFailed,
		Detail:         cause.Error(),
	})

	if err := run.Fail(); err != nil {
		return
	}
	if err := s.runs.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("failed to persist failed run", "run_id", run.ID, "error", err)
	}
}

func (s *Service) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) runDir(run *models.PayrollRun) string {
	return filepath.Join(s.storageDir,
		fmt.Sprintf("family_office_%d", run.FamilyOfficeID),
		fmt.Sprintf("payroll_run_%d", run.ID))
}

func (s *Service) stubPath(dir string, emp *officemodels.Employee) string {
	name := strings.ReplaceAll(emp.Name, " ", "_")
	return filepath.Join(dir, fmt.Sprintf("%d_%s_paystub.pdf", emp.ID, name))
}
