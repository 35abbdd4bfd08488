package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stipend/internal/audit/publisher"
	auditstore "stipend/internal/audit/store"
	officemodels "stipend/internal/office/models"
	officestore "stipend/internal/office/store"
	"stipend/internal/payroll/models"
	payrollstore "stipend/internal/payroll/store"
	dErrors "stipend/pkg/domain-errors"
)

type fakeRenderer struct {
	err      error
	rendered []int64
}

func (f *fakeRenderer) Render(emp *officemodels.Employee, _ decimal.Decimal, _ time.Time) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, emp.ID)
	return []byte("%PDF-1.4 stub for " + emp.Name), nil
}

type recordingDispatcher struct {
	runIDs []int64
	err    error
}

func (d *recordingDispatcher) EnqueueRun(_ context.Context, runID int64) error {
	if d.err != nil {
		return d.err
	}
	d.runIDs = append(d.runIDs, runID)
	return nil
}

type fixture struct {
	svc        *Service
	offices    *officestore.InMemory
	runs       *payrollstore.InMemory
	renderer   *fakeRenderer
	dispatcher *recordingDispatcher
	sink       *auditstore.InMemory
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		offices:    officestore.NewInMemory(),
		runs:       payrollstore.NewInMemory(),
		renderer:   &fakeRenderer{},
		dispatcher: &recordingDispatcher{},
		sink:       auditstore.NewInMemory(),
	}
	f.svc = New(
		f.offices,
		f.runs,
		f.renderer,
		f.dispatcher,
		publisher.New(f.sink),
		nil,
		slog.New(slog.DiscardHandler),
		t.TempDir(),
		opts...,
	)
	return f
}

func (f *fixture) seedOffice(t *testing.T, name string, employees int) (int64, []int64) {
	t.Helper()
	ctx := context.Background()
	office, err := f.offices.CreateOffice(ctx, name)
	require.NoError(t, err)
	ids := make([]int64, 0, employees)
	for i := 0; i < employees; i++ {
		emp, err := f.offices.CreateEmployee(ctx, office.ID, "Employee "+string(rune('A'+i)), decimal.NewFromInt(90000))
		require.NoError(t, err)
		ids = append(ids, emp.ID)
	}
	return office.ID, ids
}

func TestSubmit_CreatesPendingRunAndEnqueues(t *testing.T) {
	f := newFixture(t)
	officeID, ids := f.seedOffice(t, "Smith Family Office", 3)

	run, err := f.svc.Submit(context.Background(), officeID, ids)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, run.Status)
	assert.Equal(t, officeID, run.FamilyOfficeID)
	assert.Equal(t, []int64{run.ID}, f.dispatcher.runIDs)
}

func TestSubmit_RejectsForeignEmployee(t *testing.T) {
	f := newFixture(t)
	smithID, smithIDs := f.seedOffice(t, "Smith Family Office", 2)
	_, jonesIDs := f.seedOffice(t, "Jones Family Office", 1)

	_, err := f.svc.Submit(context.Background(), smithID, append(smithIDs, jonesIDs[0]))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Empty(t, f.dispatcher.runIDs)
}

func TestSubmit_RejectsUnknownEmployee(t *testing.T) {
	f := newFixture(t)
	officeID, ids := f.seedOffice(t, "Smith Family Office", 1)

	_, err := f.svc.Submit(context.Background(), officeID, append(ids, 9999))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmit_RejectsEmptyRequest(t *testing.T) {
	f := newFixture(t)
	officeID, _ := f.seedOffice(t, "Smith Family Office", 1)

	_, err := f.svc.Submit(context.Background(), officeID, nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestExecute_CompletesRunAndWritesArtifacts(t *testing.T) {
	var progress [][2]int
	f := newFixture(t, WithProgressObserver(func(_ int64, current, total int) {
		progress = append(progress, [2]int{current, total})
	}))
	ctx := context.Background()
	officeID, ids := f.seedOffice(t, "Smith Family Office", 3)

	run, err := f.svc.Submit(ctx, officeID, ids[:1])
	require.NoError(t, err)

	require.NoError(t, f.svc.Execute(ctx, run.ID))

	got, err := f.runs.GetRun(ctx, run.ID, officeID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	require.NotEmpty(t, got.PDFPath)
	assert.Equal(t, "all_pay_stubs.pdf", filepath.Base(got.PDFPath))

	// The run covers the whole roster even when fewer ids were submitted.
	assert.Equal(t, ids, f.renderer.rendered)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)

	entries, err := os.ReadDir(filepath.Dir(got.PDFPath))
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	data, err := os.ReadFile(got.PDFPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}

func TestExecute_RendererFailureMarksRunFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officeID, ids := f.seedOffice(t, "Smith Family Office", 2)
	f.renderer.err = errors.New("font corrupted")

	run, err := f.svc.Submit(ctx, officeID, ids)
	require.NoError(t, err)

	require.Error(t, f.svc.Execute(ctx, run.ID))

	got, err := f.runs.GetRun(ctx, run.ID, officeID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Empty(t, got.PDFPath)
	assert.Nil(t, got.CompletedAt)
}

func TestExecute_UnknownRun(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.svc.Execute(context.Background(), 404))
}

func TestGetRun_OtherOfficeLooksAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	smithID, smithIDs := f.seedOffice(t, "Smith Family Office", 1)
	jonesID, _ := f.seedOffice(t, "Jones Family Office", 1)

	run, err := f.svc.Submit(ctx, smithID, smithIDs)
	require.NoError(t, err)

	_, foreignErr := f.svc.GetRun(ctx, run.ID, jonesID)
	_, absentErr := f.svc.GetRun(ctx, run.ID+100, jonesID)
	require.Error(t, foreignErr)
	require.Error(t, absentErr)
	assert.True(t, dErrors.HasCode(foreignErr, dErrors.CodeNotFound))
	assert.Equal(t, absentErr.Error(), foreignErr.Error())
}

func TestArtifactPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officeID, ids := f.seedOffice(t, "Smith Family Office", 1)

	run, err := f.svc.Submit(ctx, officeID, ids)
	require.NoError(t, err)

	_, err = f.svc.ArtifactPath(ctx, run.ID, officeID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "pending run has no artifact")

	require.NoError(t, f.svc.Execute(ctx, run.ID))

	path, err := f.svc.ArtifactPath(ctx, run.ID, officeID)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = f.svc.ArtifactPath(ctx, run.ID, officeID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "missing file reads as not found")
}
