package main

import (
	"context"
	"log/slog"

	"github.com/xraph/dispatch"
	"github.com/xraph/dispatch/engine"
	"github.com/xraph/dispatch/job"
	"github.com/xraph/dispatch/store/memory"
)

const (
	payrollQueue  = "payroll"
	processRunJob = "payroll.process"
)

type runPayload struct {
	RunID int64 `json:"run_id"`
}

// queueDispatcher enqueues payroll runs on the background engine. Runs are
// enqueued without retries: a failed run stays failed and is visible to the
// caller through status polling.
type queueDispatcher struct {
	eng *engine.Engine
}

func (q *queueDispatcher) EnqueueRun(ctx context.Context, runID int64) error {
	_, err := engine.Enqueue(ctx, q.eng, processRunJob, runPayload{RunID: runID},
		job.WithQueue(payrollQueue),
		job.WithMaxRetries(0),
	)
	return err
}

// newEngine builds the in-process job engine backing payroll runs.
func newEngine(concurrency int, logger *slog.Logger) (*engine.Engine, error) {
	d, err := dispatch.New(
		dispatch.WithStore(memory.New()),
		dispatch.WithConcurrency(concurrency),
		dispatch.WithQueues([]string{payrollQueue}),
		dispatch.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return engine.Build(d)
}

// registerJobs binds job names to their handlers. Kept separate from
// newEngine because handlers need services that in turn need the engine.
func registerJobs(eng *engine.Engine, execute func(ctx context.Context, runID int64) error) {
	engine.Register(eng, job.NewDefinition(processRunJob, func(ctx context.Context, p runPayload) error {
		return execute(ctx, p.RunID)
	}))
}
