// Package audit captures key domain actions as append-only events.
// Events are operational only; nothing in the API surface exposes them.
package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time
	FamilyOfficeID int64
	Email          string
	Action         Action
	Detail         string
	// Device is the client description for login events, empty elsewhere.
	Device    string
	RequestID string
}

type Action string

const (
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
	ActionRunSubmitted   Action = "payroll_run_submitted"
	ActionRunCompleted   Action = "payroll_run_completed"
	ActionRunFailed      Action = "payroll_run_failed"
	ActionPDFDownloaded  Action = "pay_stub_downloaded"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
