// Package models holds the payroll run lifecycle. A run moves
// pending -> processing -> completed | failed; terminal states never
// transition again.
package models

import (
	"time"

	dErrors "stipend/pkg/domain-errors"
)

// Status is the payroll run lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PayrollRun is one batch processing attempt covering a tenant's employees.
// Mutated only by the run engine; the API layer only reads it.
type PayrollRun struct {
	ID             int64
	FamilyOfficeID int64
	Status         Status
	PDFPath        string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// BeginProcessing transitions the run from pending to processing.
func (r *PayrollRun) BeginProcessing() error {
	if r.Status != StatusPending {
		return dErrors.New(dErrors.CodeInternal, "run is not pending")
	}
	r.Status = StatusProcessing
	return nil
}

// Complete marks a processing run as completed with its artifact path.
func (r *PayrollRun) Complete(pdfPath string, now time.Time) error {
	if r.Status != StatusProcessing {
		return dErrors.New(dErrors.CodeInternal, "run is not processing")
	}
	completed := now.UTC()
	r.Status = StatusCompleted
	r.PDFPath = pdfPath
	r.CompletedAt = &completed
	return nil
}

// Fail marks the run as failed. PDFPath stays empty and CompletedAt unset.
func (r *PayrollRun) Fail() error {
	if r.Status.Terminal() {
		return dErrors.New(dErrors.CodeInternal, "run already terminal")
	}
	r.Status = StatusFailed
	return nil
}
