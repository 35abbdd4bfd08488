package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetPay(t *testing.T) {
	tests := []struct {
		gross string
		net   string
	}{
		{"0", "0"},
		{"100", "80"},
		{"75000", "60000"},
		{"50000.50", "40000.40"},
		{"0.05", "0.04"},
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.gross)
			net := NetPay(gross)
			assert.True(t, net.Equal(decimal.RequireFromString(tt.net)),
				"net pay of %s: got %s, want %s", tt.gross, net, tt.net)
			// Net plus deduction always reconstructs gross to the cent.
			assert.True(t, net.Add(Deduction(gross)).Equal(gross.Round(2)))
		})
	}
}

func TestRunLifecycle_HappyPath(t *testing.T) {
	run := &PayrollRun{ID: 1, FamilyOfficeID: 1, Status: StatusPending}

	require.NoError(t, run.BeginProcessing())
	assert.Equal(t, StatusProcessing, run.Status)

	now := time.Now()
	require.NoError(t, run.Complete("/storage/family_office_1/payroll_run_1/all_pay_stubs.pdf", now))
	assert.Equal(t, StatusCompleted, run.Status)
	assert.NotEmpty(t, run.PDFPath)
	require.NotNil(t, run.CompletedAt)
	assert.WithinDuration(t, now, *run.CompletedAt, time.Second)
}

func TestRunLifecycle_FailFromProcessing(t *testing.T) {
	run := &PayrollRun{Status: StatusProcessing}

	require.NoError(t, run.Fail())
	assert.Equal(t, StatusFailed, run.Status)
	assert.Empty(t, run.PDFPath)
	assert.Nil(t, run.CompletedAt)
}

func TestRunLifecycle_TerminalStatesAreFinal(t *testing.T) {
	completed := &PayrollRun{Status: StatusCompleted}
	assert.Error(t, completed.BeginProcessing())
	assert.Error(t, completed.Fail())

	failed := &PayrollRun{Status: StatusFailed}
	assert.Error(t, failed.Complete("x.pdf", time.Now()))
	assert.Error(t, failed.Fail())
}

func TestRunLifecycle_CompleteRequiresProcessing(t *testing.T) {
	run := &PayrollRun{Status: StatusPending}
	assert.Error(t, run.Complete("x.pdf", time.Now()))
}
