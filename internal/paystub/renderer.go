// Package paystub renders one-page PDF pay stubs.
package paystub

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	officemodels "stipend/internal/office/models"
	payrollmodels "stipend/internal/payroll/models"
)

const disclaimer = "This is a computer-generated document."

// Renderer produces pay-stub documents. Deterministic given its inputs.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws a one-page stub for the employee: title, month and year,
// employee name and id, gross salary, deduction, net pay, and a disclaimer.
// Drawing failures propagate to the caller.
func (r *Renderer) Render(employee *officemodels.Employee, netPay decimal.Decimal, now time.Time) ([]byte, error) {
	deduction := payrollmodels.Deduction(employee.Salary)

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(72, 72, "Pay Stub")

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(72, 108, "Date: "+now.Format("January 2006"))

	pdf.Text(72, 144, "Employee: "+employee.Name)
	pdf.Text(72, 166, fmt.Sprintf("Employee ID: %d", employee.ID))

	pdf.Line(72, 180, 540, 180)

	pdf.Text(72, 216, "Earnings:")
	pdf.Text(144, 238, "Gross Salary: $"+formatAmount(employee.Salary))

	pdf.Text(72, 288, "Deductions:")
	pdf.Text(144, 310, "Federal Tax (20%): $"+formatAmount(deduction))

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(72, 360, "Net Pay: $"+formatAmount(netPay))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(72, 720, disclaimer)

	if pdf.Err() {
		return nil, fmt.Errorf("render pay stub: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pay stub: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount renders a decimal with two places and comma-grouped thousands.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
