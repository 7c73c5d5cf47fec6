// Package rules holds the independent rule checks for invoices and payslips.
// Checks are pure domain logic: they read the document, the options and the
// regulatory tables, and record issues. No I/O, no shared state.
package rules

import (
	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/regulatory"
	"fiscalcheck/internal/validation/tolerance"
)

// Thresholds are the tolerances the checks compare with. Percentages are
// expressed as 15 for 15%.
type Thresholds struct {
	VATAbsolute         decimal.Decimal
	TotalAbsolute       decimal.Decimal
	IRPEFPercent        decimal.Decimal
	PayrollIRPEFPercent decimal.Decimal
	INPSPercent         decimal.Decimal
	INPSRateBand        decimal.Decimal // percentage points around the dependent rate
	DeductionsAbsolute  decimal.Decimal
	NetPayWarnAbsolute  decimal.Decimal
	NetPayErrorAbsolute decimal.Decimal
}

// DefaultThresholds returns the tolerances used in production.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VATAbsolute:         decimal.NewFromInt(1),
		TotalAbsolute:       decimal.NewFromInt(1),
		IRPEFPercent:        decimal.NewFromInt(15),
		PayrollIRPEFPercent: decimal.NewFromInt(10),
		INPSPercent:         decimal.NewFromInt(25),
		INPSRateBand:        decimal.RequireFromString("0.5"),
		DeductionsAbsolute:  decimal.NewFromInt(50),
		NetPayWarnAbsolute:  decimal.NewFromInt(10),
		NetPayErrorAbsolute: decimal.NewFromInt(50),
	}
}

// Context is everything a check may read besides the document itself.
// Options must already be normalized.
type Context struct {
	Tables     *regulatory.Tables
	Options    models.Options
	Thresholds Thresholds
}

// Recorder accumulates the output of a pipeline run. It is not safe for
// concurrent use; each validation owns one.
type Recorder struct {
	issues []models.Issue
	checks map[models.Rule]models.RuleCheck
}

func NewRecorder() *Recorder {
	return &Recorder{
		issues: []models.Issue{},
		checks: map[models.Rule]models.RuleCheck{},
	}
}

// Add appends an issue.
func (r *Recorder) Add(issue models.Issue) {
	r.issues = append(r.issues, issue)
}

// Record stores the computed-vs-declared outcome of a rule.
func (r *Recorder) Record(rule models.Rule, computed, declared decimal.Decimal, res tolerance.Result) {
	r.checks[rule] = models.RuleCheck{
		Computed:        computed.Round(2),
		Declared:        declared.Round(2),
		Delta:           res.Delta,
		DeltaPercent:    res.DeltaPercent,
		WithinTolerance: res.WithinTolerance,
	}
}

// Issues returns the issues in emission order.
func (r *Recorder) Issues() []models.Issue {
	return r.issues
}

// Checks returns the per-rule comparisons.
func (r *Recorder) Checks() map[models.Rule]models.RuleCheck {
	return r.checks
}

// Codes lists the emitted issue codes in order.
func (r *Recorder) Codes() []models.IssueCode {
	codes := make([]models.IssueCode, 0, len(r.issues))
	for _, issue := range r.issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

// compare runs the comparator and records the outcome under rule.
func (r *Recorder) compare(rule models.Rule, computed, declared decimal.Decimal, tol tolerance.Tolerance) tolerance.Result {
	res := tolerance.Compare(computed, declared, tol)
	r.Record(rule, computed, declared, res)
	return res
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func comparisonDetails(computed, declared decimal.Decimal, res tolerance.Result) map[string]string {
	return map[string]string{
		"computed":      money(computed),
		"declared":      money(declared),
		"delta":         money(res.Delta),
		"delta_percent": res.DeltaPercent.StringFixed(2),
	}
}
