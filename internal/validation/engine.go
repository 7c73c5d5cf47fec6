// Package validation is the fiscal validation engine: it dispatches a
// normalized document to the invoice or payslip rule pipeline and assembles
// the scored report. Service wraps the engine with caching, metrics and
// batching.
package validation

import (
	"time"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/regulatory"
	"fiscalcheck/internal/validation/rules"
	"fiscalcheck/internal/validation/scoring"
)

// Engine is stateless apart from its read-only tables and is safe for
// concurrent use.
type Engine struct {
	catalog    *regulatory.Catalog
	thresholds rules.Thresholds
	now        func() time.Time
}

type EngineOption func(*Engine)

// WithThresholds replaces the default tolerances.
func WithThresholds(t rules.Thresholds) EngineOption {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// WithClock sets the report timestamp source. Tests use a fixed clock.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine builds an engine over catalog. A nil catalog uses the built-in
// tables.
func NewEngine(catalog *regulatory.Catalog, opts ...EngineOption) *Engine {
	if catalog == nil {
		catalog = regulatory.Default()
	}
	e := &Engine{
		catalog:    catalog,
		thresholds: rules.DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog exposes the tables the engine validates against.
func (e *Engine) Catalog() *regulatory.Catalog {
	return e.catalog
}

// Validate checks doc against the rules in force for its regulatory year.
// Findings, including structurally invalid documents, are reported as
// issues; the returned error is reserved for invalid options.
func (e *Engine) Validate(doc models.Document, opts models.Options) (*models.Report, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	tables := e.catalog.ForYear(regulatoryYear(doc, opts))

	if issue, ok := checkStructure(doc); !ok {
		return e.structuralReport(doc, issue, tables.Year), nil
	}

	ctx := rules.Context{Tables: tables, Options: opts, Thresholds: e.thresholds}
	var rec *rules.Recorder
	signals := scoring.Signals{OCRSucceeded: doc.Extraction.OCRSucceeded}
	switch doc.Type {
	case models.DocumentInvoice:
		rec = rules.RunInvoice(doc.Invoice, ctx)
	case models.DocumentPayslip:
		rec = rules.RunPayslip(doc.Payslip, ctx)
		sector, level := rules.Contract(doc.Payslip, opts)
		signals.ContractSupplied = sector != "" && level != ""
	}

	res := scoring.Evaluate(rec.Issues(), signals)
	return &models.Report{
		DocumentType:    doc.Type,
		Status:          res.Status,
		ComplianceLevel: res.ComplianceLevel,
		Score:           res.Score,
		Grade:           res.Grade,
		Issues:          rec.Issues(),
		PerRuleChecks:   rec.Checks(),
		Summary:         res.Summary,
		Timestamp:       e.now().UTC(),
		RegulatoryYear:  tables.Year,
	}, nil
}

// structuralReport skips rule evaluation entirely. The document cannot be
// scored, so the score is pinned at zero.
func (e *Engine) structuralReport(doc models.Document, issue models.Issue, year int) *models.Report {
	issues := []models.Issue{issue}
	return &models.Report{
		DocumentType:    doc.Type,
		Status:          models.StatusError,
		ComplianceLevel: models.ComplianceNonCompliant,
		Score:           0,
		Grade:           scoring.GradeFor(0),
		Issues:          issues,
		PerRuleChecks:   map[models.Rule]models.RuleCheck{},
		Summary:         scoring.Summarize(issues),
		Timestamp:       e.now().UTC(),
		RegulatoryYear:  year,
	}
}

// regulatoryYear picks the pinned year, else the document's own year. Zero
// means latest.
func regulatoryYear(doc models.Document, opts models.Options) int {
	if opts.RegulatoryYear > 0 {
		return opts.RegulatoryYear
	}
	switch {
	case doc.Type == models.DocumentInvoice && doc.Invoice != nil && doc.Invoice.IssueDate != nil:
		return doc.Invoice.IssueDate.Year()
	case doc.Type == models.DocumentPayslip && doc.Payslip != nil:
		return doc.Payslip.Period.Year
	}
	return 0
}
