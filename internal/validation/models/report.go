package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the overall verdict of a report.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ComplianceLevel is the coarse classification of a document.
type ComplianceLevel string

const (
	ComplianceFull         ComplianceLevel = "full"
	CompliancePartial      ComplianceLevel = "partial"
	ComplianceNonCompliant ComplianceLevel = "non-compliant"
)

// Grade is the presentation label derived from the score.
type Grade string

const (
	GradeExcellent  Grade = "excellent"
	GradeGood       Grade = "good"
	GradeAcceptable Grade = "acceptable"
	GradePoor       Grade = "poor"
	GradeCritical   Grade = "critical"
)

// RuleCheck records what a rule computed against what the document declared.
type RuleCheck struct {
	Computed        decimal.Decimal `json:"computed"`
	Declared        decimal.Decimal `json:"declared"`
	Delta           decimal.Decimal `json:"delta"`
	DeltaPercent    decimal.Decimal `json:"deltaPercent"`
	WithinTolerance bool            `json:"withinTolerance"`
}

// Summary counts the two issue buckets.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Report is the engine's structured output. Timestamp is the only field that
// differs between two validations of identical input.
type Report struct {
	DocumentType    DocumentType       `json:"documentType"`
	Status          Status             `json:"status"`
	ComplianceLevel ComplianceLevel    `json:"complianceLevel"`
	Score           int                `json:"score"`
	Grade           Grade              `json:"grade"`
	Issues          []Issue            `json:"issues"`
	PerRuleChecks   map[Rule]RuleCheck `json:"perRuleChecks"`
	Summary         Summary            `json:"summary"`
	Timestamp       time.Time          `json:"timestamp"`
	RegulatoryYear  int                `json:"regulatoryYear"`
}

// HasErrors reports whether the report contains an error-class issue.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.IsError() {
			return true
		}
	}
	return false
}

// IssueCodes lists codes in emission order. Mostly useful in tests and logs.
func (r *Report) IssueCodes() []IssueCode {
	codes := make([]IssueCode, 0, len(r.Issues))
	for _, issue := range r.Issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

// Clone returns a deep copy. Caches hand out clones so callers can't edit
// stored reports.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	if r.Issues != nil {
		c.Issues = make([]Issue, len(r.Issues))
		for i, issue := range r.Issues {
			if issue.Details != nil {
				details := make(map[string]string, len(issue.Details))
				for k, v := range issue.Details {
					details[k] = v
				}
				issue.Details = details
			}
			c.Issues[i] = issue
		}
	}
	if r.PerRuleChecks != nil {
		c.PerRuleChecks = make(map[Rule]RuleCheck, len(r.PerRuleChecks))
		for k, v := range r.PerRuleChecks {
			c.PerRuleChecks[k] = v
		}
	}
	return &c
}
