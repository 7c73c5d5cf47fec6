// Package scoring aggregates issues into a status, a compliance level and a
// 0-100 score. It is a single pass over the issue list.
package scoring

import (
	"fiscalcheck/internal/validation/models"
)

const (
	maxScore = 100
	minScore = 0

	// warningPenalty applies to every issue outside the error class,
	// on top of its severity weight.
	warningPenalty = 2
	signalBonus    = 5

	// partialWarningLimit is the warning count above which compliance
	// drops to partial.
	partialWarningLimit = 2
)

var severityWeight = map[models.Severity]int{
	models.SeverityHigh:   20,
	models.SeverityMedium: 10,
	models.SeverityLow:    5,
	models.SeverityInfo:   0,
}

// Signals is contextual metadata that raises confidence in a document.
type Signals struct {
	ContractSupplied bool // CCNL sector and job level known
	OCRSucceeded     bool
}

// Result is the aggregate verdict.
type Result struct {
	Status          models.Status
	ComplianceLevel models.ComplianceLevel
	Score           int
	Grade           models.Grade
	Summary         models.Summary
}

// Evaluate computes the full aggregate for a set of issues.
func Evaluate(issues []models.Issue, sig Signals) Result {
	score := Score(issues, sig)
	return Result{
		Status:          StatusOf(issues),
		ComplianceLevel: ComplianceOf(issues),
		Score:           score,
		Grade:           GradeFor(score),
		Summary:         Summarize(issues),
	}
}

// Score starts at 100, subtracts severity weights and the per-warning
// penalty, adds signal bonuses and clamps to [0,100].
func Score(issues []models.Issue, sig Signals) int {
	score := maxScore
	for _, issue := range issues {
		score -= severityWeight[issue.Severity]
		if !issue.IsError() {
			score -= warningPenalty
		}
	}
	if sig.ContractSupplied {
		score += signalBonus
	}
	if sig.OCRSucceeded {
		score += signalBonus
	}
	return clamp(score)
}

func clamp(score int) int {
	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}

// Summarize counts the error and warning buckets.
func Summarize(issues []models.Issue) models.Summary {
	var s models.Summary
	for _, issue := range issues {
		if issue.IsError() {
			s.Errors++
		} else {
			s.Warnings++
		}
	}
	return s
}

// StatusOf is error if any issue is in the error class, warning if any
// issue exists, ok otherwise.
func StatusOf(issues []models.Issue) models.Status {
	s := Summarize(issues)
	switch {
	case s.Errors > 0:
		return models.StatusError
	case s.Warnings > 0:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

// ComplianceOf is non-compliant with any error, partial with more than two
// warnings, full otherwise.
func ComplianceOf(issues []models.Issue) models.ComplianceLevel {
	s := Summarize(issues)
	switch {
	case s.Errors > 0:
		return models.ComplianceNonCompliant
	case s.Warnings > partialWarningLimit:
		return models.CompliancePartial
	default:
		return models.ComplianceFull
	}
}

// GradeFor maps a score to its presentation label.
func GradeFor(score int) models.Grade {
	switch {
	case score >= 90:
		return models.GradeExcellent
	case score >= 75:
		return models.GradeGood
	case score >= 60:
		return models.GradeAcceptable
	case score >= 40:
		return models.GradePoor
	default:
		return models.GradeCritical
	}
}
