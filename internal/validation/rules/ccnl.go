package rules

import (
	"fmt"

	"fiscalcheck/internal/validation/models"
)

// CheckMinimumWage looks the contract up in the CCNL tables. Without a
// sector there is nothing to check; an unknown sector or level limits the
// checks and says so.
func CheckMinimumWage(p *models.Payslip, c Context, rec *Recorder) {
	sectorID, level := Contract(p, c.Options)
	if sectorID == "" {
		return
	}
	sector, ok := c.Tables.Sector(sectorID)
	if !ok {
		rec.Add(ccnlUnknown(fmt.Sprintf("CCNL sector %q is not in the tables: limited checks", sectorID), sectorID, level))
		return
	}
	minimum, ok := sector.MinimumWage(level)
	if !ok {
		rec.Add(ccnlUnknown(fmt.Sprintf("job level %q is not defined for CCNL %s: limited checks", level, sectorID), sectorID, level))
		return
	}

	gross := models.Amount(p.GrossSalary).Round(2)
	details := map[string]string{"sector": sectorID, "level": level, "gross": money(gross), "minimum": money(minimum)}
	switch {
	case gross.LessThan(minimum):
		rec.Add(models.Issue{
			Code:       models.CodeBelowMinimumWage,
			Severity:   models.SeverityHigh,
			Rule:       models.RuleCCNLMinimumWage,
			Message:    fmt.Sprintf("gross salary %s is below the %s level %s minimum %s", money(gross), sectorID, level, money(minimum)),
			Suggestion: "verify part-time percentage or the job level; otherwise the salary breaches the contract",
			Details:    details,
		})
	case gross.Equal(minimum):
		rec.Add(models.Issue{
			Code:       models.CodeAtMinimumWage,
			Severity:   models.SeverityLow,
			Rule:       models.RuleCCNLMinimumWage,
			Message:    "gross salary equals the contractual minimum",
			Suggestion: "verify seniority increments and extra allowances are paid",
			Details:    details,
		})
	}
}

func ccnlUnknown(msg, sector, level string) models.Issue {
	return models.Issue{
		Code:       models.CodeCCNLUnknown,
		Severity:   models.SeverityLow,
		Rule:       models.RuleCCNLMinimumWage,
		Message:    msg,
		Suggestion: "supply a known CCNL sector and job level to enable minimum wage checks",
		Details:    map[string]string{"sector": sector, "level": level},
	}
}

// CheckOvertime compares overtime hours with the sector's monthly share of
// the annual cap.
func CheckOvertime(p *models.Payslip, c Context, rec *Recorder) {
	if !p.Employer.OvertimeHours.Valid {
		return
	}
	sectorID, _ := Contract(p, c.Options)
	sector, ok := c.Tables.Sector(sectorID)
	if !ok {
		return
	}
	hours := p.Employer.OvertimeHours.Decimal
	limit := sector.MonthlyOvertimeCap()
	if !hours.GreaterThan(limit) {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeOvertimeOverCap,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleOvertime,
		Message:    fmt.Sprintf("%s overtime hours exceed the monthly cap of %s for %s", hours.String(), limit.String(), sectorID),
		Suggestion: "check the annual overtime total against the contract limit",
		Details:    map[string]string{"sector": sectorID, "hours": hours.String(), "monthly_cap": limit.String()},
	})
}
