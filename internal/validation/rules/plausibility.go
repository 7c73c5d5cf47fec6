package rules

import (
	"fmt"

	"fiscalcheck/internal/validation/calc"
	"fiscalcheck/internal/validation/models"
)

// CheckPlausibility runs the anomaly heuristics. They are independent of
// the arithmetic checks and mostly catch extraction corruption.
func CheckPlausibility(p *models.Payslip, c Context, rec *Recorder) {
	gross := models.Amount(p.GrossSalary)
	irpef := models.Amount(p.IRPEF)
	inps := models.Amount(p.INPS)
	net := models.Amount(p.NetSalary)

	if net.GreaterThan(gross) {
		rec.Add(models.Issue{
			Code:       models.CodeNetExceedsGross,
			Severity:   models.SeverityHigh,
			Rule:       models.RulePlausibility,
			Message:    fmt.Sprintf("net salary %s is greater than gross %s", money(net), money(gross)),
			Suggestion: "the fields were probably swapped or misread during extraction",
			Details:    map[string]string{"gross": money(gross), "net": money(net)},
		})
	}

	if irpef.IsZero() && calc.Annualize(gross).GreaterThan(c.Tables.NoTaxArea) {
		rec.Add(models.Issue{
			Code:       models.CodeZeroIRPEF,
			Severity:   models.SeverityHigh,
			Rule:       models.RulePlausibility,
			Message:    "IRPEF is zero although income is above the no-tax area",
			Suggestion: "verify the withholding was extracted; zero tax at this income is unusual",
			Details:    map[string]string{"gross": money(gross), "no_tax_area": money(c.Tables.NoTaxArea)},
		})
	}

	if !gross.IsZero() && gross.Equal(irpef) && gross.Equal(inps) && gross.Equal(net) {
		rec.Add(models.Issue{
			Code:       models.CodeIdenticalAmounts,
			Severity:   models.SeverityHigh,
			Rule:       models.RulePlausibility,
			Message:    "gross, IRPEF, INPS and net are all identical",
			Suggestion: "the document was likely misread; re-run extraction",
			Details:    map[string]string{"amount": money(gross)},
		})
	}

	band := c.Tables.Plausibility
	switch {
	case band.MaxMonthlyGross.IsPositive() && gross.GreaterThan(band.MaxMonthlyGross):
		rec.Add(models.Issue{
			Code:       models.CodeSalaryUnusuallyHigh,
			Severity:   models.SeverityInfo,
			Rule:       models.RulePlausibility,
			Message:    fmt.Sprintf("gross salary %s is unusually high", money(gross)),
			Suggestion: "confirm the amount is monthly and not annual",
			Details:    map[string]string{"gross": money(gross), "max": money(band.MaxMonthlyGross)},
		})
	case gross.LessThan(band.MinMonthlyGross):
		rec.Add(models.Issue{
			Code:       models.CodeSalaryUnusuallyLow,
			Severity:   models.SeverityLow,
			Rule:       models.RulePlausibility,
			Message:    fmt.Sprintf("gross salary %s is unusually low", money(gross)),
			Suggestion: "confirm part-time or partial-month employment",
			Details:    map[string]string{"gross": money(gross), "min": money(band.MinMonthlyGross)},
		})
	}
}
