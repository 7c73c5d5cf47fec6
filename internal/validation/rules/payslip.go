package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/calc"
	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/regulatory"
	"fiscalcheck/internal/validation/tolerance"
)

var twelve = decimal.NewFromInt(12)

// PayslipCheck is one independent payslip rule.
type PayslipCheck func(p *models.Payslip, c Context, rec *Recorder)

// PayslipChecks is the payslip pipeline, in report order. Checks needing
// CCNL data skip themselves when it is absent.
var PayslipChecks = []PayslipCheck{
	CheckIRPEF,
	CheckPayrollIRPEF,
	CheckINPS,
	CheckDeductions,
	CheckFringeBenefit,
	CheckMinimumWage,
	CheckOvertime,
	CheckNetPay,
	CheckPlausibility,
	CheckEmployee,
}

// RunPayslip applies every payslip check. Required amounts must be present.
func RunPayslip(p *models.Payslip, c Context) *Recorder {
	rec := NewRecorder()
	for _, check := range PayslipChecks {
		check(p, c, rec)
	}
	return rec
}

// Contract resolves the CCNL sector and level. Options win over the employer
// context printed on the payslip.
func Contract(p *models.Payslip, opts models.Options) (sector, level string) {
	sector, level = p.Employer.CCNLSector, p.Employer.JobLevel
	if opts.CCNLSector != "" {
		sector = opts.CCNLSector
	}
	if opts.JobLevel != "" {
		level = opts.JobLevel
	}
	return sector, level
}

// annualDeduction is the yearly employment deduction, or the monthly
// override scaled to a year.
func annualDeduction(annual decimal.Decimal, c Context) decimal.Decimal {
	if o := c.Options.DeductionOverrides.MonthlyEmploymentDeduction; o.Valid {
		return o.Decimal.Mul(twelve)
	}
	return calc.EmploymentDeduction(annual, c.Tables.EmploymentDeduction)
}

// CheckIRPEF validates the monthly income tax against pure tax law: gross
// annualized over twelve months, progressive brackets, minus the employment
// deduction.
func CheckIRPEF(p *models.Payslip, c Context, rec *Recorder) {
	annual := calc.Annualize(models.Amount(p.GrossSalary))
	ded := annualDeduction(annual, c)
	computed := calc.Monthly(calc.NetIncomeTax(annual, c.Tables, &ded))
	declared := models.Amount(p.IRPEF)

	res := rec.compare(models.RuleIRPEF, computed, declared, tolerance.Percent(c.Thresholds.IRPEFPercent))
	if res.WithinTolerance {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeIRPEFMismatch,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleIRPEF,
		Message:    fmt.Sprintf("declared IRPEF %s deviates %s%% from the expected %s", money(declared), res.DeltaPercent.StringFixed(1), money(computed)),
		Suggestion: "check regional and municipal surcharges, family deductions or tax adjustments for the month",
		Details:    comparisonDetails(computed, declared, res),
	})
}

// CheckPayrollIRPEF validates IRPEF against contract expectations: taxable
// income net of the sector's contribution rate, over the sector's number of
// monthly payments. Runs only for a known sector.
func CheckPayrollIRPEF(p *models.Payslip, c Context, rec *Recorder) {
	sectorID, _ := Contract(p, c.Options)
	sector, ok := c.Tables.Sector(sectorID)
	if !ok {
		return
	}
	payments := decimal.NewFromInt(int64(sector.MonthlyPayments))
	gross := models.Amount(p.GrossSalary)
	taxable := gross.Sub(calc.Percent(gross, sectorINPSRate(c, sector)))
	annual := taxable.Mul(payments)
	ded := annualDeduction(annual, c)
	computed := calc.Round2(calc.NetIncomeTax(annual, c.Tables, &ded).Div(payments))
	declared := models.Amount(p.IRPEF)

	res := rec.compare(models.RulePayrollIRPEF, computed, declared, tolerance.Percent(c.Thresholds.PayrollIRPEFPercent))
	if res.WithinTolerance {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodePayrollIRPEFMismatch,
		Severity:   models.SeverityMedium,
		Rule:       models.RulePayrollIRPEF,
		Message:    fmt.Sprintf("declared IRPEF %s deviates from the %s contract expectation %s", money(declared), sectorID, money(computed)),
		Suggestion: fmt.Sprintf("verify the withholding spreads over %d monthly payments", sector.MonthlyPayments),
		Details:    comparisonDetails(computed, declared, res),
	})
}

func sectorINPSRate(c Context, s regulatory.Sector) decimal.Decimal {
	if s.INPSRate.Valid {
		return s.INPSRate.Decimal
	}
	return c.Tables.INPS.DependentRate
}

// ContributionRate picks the INPS rate: flat-rate regime, then
// self-employment, then the CCNL sector override, then the dependent rate.
func ContributionRate(p *models.Payslip, c Context) decimal.Decimal {
	switch {
	case c.Options.TaxRegime == models.RegimeFlatRate:
		return c.Tables.INPS.FlatRateRate
	case c.Options.EmploymentType == models.EmploymentSelfEmployed:
		return c.Tables.INPS.SelfEmployedRate
	}
	sectorID, _ := Contract(p, c.Options)
	if sector, ok := c.Tables.Sector(sectorID); ok && sector.INPSRate.Valid {
		return sector.INPSRate.Decimal
	}
	return c.Tables.INPS.DependentRate
}

// CheckINPS validates social contributions and warns above the yearly
// contribution ceiling.
func CheckINPS(p *models.Payslip, c Context, rec *Recorder) {
	gross := models.Amount(p.GrossSalary)
	declared := models.Amount(p.INPS)
	rate := ContributionRate(p, c)
	computed := calc.Percent(gross, rate)

	res := rec.compare(models.RuleINPS, computed, declared, tolerance.Percent(c.Thresholds.INPSPercent))
	if !res.WithinTolerance && !declaredRateIsStandard(gross, declared, c) {
		rec.Add(models.Issue{
			Code:       models.CodeINPSMismatch,
			Severity:   models.SeverityMedium,
			Rule:       models.RuleINPS,
			Message:    fmt.Sprintf("declared INPS %s deviates from %s at %s%%", money(declared), money(computed), rate.String()),
			Suggestion: "check the contribution scheme and any reduced-rate incentives",
			Details:    comparisonDetails(computed, declared, res),
		})
	}

	annual := calc.Annualize(gross)
	ceiling := c.Tables.INPS.AnnualCeiling
	if ceiling.IsPositive() && annual.GreaterThan(ceiling) {
		rec.Add(models.Issue{
			Code:       models.CodeContributionCeiling,
			Severity:   models.SeverityLow,
			Rule:       models.RuleINPS,
			Message:    fmt.Sprintf("annualized gross %s exceeds the contribution ceiling %s", money(annual), money(ceiling)),
			Suggestion: "contributions stop accruing above the ceiling; verify the payroll applies it",
			Details:    map[string]string{"annual_gross": money(annual), "ceiling": money(ceiling)},
		})
	}
}

// declaredRateIsStandard waives an INPS mismatch when the effective declared
// rate sits close to the dependent-employee rate.
func declaredRateIsStandard(gross, declared decimal.Decimal, c Context) bool {
	if !gross.IsPositive() {
		return false
	}
	effective := declared.Div(gross).Mul(decimal.NewFromInt(100))
	return effective.Sub(c.Tables.INPS.DependentRate).Abs().LessThanOrEqual(c.Thresholds.INPSRateBand)
}

// CheckDeductions compares declared deductions with the employment
// deduction plus the low-income supplement. Zero or absent deductions are
// not checked.
func CheckDeductions(p *models.Payslip, c Context, rec *Recorder) {
	declared := models.Amount(p.Deductions)
	if declared.IsZero() {
		return
	}
	annual := calc.Annualize(models.Amount(p.GrossSalary))
	computed := calc.Monthly(annualDeduction(annual, c))
	if c.Options.Bonuses.LowIncomeSupplementEnabled() {
		computed = computed.Add(calc.Monthly(calc.LowIncomeBonus(annual, c.Tables.LowIncomeBonus)))
	}

	res := rec.compare(models.RuleDeductions, computed, declared, tolerance.Absolute(c.Thresholds.DeductionsAbsolute))
	if res.WithinTolerance {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeDeductionsMismatch,
		Severity:   models.SeverityLow,
		Rule:       models.RuleDeductions,
		Message:    fmt.Sprintf("declared deductions %s differ from the expected %s", money(declared), money(computed)),
		Suggestion: "family deductions are not modelled; pass them as a deduction override if known",
		Details:    comparisonDetails(computed, declared, res),
	})
}

// CheckFringeBenefit flags benefits above the yearly exempt ceiling.
func CheckFringeBenefit(p *models.Payslip, c Context, rec *Recorder) {
	if !p.FringeBenefit.Valid {
		return
	}
	declared := p.FringeBenefit.Decimal
	ceiling := c.Tables.FringeBenefit.ExemptCeiling
	if c.Options.Bonuses.DependentChildren {
		ceiling = c.Tables.FringeBenefit.ExemptCeilingWithChildren
	}
	if !declared.GreaterThan(ceiling) {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeFringeBenefitCeiling,
		Severity:   models.SeverityLow,
		Rule:       models.RuleFringeBenefit,
		Message:    fmt.Sprintf("fringe benefit %s exceeds the exempt ceiling %s", money(declared), money(ceiling)),
		Suggestion: "the whole benefit becomes taxable income once the ceiling is exceeded",
		Details:    map[string]string{"fringe_benefit": money(declared), "ceiling": money(ceiling)},
	})
}

// CheckNetPay reconciles net = gross - irpef - inps + deductions.
func CheckNetPay(p *models.Payslip, c Context, rec *Recorder) {
	computed := models.Amount(p.GrossSalary).
		Sub(models.Amount(p.IRPEF)).
		Sub(models.Amount(p.INPS)).
		Add(models.Amount(p.Deductions))
	declared := models.Amount(p.NetSalary)

	res := rec.compare(models.RuleNetPay, computed, declared, tolerance.Absolute(c.Thresholds.NetPayWarnAbsolute))
	if res.WithinTolerance {
		return
	}
	issue := models.Issue{
		Code:       models.CodeNetPayDiscrepancy,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleNetPay,
		Message:    fmt.Sprintf("declared net %s differs from the reconciled %s", money(declared), money(computed)),
		Suggestion: "look for payroll items not captured by extraction (advances, union fees, other withholdings)",
		Details:    comparisonDetails(computed, declared, res),
	}
	if res.Delta.GreaterThan(c.Thresholds.NetPayErrorAbsolute) {
		issue.Code = models.CodeCalculationError
		issue.Severity = models.SeverityHigh
		issue.Suggestion = "the payslip amounts do not add up; verify gross, withholdings and net"
	}
	rec.Add(issue)
}

// CheckEmployee validates the employee tax code.
func CheckEmployee(p *models.Payslip, _ Context, rec *Recorder) {
	checkParty(rec, "employee", p.Employee)
}
