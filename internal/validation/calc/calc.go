// Package calc computes theoretical tax amounts from regulatory tables.
// Every function is pure and safe for concurrent use.
package calc

import (
	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/regulatory"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Round2 rounds half away from zero to cents.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Percent returns v * rate / 100 rounded to cents.
func Percent(v, rate decimal.Decimal) decimal.Decimal {
	return Round2(v.Mul(rate).Div(hundred))
}

// Annualize multiplies a monthly amount by twelve.
func Annualize(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(twelve)
}

// Monthly divides an annual amount by twelve, rounded to cents.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return Round2(annual.Div(twelve))
}

// ProgressiveTax applies the brackets to an annual taxable amount. Each
// bracket whose Min is below the taxable amount taxes the slice
// min(taxable, Max) - Min at its Rate. Brackets must be ascending and
// contiguous with an unbounded last bracket (see regulatory.Tables.Validate).
func ProgressiveTax(taxable decimal.Decimal, brackets []regulatory.Bracket) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	tax := decimal.Zero
	for _, b := range brackets {
		if !b.Min.LessThan(taxable) {
			break
		}
		upper := taxable
		if !b.Unbounded() && b.Max.Decimal.LessThan(taxable) {
			upper = b.Max.Decimal
		}
		tax = tax.Add(upper.Sub(b.Min).Mul(b.Rate).Div(hundred))
	}
	return Round2(tax)
}

// EmploymentDeduction returns the annual employment deduction: the full base
// up to the reference income, then phased down linearly to zero at the
// phase-out income.
func EmploymentDeduction(annualTaxable decimal.Decimal, rule regulatory.EmploymentDeduction) decimal.Decimal {
	if !annualTaxable.IsPositive() {
		return decimal.Zero
	}
	if !annualTaxable.GreaterThan(rule.ReferenceIncome) {
		return Round2(rule.Base)
	}
	if !annualTaxable.LessThan(rule.PhaseOutIncome) {
		return decimal.Zero
	}
	span := rule.PhaseOutIncome.Sub(rule.ReferenceIncome)
	remaining := rule.PhaseOutIncome.Sub(annualTaxable)
	ded := rule.Base.Mul(remaining).Div(span)
	if ded.IsNegative() {
		return decimal.Zero
	}
	return Round2(ded)
}

// LowIncomeBonus returns the annual flat bonus when income does not exceed
// its ceiling, zero otherwise.
func LowIncomeBonus(annualIncome decimal.Decimal, rule regulatory.LowIncomeBonus) decimal.Decimal {
	if !annualIncome.IsPositive() || annualIncome.GreaterThan(rule.IncomeCeiling) {
		return decimal.Zero
	}
	return rule.AnnualAmount
}

// NetIncomeTax is the annual IRPEF after the employment deduction, floored
// at zero. deduction overrides the table deduction when non-nil.
func NetIncomeTax(annualTaxable decimal.Decimal, t *regulatory.Tables, deduction *decimal.Decimal) decimal.Decimal {
	gross := ProgressiveTax(annualTaxable, t.IRPEFBrackets)
	ded := EmploymentDeduction(annualTaxable, t.EmploymentDeduction)
	if deduction != nil {
		ded = *deduction
	}
	net := gross.Sub(ded)
	if net.IsNegative() {
		return decimal.Zero
	}
	return Round2(net)
}
