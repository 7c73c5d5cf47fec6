// Package regulatory holds the versioned Italian tax and payroll tables the
// validation engine reads. Tables are plain data: they are built once and
// shared read-only between concurrent validations.
package regulatory

import (
	"github.com/shopspring/decimal"
)

// Bracket is one progressive-tax band. Max is unbounded when not Valid.
// Rate is a percentage.
type Bracket struct {
	Min  decimal.Decimal     `yaml:"min" json:"min"`
	Max  decimal.NullDecimal `yaml:"max,omitempty" json:"max"`
	Rate decimal.Decimal     `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return !b.Max.Valid
}

// EmploymentDeduction is the detrazione per lavoro dipendente: Base up to
// ReferenceIncome, then linearly down to zero at PhaseOutIncome.
type EmploymentDeduction struct {
	Base            decimal.Decimal `yaml:"base" json:"base"`
	ReferenceIncome decimal.Decimal `yaml:"reference_income" json:"reference_income"`
	PhaseOutIncome  decimal.Decimal `yaml:"phase_out_income" json:"phase_out_income"`
}

// LowIncomeBonus is the flat trattamento integrativo.
type LowIncomeBonus struct {
	AnnualAmount  decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	IncomeCeiling decimal.Decimal `yaml:"income_ceiling" json:"income_ceiling"`
}

// ContributionRules are INPS rates (percentages) and the yearly massimale.
type ContributionRules struct {
	DependentRate    decimal.Decimal `yaml:"dependent_rate" json:"dependent_rate"`
	SelfEmployedRate decimal.Decimal `yaml:"self_employed_rate" json:"self_employed_rate"`
	FlatRateRate     decimal.Decimal `yaml:"flat_rate_rate" json:"flat_rate_rate"`
	AnnualCeiling    decimal.Decimal `yaml:"annual_ceiling" json:"annual_ceiling"`
}

// FlatRateRules cover the regime forfettario.
type FlatRateRules struct {
	RevenueCeiling decimal.Decimal `yaml:"revenue_ceiling" json:"revenue_ceiling"`
}

// FringeBenefitRules hold the yearly exempt ceilings.
type FringeBenefitRules struct {
	ExemptCeiling             decimal.Decimal `yaml:"exempt_ceiling" json:"exempt_ceiling"`
	ExemptCeilingWithChildren decimal.Decimal `yaml:"exempt_ceiling_with_children" json:"exempt_ceiling_with_children"`
}

// PlausibilityBand bounds monthly gross salaries considered ordinary.
type PlausibilityBand struct {
	MinMonthlyGross decimal.Decimal `yaml:"min_monthly_gross" json:"min_monthly_gross"`
	MaxMonthlyGross decimal.Decimal `yaml:"max_monthly_gross" json:"max_monthly_gross"`
}

// Sector is one CCNL with its minimum wages by job level.
type Sector struct {
	Name string `yaml:"name" json:"name"`
	// INPSRate overrides the dependent contribution rate when Valid.
	INPSRate          decimal.NullDecimal        `yaml:"inps_rate,omitempty" json:"inps_rate"`
	MonthlyPayments   int                        `yaml:"monthly_payments" json:"monthly_payments"`
	AnnualOvertimeCap decimal.Decimal            `yaml:"annual_overtime_cap" json:"annual_overtime_cap"`
	MinimumWages      map[string]decimal.Decimal `yaml:"minimum_wages" json:"minimum_wages"`
}

// MonthlyOvertimeCap spreads the annual cap evenly over twelve months.
func (s Sector) MonthlyOvertimeCap() decimal.Decimal {
	return s.AnnualOvertimeCap.Div(decimal.NewFromInt(12)).Round(2)
}

// MinimumWage looks up the minimum monthly gross for a level.
func (s Sector) MinimumWage(level string) (decimal.Decimal, bool) {
	w, ok := s.MinimumWages[level]
	return w, ok
}

// Tables is the complete rule data in force for one regulatory year.
type Tables struct {
	Year                          int                 `yaml:"year" json:"year"`
	VATRates                      []decimal.Decimal   `yaml:"vat_rates" json:"vat_rates"`
	AgriculturalCompensationRates []decimal.Decimal   `yaml:"agricultural_compensation_rates" json:"agricultural_compensation_rates"`
	IRPEFBrackets                 []Bracket           `yaml:"irpef_brackets" json:"irpef_brackets"`
	EmploymentDeduction           EmploymentDeduction `yaml:"employment_deduction" json:"employment_deduction"`
	LowIncomeBonus                LowIncomeBonus      `yaml:"low_income_bonus" json:"low_income_bonus"`
	NoTaxArea                     decimal.Decimal     `yaml:"no_tax_area" json:"no_tax_area"`
	INPS                          ContributionRules   `yaml:"inps" json:"inps"`
	FlatRate                      FlatRateRules       `yaml:"flat_rate" json:"flat_rate"`
	FringeBenefit                 FringeBenefitRules  `yaml:"fringe_benefit" json:"fringe_benefit"`
	Plausibility                  PlausibilityBand    `yaml:"plausibility" json:"plausibility"`
	CCNL                          map[string]Sector   `yaml:"ccnl" json:"ccnl"`
}

// IsStandardVATRate reports whether rate belongs to the ordinary rate set.
func (t *Tables) IsStandardVATRate(rate decimal.Decimal) bool {
	return containsRate(t.VATRates, rate)
}

// IsCompensationRate reports whether rate is an agricultural compensation rate.
func (t *Tables) IsCompensationRate(rate decimal.Decimal) bool {
	return containsRate(t.AgriculturalCompensationRates, rate)
}

// Sector resolves a CCNL sector id.
func (t *Tables) Sector(id string) (Sector, bool) {
	s, ok := t.CCNL[id]
	return s, ok
}

func containsRate(rates []decimal.Decimal, rate decimal.Decimal) bool {
	for _, r := range rates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}
