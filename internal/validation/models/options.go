package models

import (
	dErrors "fiscalcheck/pkg/domain-errors"

	"github.com/shopspring/decimal"
)

// TaxRegime is the closed set of VAT regimes the engine knows rule sets for.
type TaxRegime string

const (
	RegimeOrdinary     TaxRegime = "ordinary"
	RegimeFlatRate     TaxRegime = "flatRate"     // regime forfettario
	RegimeAgricultural TaxRegime = "agricultural" // regime speciale agricolo
	RegimeCashVAT      TaxRegime = "cashVat"      // IVA per cassa
)

// Regimes lists every regime. Rule-set tables are tested against it.
var Regimes = []TaxRegime{RegimeOrdinary, RegimeFlatRate, RegimeAgricultural, RegimeCashVAT}

// IsValid checks if the regime is one of the supported values.
func (r TaxRegime) IsValid() bool {
	switch r {
	case RegimeOrdinary, RegimeFlatRate, RegimeAgricultural, RegimeCashVAT:
		return true
	}
	return false
}

// ParseTaxRegime validates a regime string. Empty means ordinary.
func ParseTaxRegime(s string) (TaxRegime, error) {
	if s == "" {
		return RegimeOrdinary, nil
	}
	r := TaxRegime(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid taxRegime: must be one of ordinary, flatRate, agricultural, cashVat")
	}
	return r, nil
}

// EmploymentType selects the contribution scheme for payslips.
type EmploymentType string

const (
	EmploymentDependent    EmploymentType = "dependent"
	EmploymentSelfEmployed EmploymentType = "selfEmployed"
)

// IsValid checks if the employment type is one of the supported values.
func (e EmploymentType) IsValid() bool {
	return e == EmploymentDependent || e == EmploymentSelfEmployed
}

// ParseEmploymentType validates an employment type string. Empty means dependent.
func ParseEmploymentType(s string) (EmploymentType, error) {
	if s == "" {
		return EmploymentDependent, nil
	}
	e := EmploymentType(s)
	if !e.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid employmentType: must be dependent or selfEmployed")
	}
	return e, nil
}

// DeductionOverrides replaces computed deductions with caller-supplied ones,
// e.g. when family deductions are known.
type DeductionOverrides struct {
	MonthlyEmploymentDeduction decimal.NullDecimal `json:"monthlyEmploymentDeduction"`
}

// BonusFlags toggles optional bonuses and exemptions.
type BonusFlags struct {
	// LowIncomeSupplement enables the trattamento integrativo. Nil means enabled.
	LowIncomeSupplement *bool `json:"lowIncomeSupplement,omitempty"`
	// DependentChildren raises the fringe-benefit exempt ceiling.
	DependentChildren bool `json:"dependentChildren,omitempty"`
}

// LowIncomeSupplementEnabled resolves the nil default.
func (b BonusFlags) LowIncomeSupplementEnabled() bool {
	return b.LowIncomeSupplement == nil || *b.LowIncomeSupplement
}

// Options is the contextual configuration for a single validation.
type Options struct {
	TaxRegime          TaxRegime          `json:"taxRegime,omitempty"`
	EmploymentType     EmploymentType     `json:"employmentType,omitempty"`
	SplitPayment       bool               `json:"splitPayment,omitempty"`
	ExemptOperation    bool               `json:"exemptOperation,omitempty"`
	CCNLSector         string             `json:"ccnlSector,omitempty"`
	JobLevel           string             `json:"jobLevel,omitempty"`
	DeductionOverrides DeductionOverrides `json:"deductionOverrides"`
	Bonuses            BonusFlags         `json:"bonuses"`
	// RegulatoryYear pins the tables; zero derives the year from the document.
	RegulatoryYear int `json:"regulatoryYear,omitempty"`
}

// Normalize fills defaults and rejects values outside the closed enums.
func (o Options) Normalize() (Options, error) {
	regime, err := ParseTaxRegime(string(o.TaxRegime))
	if err != nil {
		return Options{}, err
	}
	employment, err := ParseEmploymentType(string(o.EmploymentType))
	if err != nil {
		return Options{}, err
	}
	if o.RegulatoryYear < 0 {
		return Options{}, dErrors.New(dErrors.CodeValidation, "regulatoryYear must not be negative")
	}
	o.TaxRegime = regime
	o.EmploymentType = employment
	return o, nil
}
