package regulatory

import (
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func upTo(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func rates(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, d(v))
	}
	return out
}

func wages(pairs ...string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = d(pairs[i+1])
	}
	return out
}

// sectors builds a fresh CCNL map each call so years never share mutable maps.
func sectors() map[string]Sector {
	return map[string]Sector{
		"commercio": {
			Name:              "Commercio, terziario, distribuzione e servizi",
			MonthlyPayments:   14,
			AnnualOvertimeCap: d("250"),
			MinimumWages:      wages("1", "1200", "2", "1350", "3", "1500", "4", "1650", "5", "1800", "6", "2000", "7", "2200"),
		},
		"metalmeccanico": {
			Name:              "Metalmeccanica industria",
			MonthlyPayments:   13,
			AnnualOvertimeCap: d("250"),
			MinimumWages:      wages("D1", "1750", "D2", "1900", "C1", "2000", "C2", "2050", "C3", "2200", "B1", "2300", "B2", "2450", "B3", "2600", "A1", "2850"),
		},
		"edilizia": {
			Name:              "Edilizia industria",
			INPSRate:          upTo("9.49"),
			MonthlyPayments:   13,
			AnnualOvertimeCap: d("250"),
			MinimumWages:      wages("1", "1500", "2", "1700", "3", "1850", "4", "2000", "5", "2150", "6", "2400", "7", "2650"),
		},
		"turismo": {
			Name:              "Turismo, pubblici esercizi",
			MonthlyPayments:   14,
			AnnualOvertimeCap: d("260"),
			MinimumWages:      wages("1", "1150", "2", "1300", "3", "1450", "4", "1600", "5", "1750", "6", "1950", "7", "2150"),
		},
		"trasporti": {
			Name:              "Logistica, trasporto merci e spedizione",
			MonthlyPayments:   14,
			AnnualOvertimeCap: d("250"),
			MinimumWages:      wages("1", "1600", "2", "1750", "3", "1900", "4", "2050", "5", "2200", "6", "2400"),
		},
	}
}

func commonVATRates() []decimal.Decimal {
	return rates("0", "4", "5", "10", "22")
}

func compensationRates() []decimal.Decimal {
	return rates("2", "4", "6.4", "7", "7.3", "7.5", "8", "8.3", "8.8", "9.5", "10", "12.3")
}

func tables2023() Tables {
	return Tables{
		Year:                          2023,
		VATRates:                      commonVATRates(),
		AgriculturalCompensationRates: compensationRates(),
		IRPEFBrackets: []Bracket{
			{Min: d("0"), Max: upTo("15000"), Rate: d("23")},
			{Min: d("15000"), Max: upTo("28000"), Rate: d("25")},
			{Min: d("28000"), Max: upTo("50000"), Rate: d("35")},
			{Min: d("50000"), Rate: d("43")},
		},
		EmploymentDeduction: EmploymentDeduction{Base: d("1880"), ReferenceIncome: d("15000"), PhaseOutIncome: d("50000")},
		LowIncomeBonus:      LowIncomeBonus{AnnualAmount: d("1200"), IncomeCeiling: d("15000")},
		NoTaxArea:           d("8174"),
		INPS:                ContributionRules{DependentRate: d("9.19"), SelfEmployedRate: d("24"), FlatRateRate: d("26.23"), AnnualCeiling: d("113520")},
		FlatRate:            FlatRateRules{RevenueCeiling: d("85000")},
		FringeBenefit:       FringeBenefitRules{ExemptCeiling: d("258.23"), ExemptCeilingWithChildren: d("3000")},
		Plausibility:        PlausibilityBand{MinMonthlyGross: d("400"), MaxMonthlyGross: d("25000")},
		CCNL:                sectors(),
	}
}

func tables2024() Tables {
	return Tables{
		Year:                          2024,
		VATRates:                      commonVATRates(),
		AgriculturalCompensationRates: compensationRates(),
		IRPEFBrackets: []Bracket{
			{Min: d("0"), Max: upTo("28000"), Rate: d("23")},
			{Min: d("28000"), Max: upTo("50000"), Rate: d("35")},
			{Min: d("50000"), Rate: d("43")},
		},
		EmploymentDeduction: EmploymentDeduction{Base: d("1955"), ReferenceIncome: d("15000"), PhaseOutIncome: d("50000")},
		LowIncomeBonus:      LowIncomeBonus{AnnualAmount: d("1200"), IncomeCeiling: d("15000")},
		NoTaxArea:           d("8500"),
		INPS:                ContributionRules{DependentRate: d("9.19"), SelfEmployedRate: d("24"), FlatRateRate: d("26.07"), AnnualCeiling: d("119650")},
		FlatRate:            FlatRateRules{RevenueCeiling: d("85000")},
		FringeBenefit:       FringeBenefitRules{ExemptCeiling: d("1000"), ExemptCeilingWithChildren: d("2000")},
		Plausibility:        PlausibilityBand{MinMonthlyGross: d("400"), MaxMonthlyGross: d("25000")},
		CCNL:                sectors(),
	}
}

func tables2025() Tables {
	t := tables2024()
	t.Year = 2025
	t.INPS.AnnualCeiling = d("120607")
	t.INPS.FlatRateRate = d("26.07")
	return t
}

// Default returns the built-in catalog. Each call builds fresh values.
func Default() *Catalog {
	c, err := NewCatalog(tables2023(), tables2024(), tables2025())
	if err != nil {
		// Built-in tables are covered by tests; reaching this is a programming error.
		panic(err)
	}
	return c
}
