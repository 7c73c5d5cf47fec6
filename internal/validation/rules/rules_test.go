package rules

import (
	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/regulatory"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func amount(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(v))
}

func newContext(opts models.Options) Context {
	normalized, err := opts.Normalize()
	if err != nil {
		panic(err)
	}
	return Context{
		Tables:     regulatory.Default().ForYear(2024),
		Options:    normalized,
		Thresholds: DefaultThresholds(),
	}
}

func invoice(taxable, rate, vat, total string) *models.Invoice {
	return &models.Invoice{
		TaxableAmount: amount(taxable),
		VATRate:       amount(rate),
		VATAmount:     amount(vat),
		TotalAmount:   amount(total),
	}
}

func payslip(gross, irpef, inps, deductions, net string) *models.Payslip {
	p := &models.Payslip{
		GrossSalary: amount(gross),
		IRPEF:       amount(irpef),
		INPS:        amount(inps),
		NetSalary:   amount(net),
	}
	if deductions != "" {
		p.Deductions = amount(deductions)
	}
	return p
}
