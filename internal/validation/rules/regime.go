package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/models"
)

// regimeRules is the rule set carried by one tax regime.
type regimeRules struct {
	// acceptsRate widens the standard VAT rate set.
	acceptsRate func(c Context, rate decimal.Decimal) bool
	checks      []InvoiceCheck
}

// regimeRuleSets must have an entry for every models.Regimes value.
var regimeRuleSets = map[models.TaxRegime]regimeRules{
	models.RegimeOrdinary: {
		checks: []InvoiceCheck{checkZeroRate},
	},
	// The regime itself is the exemption basis, so zero rates need no check.
	models.RegimeFlatRate: {
		checks: []InvoiceCheck{checkFlatRateVAT, checkFlatRateCeiling},
	},
	models.RegimeAgricultural: {
		acceptsRate: func(c Context, rate decimal.Decimal) bool {
			return c.Tables.IsCompensationRate(rate)
		},
		checks: []InvoiceCheck{checkZeroRate},
	},
	models.RegimeCashVAT: {
		checks: []InvoiceCheck{checkZeroRate, checkCashVATSplitPayment},
	},
}

func checkZeroRate(inv *models.Invoice, c Context, rec *Recorder) {
	if c.Options.ExemptOperation || !models.Amount(inv.VATRate).IsZero() {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeZeroRateUnjustified,
		Severity:   models.SeverityLow,
		Rule:       models.RuleZeroRate,
		Message:    "VAT rate is 0% but the operation is not flagged as exempt",
		Suggestion: "verify the exemption basis (nature code and legal reference) on the invoice",
	})
}

func checkFlatRateVAT(inv *models.Invoice, _ Context, rec *Recorder) {
	rate := models.Amount(inv.VATRate)
	vat := models.Amount(inv.VATAmount)
	if !rate.IsPositive() && !vat.IsPositive() {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeFlatRateVATCharged,
		Severity:   models.SeverityHigh,
		Rule:       models.RuleRegime,
		Message:    "flat-rate taxpayers cannot charge VAT",
		Suggestion: "reissue the invoice without VAT, citing the flat-rate regime exemption",
		Details:    map[string]string{"vat_rate": rate.String(), "vat_amount": money(vat)},
	})
}

// checkFlatRateCeiling compares a single invoice against the annual revenue
// ceiling. It only catches invoices that alone break the ceiling; aggregated
// yearly revenue is not available to the engine.
func checkFlatRateCeiling(inv *models.Invoice, c Context, rec *Recorder) {
	taxable := models.Amount(inv.TaxableAmount)
	ceiling := c.Tables.FlatRate.RevenueCeiling
	if !taxable.GreaterThan(ceiling) {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeFlatRateCeiling,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleRegime,
		Message:    fmt.Sprintf("taxable amount %s exceeds the flat-rate revenue ceiling %s", money(taxable), money(ceiling)),
		Suggestion: "check whether the taxpayer still qualifies for the flat-rate regime",
		Details:    map[string]string{"taxable": money(taxable), "ceiling": money(ceiling)},
	})
}

func checkCashVATSplitPayment(_ *models.Invoice, c Context, rec *Recorder) {
	if !c.Options.SplitPayment {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeCashVATSplitPayment,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleRegime,
		Message:    "cash-accounting VAT does not apply to split payment operations",
		Suggestion: "remove the cash VAT annotation or the split payment flag",
	})
}
