package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/calc"
	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/tolerance"
)

// InvoiceCheck is one independent invoice rule.
type InvoiceCheck func(inv *models.Invoice, c Context, rec *Recorder)

// InvoiceChecks is the invoice pipeline, in report order.
var InvoiceChecks = []InvoiceCheck{
	CheckVATConsistency,
	CheckInvoiceTotal,
	CheckRateValidity,
	CheckRegime,
	CheckSplitPayment,
	CheckInvoiceParties,
}

// RunInvoice applies every invoice check. Required amounts must be present.
func RunInvoice(inv *models.Invoice, c Context) *Recorder {
	rec := NewRecorder()
	for _, check := range InvoiceChecks {
		check(inv, c, rec)
	}
	return rec
}

// expectedVAT is round(taxable * rate / 100, 2).
func expectedVAT(inv *models.Invoice) decimal.Decimal {
	return calc.Percent(models.Amount(inv.TaxableAmount), models.Amount(inv.VATRate))
}

// CheckVATConsistency recomputes VAT from taxable and rate.
func CheckVATConsistency(inv *models.Invoice, c Context, rec *Recorder) {
	computed := expectedVAT(inv)
	declared := models.Amount(inv.VATAmount)
	res := rec.compare(models.RuleVATConsistency, computed, declared, tolerance.Absolute(c.Thresholds.VATAbsolute))
	if res.WithinTolerance {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeVATMismatch,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleVATConsistency,
		Message:    fmt.Sprintf("declared VAT %s differs from computed %s", money(declared), money(computed)),
		Suggestion: "check the VAT rate and the taxable amount on the invoice",
		Details:    comparisonDetails(computed, declared, res),
	})
}

// CheckInvoiceTotal recomputes the total as taxable plus the recomputed VAT.
// Under split payment the customer withholds VAT, so a total equal to the
// taxable amount alone is also accepted.
func CheckInvoiceTotal(inv *models.Invoice, c Context, rec *Recorder) {
	taxable := models.Amount(inv.TaxableAmount)
	computed := taxable.Add(expectedVAT(inv))
	declared := models.Amount(inv.TotalAmount)
	tol := tolerance.Absolute(c.Thresholds.TotalAbsolute)

	if c.Options.SplitPayment {
		if alt := tolerance.Compare(taxable, declared, tol); alt.WithinTolerance {
			rec.Record(models.RuleInvoiceTotal, taxable, declared, alt)
			return
		}
	}

	res := rec.compare(models.RuleInvoiceTotal, computed, declared, tol)
	if res.WithinTolerance {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeTotalMismatch,
		Severity:   models.SeverityMedium,
		Rule:       models.RuleInvoiceTotal,
		Message:    fmt.Sprintf("declared total %s differs from taxable plus VAT %s", money(declared), money(computed)),
		Suggestion: "verify the invoice total and any stamp duty or withholding lines",
		Details:    comparisonDetails(computed, declared, res),
	})
}

// CheckRateValidity flags rates outside the legal set. Regimes may widen the
// set (agricultural compensation rates).
func CheckRateValidity(inv *models.Invoice, c Context, rec *Recorder) {
	rate := models.Amount(inv.VATRate)
	if c.Tables.IsStandardVATRate(rate) {
		return
	}
	if rs, ok := regimeRuleSets[c.Options.TaxRegime]; ok && rs.acceptsRate != nil && rs.acceptsRate(c, rate) {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeNonStandardVATRate,
		Severity:   models.SeverityLow,
		Rule:       models.RuleRateValidity,
		Message:    fmt.Sprintf("VAT rate %s%% is not a standard Italian rate", rate.String()),
		Suggestion: "standard rates are " + rateList(c.Tables.VATRates),
		Details:    map[string]string{"vat_rate": rate.String()},
	})
}

// CheckRegime dispatches to the rule set of the selected tax regime.
func CheckRegime(inv *models.Invoice, c Context, rec *Recorder) {
	rs, ok := regimeRuleSets[c.Options.TaxRegime]
	if !ok {
		return
	}
	for _, check := range rs.checks {
		check(inv, c, rec)
	}
}

// CheckSplitPayment reminds that VAT is paid by the public administration.
func CheckSplitPayment(inv *models.Invoice, c Context, rec *Recorder) {
	if !c.Options.SplitPayment {
		return
	}
	vat := models.Amount(inv.VATAmount)
	if !vat.IsPositive() {
		return
	}
	rec.Add(models.Issue{
		Code:       models.CodeSplitPaymentVerify,
		Severity:   models.SeverityInfo,
		Rule:       models.RuleSplitPayment,
		Message:    "split payment: VAT is settled directly by the public administration",
		Suggestion: "verify the invoice carries the split payment annotation and VAT is not collected",
		Details:    map[string]string{"vat_amount": money(vat)},
	})
}

// CheckInvoiceParties validates supplier and customer identifiers.
func CheckInvoiceParties(inv *models.Invoice, _ Context, rec *Recorder) {
	checkParty(rec, "supplier", inv.Supplier)
	checkParty(rec, "customer", inv.Customer)
}

func rateList(rates []decimal.Decimal) string {
	out := ""
	for i, r := range rates {
		if i > 0 {
			out += ", "
		}
		out += r.String() + "%"
	}
	return out
}
