package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"fiscalcheck/internal/validation/models"
)

type InvoiceRulesSuite struct {
	suite.Suite
}

func TestInvoiceRulesSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRulesSuite))
}

func (s *InvoiceRulesSuite) TestRunInvoice() {
	tests := []struct {
		name    string
		invoice *models.Invoice
		opts    models.Options
		want    []models.IssueCode
	}{
		{
			name:    "consistent ordinary invoice",
			invoice: invoice("1000", "22", "220", "1220"),
			want:    []models.IssueCode{},
		},
		{
			name:    "differences under one euro are tolerated",
			invoice: invoice("1000", "22", "220.80", "1220.80"),
			want:    []models.IssueCode{},
		},
		{
			name:    "missing VAT breaks VAT and total",
			invoice: invoice("1000", "22", "0", "1000"),
			want:    []models.IssueCode{models.CodeVATMismatch, models.CodeTotalMismatch},
		},
		{
			name:    "non standard rate",
			invoice: invoice("1000", "7", "70", "1070"),
			want:    []models.IssueCode{models.CodeNonStandardVATRate},
		},
		{
			name:    "agricultural compensation rate is accepted",
			invoice: invoice("1000", "6.4", "64", "1064"),
			opts:    models.Options{TaxRegime: models.RegimeAgricultural},
			want:    []models.IssueCode{},
		},
		{
			name:    "zero rate without exemption",
			invoice: invoice("1000", "0", "0", "1000"),
			want:    []models.IssueCode{models.CodeZeroRateUnjustified},
		},
		{
			name:    "zero rate with exemption flag",
			invoice: invoice("1000", "0", "0", "1000"),
			opts:    models.Options{ExemptOperation: true},
			want:    []models.IssueCode{},
		},
		{
			name:    "flat rate without VAT",
			invoice: invoice("1000", "0", "0", "1000"),
			opts:    models.Options{TaxRegime: models.RegimeFlatRate},
			want:    []models.IssueCode{},
		},
		{
			name:    "flat rate charging VAT",
			invoice: invoice("1000", "22", "220", "1220"),
			opts:    models.Options{TaxRegime: models.RegimeFlatRate},
			want:    []models.IssueCode{models.CodeFlatRateVATCharged},
		},
		{
			name:    "flat rate invoice above the revenue ceiling",
			invoice: invoice("90000", "0", "0", "90000"),
			opts:    models.Options{TaxRegime: models.RegimeFlatRate},
			want:    []models.IssueCode{models.CodeFlatRateCeiling},
		},
		{
			name:    "split payment total without VAT",
			invoice: invoice("1000", "22", "220", "1000"),
			opts:    models.Options{SplitPayment: true},
			want:    []models.IssueCode{models.CodeSplitPaymentVerify},
		},
		{
			name:    "cash VAT with split payment",
			invoice: invoice("1000", "22", "220", "1220"),
			opts:    models.Options{TaxRegime: models.RegimeCashVAT, SplitPayment: true},
			want:    []models.IssueCode{models.CodeCashVATSplitPayment, models.CodeSplitPaymentVerify},
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := RunInvoice(tt.invoice, newContext(tt.opts))
			s.Equal(tt.want, rec.Codes())
		})
	}
}

func (s *InvoiceRulesSuite) TestVATConsistencyRecordsComparison() {
	rec := RunInvoice(invoice("1000", "22", "0", "1000"), newContext(models.Options{}))

	check, ok := rec.Checks()[models.RuleVATConsistency]
	s.Require().True(ok)
	s.True(dec("220").Equal(check.Computed))
	s.True(dec("0").Equal(check.Declared))
	s.True(dec("220").Equal(check.Delta))
	s.False(check.WithinTolerance)

	issue := rec.Issues()[0]
	s.Equal(models.SeverityMedium, issue.Severity)
	s.Equal(models.RuleVATConsistency, issue.Rule)
	s.Equal("220.00", issue.Details["computed"])
	s.NotEmpty(issue.Suggestion)
}

func (s *InvoiceRulesSuite) TestSplitPaymentRecordsTaxableTotal() {
	rec := RunInvoice(invoice("1000", "22", "220", "1000"), newContext(models.Options{SplitPayment: true}))

	check := rec.Checks()[models.RuleInvoiceTotal]
	s.True(check.WithinTolerance)
	s.True(dec("1000").Equal(check.Computed))
}

func (s *InvoiceRulesSuite) TestEveryRegimeHasARuleSet() {
	for _, regime := range models.Regimes {
		rs, ok := regimeRuleSets[regime]
		s.True(ok, "missing rule set for %s", regime)
		s.NotEmpty(rs.checks, "empty rule set for %s", regime)
	}
	s.Len(regimeRuleSets, len(models.Regimes))
}

func (s *InvoiceRulesSuite) TestPartyIdentifiers() {
	s.Run("valid identifiers", func() {
		inv := invoice("1000", "22", "220", "1220")
		inv.Supplier = models.Party{VATNumber: "IT12345678901"}
		inv.Customer = models.Party{TaxCode: "rssmra80a01h501u", VATNumber: "12345678901"}
		s.Empty(RunInvoice(inv, newContext(models.Options{})).Issues())
	})

	s.Run("malformed identifiers", func() {
		inv := invoice("1000", "22", "220", "1220")
		inv.Supplier = models.Party{VATNumber: "IT123"}
		inv.Customer = models.Party{TaxCode: "RSSMRA80"}
		rec := RunInvoice(inv, newContext(models.Options{}))
		s.Equal([]models.IssueCode{models.CodeInvalidVATNumber, models.CodeInvalidTaxCode}, rec.Codes())
		s.Equal("supplier", rec.Issues()[0].Details["party"])
		s.Equal("customer", rec.Issues()[1].Details["party"])
	})
}

func TestIdentifierFormats(t *testing.T) {
	tests := []struct {
		id     string
		vat    bool
		taxCod bool
	}{
		{id: "12345678901", vat: true, taxCod: true},
		{id: "IT 123 456 789 01", vat: true, taxCod: false},
		{id: "RSSMRA80A01H501U", vat: false, taxCod: true},
		{id: "1234567890", vat: false, taxCod: false},
		{id: "RSSMRA80A01H501", vat: false, taxCod: false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidVATNumber(tt.id); got != tt.vat {
				t.Errorf("ValidVATNumber(%q) = %v, want %v", tt.id, got, tt.vat)
			}
			if got := ValidTaxCode(tt.id); got != tt.taxCod {
				t.Errorf("ValidTaxCode(%q) = %v, want %v", tt.id, got, tt.taxCod)
			}
		})
	}
}
