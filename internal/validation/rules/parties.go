package rules

import (
	"regexp"
	"strings"

	"fiscalcheck/internal/validation/models"
)

var (
	vatNumberPattern   = regexp.MustCompile(`^(IT)?[0-9]{11}$`)
	personCodePattern  = regexp.MustCompile(`^[A-Z0-9]{16}$`)
	companyCodePattern = regexp.MustCompile(`^[0-9]{11}$`)
)

// ValidVATNumber reports whether s looks like an Italian partita IVA.
func ValidVATNumber(s string) bool {
	return vatNumberPattern.MatchString(normalizeID(s))
}

// ValidTaxCode accepts a personal codice fiscale or a company one.
func ValidTaxCode(s string) bool {
	id := normalizeID(s)
	return personCodePattern.MatchString(id) || companyCodePattern.MatchString(id)
}

func normalizeID(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// checkParty validates whichever identifiers the party carries. Absent
// identifiers are not an issue.
func checkParty(rec *Recorder, role string, p models.Party) {
	if p.VATNumber != "" && !ValidVATNumber(p.VATNumber) {
		rec.Add(models.Issue{
			Code:       models.CodeInvalidVATNumber,
			Severity:   models.SeverityLow,
			Rule:       models.RulePartyIdentifiers,
			Message:    role + " VAT number is malformed",
			Suggestion: "an Italian VAT number has 11 digits, optionally prefixed by IT",
			Details:    map[string]string{"party": role, "vat_number": p.VATNumber},
		})
	}
	if p.TaxCode != "" && !ValidTaxCode(p.TaxCode) {
		rec.Add(models.Issue{
			Code:       models.CodeInvalidTaxCode,
			Severity:   models.SeverityLow,
			Rule:       models.RulePartyIdentifiers,
			Message:    role + " tax code is malformed",
			Suggestion: "a tax code has 16 alphanumeric characters, or 11 digits for companies",
			Details:    map[string]string{"party": role, "tax_code": p.TaxCode},
		})
	}
}
