package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fiscalcheck/internal/validation/models"
)

type field struct {
	name  string
	value decimal.NullDecimal
}

// checkStructure reports the first structural defect of doc. ok is false
// when the document cannot be evaluated.
func checkStructure(doc models.Document) (models.Issue, bool) {
	switch doc.Type {
	case models.DocumentInvoice:
		if doc.Invoice == nil {
			return invalidDocument("invoice payload is missing", nil), false
		}
		return checkInvoiceStructure(doc.Invoice)
	case models.DocumentPayslip:
		if doc.Payslip == nil {
			return invalidDocument("payslip payload is missing", nil), false
		}
		return checkPayslipStructure(doc.Payslip)
	default:
		return models.Issue{
			Code:       models.CodeUnsupportedDocumentType,
			Severity:   models.SeverityHigh,
			Rule:       models.RuleStructure,
			Message:    fmt.Sprintf("document type %q is not supported", doc.Type),
			Suggestion: "supported types are invoice and payslip",
			Details:    map[string]string{"type": string(doc.Type)},
		}, false
	}
}

func checkInvoiceStructure(inv *models.Invoice) (models.Issue, bool) {
	if issue, ok := requireFields(
		field{"taxableAmount", inv.TaxableAmount},
		field{"vatRate", inv.VATRate},
		field{"vatAmount", inv.VATAmount},
		field{"totalAmount", inv.TotalAmount},
	); !ok {
		return issue, false
	}
	if inv.VATRate.Decimal.IsNegative() {
		return invalidDocument("vatRate must not be negative", map[string]string{"vatRate": inv.VATRate.Decimal.String()}), false
	}
	return models.Issue{}, true
}

func checkPayslipStructure(p *models.Payslip) (models.Issue, bool) {
	if issue, ok := requireFields(
		field{"grossSalary", p.GrossSalary},
		field{"irpef", p.IRPEF},
		field{"inps", p.INPS},
		field{"netSalary", p.NetSalary},
	); !ok {
		return issue, false
	}
	if p.GrossSalary.Decimal.IsNegative() {
		return invalidDocument("grossSalary must not be negative", map[string]string{"grossSalary": p.GrossSalary.Decimal.String()}), false
	}
	if m := p.Period.Month; m != 0 && (m < 1 || m > 12) {
		return invalidDocument("period month must be between 1 and 12", map[string]string{"month": fmt.Sprint(m)}), false
	}
	return models.Issue{}, true
}

func requireFields(fields ...field) (models.Issue, bool) {
	var missing []string
	for _, f := range fields {
		if !f.value.Valid {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return models.Issue{}, true
	}
	list := strings.Join(missing, ",")
	return invalidDocument("required fields are missing: "+list, map[string]string{"missing": list}), false
}

func invalidDocument(msg string, details map[string]string) models.Issue {
	return models.Issue{
		Code:       models.CodeInvalidDocument,
		Severity:   models.SeverityHigh,
		Rule:       models.RuleStructure,
		Message:    msg,
		Suggestion: "re-run extraction or complete the missing data before validating",
		Details:    details,
	}
}
