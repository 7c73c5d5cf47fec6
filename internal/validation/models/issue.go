package models

// Severity grades an Issue. High is the error class; everything below it
// lands in the warnings bucket.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsError reports whether the severity forces an error status.
func (s Severity) IsError() bool {
	return s == SeverityHigh
}

// Rule names a rule check. Used for Issue.Rule and as perRuleChecks keys.
type Rule string

const (
	RuleStructure        Rule = "structure"
	RuleVATConsistency   Rule = "vat_consistency"
	RuleInvoiceTotal     Rule = "invoice_total"
	RuleRateValidity     Rule = "rate_validity"
	RuleRegime           Rule = "regime_rules"
	RuleZeroRate         Rule = "zero_rate_justification"
	RuleSplitPayment     Rule = "split_payment"
	RulePartyIdentifiers Rule = "party_identifiers"
	RuleIRPEF            Rule = "irpef"
	RulePayrollIRPEF     Rule = "irpef_payroll"
	RuleINPS             Rule = "inps"
	RuleDeductions       Rule = "deductions"
	RuleFringeBenefit    Rule = "fringe_benefit"
	RuleCCNLMinimumWage  Rule = "ccnl_minimum_wage"
	RuleOvertime         Rule = "overtime"
	RuleNetPay           Rule = "net_pay"
	RulePlausibility     Rule = "plausibility"
)

// IssueCode is the fixed vocabulary downstream consumers branch on.
type IssueCode string

const (
	// Structural
	CodeInvalidDocument         IssueCode = "invalid_document"
	CodeUnsupportedDocumentType IssueCode = "unsupported_document_type"

	// Invoice family
	CodeVATMismatch         IssueCode = "vat_mismatch"
	CodeTotalMismatch       IssueCode = "total_mismatch"
	CodeNonStandardVATRate  IssueCode = "non_standard_vat_rate"
	CodeFlatRateVATCharged  IssueCode = "flat_rate_vat_charged"
	CodeFlatRateCeiling     IssueCode = "flat_rate_ceiling_exceeded"
	CodeCashVATSplitPayment IssueCode = "cash_vat_split_payment"
	CodeZeroRateUnjustified IssueCode = "zero_rate_unjustified"
	CodeSplitPaymentVerify  IssueCode = "split_payment_verify"
	CodeInvalidVATNumber    IssueCode = "invalid_vat_number"
	CodeInvalidTaxCode      IssueCode = "invalid_tax_code"

	// Payslip family
	CodeIRPEFMismatch        IssueCode = "irpef_mismatch"
	CodePayrollIRPEFMismatch IssueCode = "irpef_payroll_mismatch"
	CodeINPSMismatch         IssueCode = "inps_mismatch"
	CodeContributionCeiling  IssueCode = "contribution_ceiling_exceeded"
	CodeDeductionsMismatch   IssueCode = "deductions_mismatch"
	CodeFringeBenefitCeiling IssueCode = "fringe_benefit_over_ceiling"
	CodeCCNLUnknown          IssueCode = "ccnl_unknown"
	CodeBelowMinimumWage     IssueCode = "below_minimum_wage"
	CodeAtMinimumWage        IssueCode = "minimum_wage_exact"
	CodeOvertimeOverCap      IssueCode = "overtime_over_cap"
	CodeCalculationError     IssueCode = "calculation_error"
	CodeNetPayDiscrepancy    IssueCode = "net_pay_discrepancy"
	CodeNetExceedsGross      IssueCode = "net_exceeds_gross"
	CodeZeroIRPEF            IssueCode = "zero_irpef"
	CodeIdenticalAmounts     IssueCode = "identical_amounts"
	CodeSalaryUnusuallyHigh  IssueCode = "salary_unusually_high"
	CodeSalaryUnusuallyLow   IssueCode = "salary_unusually_low"
)

// Issue is one finding emitted by a rule check.
type Issue struct {
	Code       IssueCode         `json:"code"`
	Severity   Severity          `json:"severity"`
	Rule       Rule              `json:"rule"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// IsError reports whether the issue belongs to the error class.
func (i Issue) IsError() bool {
	return i.Severity.IsError()
}
