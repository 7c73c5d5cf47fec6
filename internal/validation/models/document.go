package models

import (
	"fmt"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Money is a euro amount. Arithmetic stays in decimal so that comparisons are
// not polluted by binary floating point.
type Money = decimal.Decimal

// DocumentType tags the NormalizedDocument variant.
type DocumentType string

const (
	DocumentInvoice DocumentType = "invoice"
	DocumentPayslip DocumentType = "payslip"
)

// IsValid checks if the document type is one of the supported variants.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentInvoice, DocumentPayslip:
		return true
	}
	return false
}

func (t DocumentType) String() string {
	return string(t)
}

// Document is the normalized record produced by the parsing layer. Exactly one
// of Invoice or Payslip is expected, matching Type.
type Document struct {
	Type       DocumentType   `json:"type"`
	Invoice    *Invoice       `json:"invoice,omitempty"`
	Payslip    *Payslip       `json:"payslip,omitempty"`
	Extraction ExtractionMeta `json:"extraction"`
}

// ExtractionMeta describes how the upstream extractor produced the record.
type ExtractionMeta struct {
	OCRSucceeded bool   `json:"ocrSucceeded"`
	Source       string `json:"source,omitempty"` // "xml", "pdf", "ocr"
}

// Party identifies a supplier, customer or employee.
type Party struct {
	Name      string `json:"name,omitempty"`
	VATNumber string `json:"vatNumber,omitempty"`
	TaxCode   string `json:"taxCode,omitempty"`
}

// Invoice is an electronic invoice reduced to the fields the engine checks.
// VATRate is a percentage (22 means 22%).
type Invoice struct {
	Number        string              `json:"number,omitempty"`
	TaxableAmount decimal.NullDecimal `json:"taxableAmount"`
	VATRate       decimal.NullDecimal `json:"vatRate"`
	VATAmount     decimal.NullDecimal `json:"vatAmount"`
	TotalAmount   decimal.NullDecimal `json:"totalAmount"`
	IssueDate     *openapi_types.Date `json:"issueDate,omitempty"`
	Supplier      Party               `json:"supplier"`
	Customer      Party               `json:"customer"`
}

// Period is the payroll month a payslip refers to.
type Period struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

func (p Period) String() string {
	if p.Year == 0 {
		return ""
	}
	if p.Month == 0 {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// EmployerContext is the contract information printed on the payslip.
type EmployerContext struct {
	Name          string              `json:"name,omitempty"`
	CCNLSector    string              `json:"ccnlSector,omitempty"`
	JobLevel      string              `json:"jobLevel,omitempty"`
	OvertimeHours decimal.NullDecimal `json:"overtimeHours"`
}

// Payslip holds monthly payroll figures.
type Payslip struct {
	Period        Period              `json:"period"`
	Employee      Party               `json:"employee"`
	Employer      EmployerContext     `json:"employer"`
	GrossSalary   decimal.NullDecimal `json:"grossSalary"`
	IRPEF         decimal.NullDecimal `json:"irpef"`
	INPS          decimal.NullDecimal `json:"inps"`
	Deductions    decimal.NullDecimal `json:"deductions"`
	NetSalary     decimal.NullDecimal `json:"netSalary"`
	FringeBenefit decimal.NullDecimal `json:"fringeBenefit"`
}

// Amount returns the declared value or zero when absent.
func Amount(v decimal.NullDecimal) Money {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// Declared wraps a value as present. Handy for building documents in code.
func Declared(v decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(v)
}
