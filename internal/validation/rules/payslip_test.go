package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"fiscalcheck/internal/validation/models"
)

type PayslipRulesSuite struct {
	suite.Suite
}

func TestPayslipRulesSuite(t *testing.T) {
	suite.Run(t, new(PayslipRulesSuite))
}

func (s *PayslipRulesSuite) TestRunPayslip() {
	s.Run("consistent payslip has no issues", func() {
		rec := RunPayslip(payslip("2500", "502", "229.75", "93.10", "1861.35"), newContext(models.Options{}))
		s.Empty(rec.Issues())
		s.Contains(rec.Checks(), models.RuleIRPEF)
		s.Contains(rec.Checks(), models.RuleNetPay)
		s.NotContains(rec.Checks(), models.RulePayrollIRPEF)
	})

	s.Run("low declared IRPEF is a medium mismatch", func() {
		rec := RunPayslip(payslip("2500", "400", "230", "120", "1990"), newContext(models.Options{}))
		s.Equal([]models.IssueCode{models.CodeIRPEFMismatch}, rec.Codes())
		s.Equal(models.SeverityMedium, rec.Issues()[0].Severity)
		s.True(dec("501.91").Equal(rec.Checks()[models.RuleIRPEF].Computed))
	})

	s.Run("net above gross is flagged high", func() {
		rec := RunPayslip(payslip("500", "2500", "230", "", "3000"), newContext(models.Options{}))
		s.Contains(rec.Codes(), models.CodeNetExceedsGross)
		s.Contains(rec.Codes(), models.CodeCalculationError)
	})
}

func (s *PayslipRulesSuite) TestIRPEFOverride() {
	ctx := newContext(models.Options{
		DeductionOverrides: models.DeductionOverrides{MonthlyEmploymentDeduction: amount("250")},
	})
	rec := NewRecorder()
	CheckIRPEF(payslip("2500", "345", "229.75", "", "1925.25"), ctx, rec)

	// (7140 - 3000) / 12
	s.True(dec("345").Equal(rec.Checks()[models.RuleIRPEF].Computed))
	s.Empty(rec.Issues())
}

func (s *PayslipRulesSuite) TestPayrollIRPEF() {
	ctx := newContext(models.Options{CCNLSector: "commercio", JobLevel: "4"})

	s.Run("within contract expectation", func() {
		rec := NewRecorder()
		CheckPayrollIRPEF(payslip("2000", "320", "183.80", "", "1496.20"), ctx, rec)
		s.True(dec("319.68").Equal(rec.Checks()[models.RulePayrollIRPEF].Computed))
		s.Empty(rec.Issues())
	})

	s.Run("outside contract expectation", func() {
		rec := NewRecorder()
		CheckPayrollIRPEF(payslip("2000", "250", "183.80", "", "1566.20"), ctx, rec)
		s.Equal([]models.IssueCode{models.CodePayrollIRPEFMismatch}, rec.Codes())
	})

	s.Run("skipped for unknown sector", func() {
		rec := NewRecorder()
		CheckPayrollIRPEF(payslip("2000", "250", "183.80", "", "1566.20"), newContext(models.Options{CCNLSector: "nope"}), rec)
		s.Empty(rec.Checks())
		s.Empty(rec.Issues())
	})
}

func (s *PayslipRulesSuite) TestContributionRate() {
	tests := []struct {
		name string
		opts models.Options
		want string
	}{
		{name: "dependent default", opts: models.Options{}, want: "9.19"},
		{name: "sector override", opts: models.Options{CCNLSector: "edilizia"}, want: "9.49"},
		{name: "self employed", opts: models.Options{EmploymentType: models.EmploymentSelfEmployed, CCNLSector: "edilizia"}, want: "24"},
		{name: "flat rate wins", opts: models.Options{TaxRegime: models.RegimeFlatRate, EmploymentType: models.EmploymentSelfEmployed}, want: "26.07"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := ContributionRate(payslip("2000", "0", "0", "", "0"), newContext(tt.opts))
			s.True(dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func (s *PayslipRulesSuite) TestINPS() {
	s.Run("mismatch", func() {
		rec := NewRecorder()
		CheckINPS(payslip("2000", "300", "50", "", "1650"), newContext(models.Options{}), rec)
		s.Equal([]models.IssueCode{models.CodeINPSMismatch}, rec.Codes())
	})

	s.Run("waived when the declared rate is the dependent standard", func() {
		rec := NewRecorder()
		opts := models.Options{EmploymentType: models.EmploymentSelfEmployed}
		CheckINPS(payslip("2000", "300", "183.80", "", "1516.20"), newContext(opts), rec)
		s.False(rec.Checks()[models.RuleINPS].WithinTolerance)
		s.Empty(rec.Issues())
	})

	s.Run("annual ceiling exceeded", func() {
		rec := NewRecorder()
		CheckINPS(payslip("12000", "4000", "1102.80", "", "6897.20"), newContext(models.Options{}), rec)
		s.Equal([]models.IssueCode{models.CodeContributionCeiling}, rec.Codes())
		s.Equal(models.SeverityLow, rec.Issues()[0].Severity)
	})
}

func (s *PayslipRulesSuite) TestDeductions() {
	disabled := false
	tests := []struct {
		name     string
		declared string
		opts     models.Options
		want     []models.IssueCode
		computed string
	}{
		{name: "zero deductions are not checked", declared: "0", want: []models.IssueCode{}},
		{name: "employment deduction plus supplement", declared: "262.92", want: []models.IssueCode{}, computed: "262.92"},
		{
			name:     "supplement disabled",
			declared: "262.92",
			opts:     models.Options{Bonuses: models.BonusFlags{LowIncomeSupplement: &disabled}},
			want:     []models.IssueCode{models.CodeDeductionsMismatch},
			computed: "162.92",
		},
		{
			name:     "override replaces the employment deduction",
			declared: "400",
			opts:     models.Options{DeductionOverrides: models.DeductionOverrides{MonthlyEmploymentDeduction: amount("300")}},
			want:     []models.IssueCode{},
			computed: "400",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := NewRecorder()
			CheckDeductions(payslip("1000", "0", "91.90", tt.declared, "908.10"), newContext(tt.opts), rec)
			s.Equal(tt.want, rec.Codes())
			if tt.computed == "" {
				s.NotContains(rec.Checks(), models.RuleDeductions)
				return
			}
			s.True(dec(tt.computed).Equal(rec.Checks()[models.RuleDeductions].Computed))
		})
	}
}

func (s *PayslipRulesSuite) TestFringeBenefit() {
	p := payslip("2500", "500", "229.75", "", "1770.25")
	p.FringeBenefit = amount("1500")

	rec := NewRecorder()
	CheckFringeBenefit(p, newContext(models.Options{}), rec)
	s.Equal([]models.IssueCode{models.CodeFringeBenefitCeiling}, rec.Codes())

	rec = NewRecorder()
	CheckFringeBenefit(p, newContext(models.Options{Bonuses: models.BonusFlags{DependentChildren: true}}), rec)
	s.Empty(rec.Issues())
}

func (s *PayslipRulesSuite) TestMinimumWage() {
	tests := []struct {
		name   string
		gross  string
		sector string
		level  string
		want   []models.IssueCode
	}{
		{name: "no sector skips the check", gross: "1000", want: []models.IssueCode{}},
		{name: "below minimum", gross: "1000", sector: "commercio", level: "1", want: []models.IssueCode{models.CodeBelowMinimumWage}},
		{name: "exactly the minimum", gross: "1200", sector: "commercio", level: "1", want: []models.IssueCode{models.CodeAtMinimumWage}},
		{name: "above minimum", gross: "1300", sector: "commercio", level: "1", want: []models.IssueCode{}},
		{name: "unknown sector", gross: "1300", sector: "pesca", level: "1", want: []models.IssueCode{models.CodeCCNLUnknown}},
		{name: "unknown level", gross: "1300", sector: "commercio", level: "99", want: []models.IssueCode{models.CodeCCNLUnknown}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := NewRecorder()
			opts := models.Options{CCNLSector: tt.sector, JobLevel: tt.level}
			CheckMinimumWage(payslip(tt.gross, "0", "0", "", "0"), newContext(opts), rec)
			s.Equal(tt.want, rec.Codes())
		})
	}

	s.Run("options take precedence over the employer context", func() {
		p := payslip("2000", "0", "0", "", "0")
		p.Employer = models.EmployerContext{CCNLSector: "commercio", JobLevel: "1"}

		rec := NewRecorder()
		CheckMinimumWage(p, newContext(models.Options{JobLevel: "7"}), rec)
		s.Equal([]models.IssueCode{models.CodeBelowMinimumWage}, rec.Codes())
		s.Equal("7", rec.Issues()[0].Details["level"])
		s.Equal(models.SeverityHigh, rec.Issues()[0].Severity)
	})
}

func (s *PayslipRulesSuite) TestOvertime() {
	withHours := func(hours string) *models.Payslip {
		p := payslip("2000", "0", "0", "", "0")
		p.Employer = models.EmployerContext{CCNLSector: "commercio", JobLevel: "3", OvertimeHours: amount(hours)}
		return p
	}

	rec := NewRecorder()
	CheckOvertime(withHours("25"), newContext(models.Options{}), rec)
	s.Equal([]models.IssueCode{models.CodeOvertimeOverCap}, rec.Codes())
	s.Equal("20.83", rec.Issues()[0].Details["monthly_cap"])

	rec = NewRecorder()
	CheckOvertime(withHours("20"), newContext(models.Options{}), rec)
	s.Empty(rec.Issues())
}

func (s *PayslipRulesSuite) TestNetPay() {
	tests := []struct {
		name     string
		net      string
		want     []models.IssueCode
		severity models.Severity
	}{
		{name: "within ten euros", net: "1866", want: []models.IssueCode{}},
		{name: "soft discrepancy", net: "1890", want: []models.IssueCode{models.CodeNetPayDiscrepancy}, severity: models.SeverityMedium},
		{name: "hard discrepancy", net: "1950", want: []models.IssueCode{models.CodeCalculationError}, severity: models.SeverityHigh},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := NewRecorder()
			// expected net: 2500 - 502 - 229.75 + 93.10 = 1861.35
			CheckNetPay(payslip("2500", "502", "229.75", "93.10", tt.net), newContext(models.Options{}), rec)
			s.Equal(tt.want, rec.Codes())
			if len(tt.want) > 0 {
				s.Equal(tt.severity, rec.Issues()[0].Severity)
			}
		})
	}
}

func (s *PayslipRulesSuite) TestPlausibility() {
	tests := []struct {
		name    string
		payslip *models.Payslip
		want    []models.IssueCode
	}{
		{name: "ordinary salary", payslip: payslip("2500", "502", "229.75", "", "1768.25"), want: []models.IssueCode{}},
		{name: "net above gross", payslip: payslip("1000", "100", "91.90", "", "1200"), want: []models.IssueCode{models.CodeNetExceedsGross}},
		{name: "zero IRPEF above the no-tax area", payslip: payslip("2000", "0", "183.80", "", "1816.20"), want: []models.IssueCode{models.CodeZeroIRPEF}},
		{name: "zero IRPEF inside the no-tax area", payslip: payslip("600", "0", "55.14", "", "544.86"), want: []models.IssueCode{}},
		{name: "identical amounts", payslip: payslip("1000", "1000", "1000", "", "1000"), want: []models.IssueCode{models.CodeIdenticalAmounts}},
		{name: "unusually high", payslip: payslip("30000", "12000", "2757", "", "15243"), want: []models.IssueCode{models.CodeSalaryUnusuallyHigh}},
		{name: "unusually low", payslip: payslip("300", "0", "27.57", "", "272.43"), want: []models.IssueCode{models.CodeSalaryUnusuallyLow}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := NewRecorder()
			CheckPlausibility(tt.payslip, newContext(models.Options{}), rec)
			s.Equal(tt.want, rec.Codes())
		})
	}
}
