package regulatory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tablesYAML = `
years:
  - year: 2026
    vat_rates: [0, 4, 5, 10, 22]
    irpef_brackets:
      - {min: 0, max: 28000, rate: 23}
      - {min: 28000, max: 50000, rate: 33}
      - {min: 50000, rate: 43}
    employment_deduction: {base: 1955, reference_income: 15000, phase_out_income: 50000}
    low_income_bonus: {annual_amount: 1200, income_ceiling: 15000}
    no_tax_area: 8500
    inps: {dependent_rate: 9.19, self_employed_rate: 24, flat_rate_rate: 26.07, annual_ceiling: 122000}
    flat_rate: {revenue_ceiling: 85000}
    fringe_benefit: {exempt_ceiling: 1000, exempt_ceiling_with_children: 2000}
    plausibility: {min_monthly_gross: 400, max_monthly_gross: 25000}
    ccnl:
      commercio:
        name: Commercio
        monthly_payments: 14
        annual_overtime_cap: 250
        minimum_wages:
          "1": 1250
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(tablesYAML))
	require.NoError(t, err)

	tables := c.ForYear(2026)
	assert.Equal(t, 2026, tables.Year)
	require.Len(t, tables.IRPEFBrackets, 3)
	assert.True(t, tables.IRPEFBrackets[1].Rate.Equal(decimal.NewFromInt(33)))
	assert.True(t, tables.IRPEFBrackets[2].Unbounded())
	assert.True(t, tables.INPS.AnnualCeiling.Equal(decimal.NewFromInt(122000)))

	sector, ok := tables.Sector("commercio")
	require.True(t, ok)
	minimum, ok := sector.MinimumWage("1")
	require.True(t, ok)
	assert.True(t, minimum.Equal(decimal.NewFromInt(1250)))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("years:\n  - year: 2024\n    vat_ratez: [22]\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidTables(t *testing.T) {
	_, err := Parse([]byte("years:\n  - year: 2024\n    vat_rates: [22]\n"))
	assert.ErrorContains(t, err, "irpef bracket")
}

func TestLoadWithDefaults(t *testing.T) {
	t.Run("empty path keeps built-in tables", func(t *testing.T) {
		c, err := LoadWithDefaults("")
		require.NoError(t, err)
		assert.Equal(t, []int{2023, 2024, 2025}, c.Years())
	})

	t.Run("file years are layered on top", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		require.NoError(t, os.WriteFile(path, []byte(tablesYAML), 0o600))

		c, err := LoadWithDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, []int{2023, 2024, 2025, 2026}, c.Years())
		assert.Equal(t, 2026, c.Latest().Year)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	out, err := Default().EncodeYAML(2024)
	require.NoError(t, err)

	c, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, c.Years())

	original := Default().ForYear(2024)
	decoded := c.ForYear(2024)
	require.Len(t, decoded.IRPEFBrackets, len(original.IRPEFBrackets))
	for i := range original.IRPEFBrackets {
		assert.True(t, original.IRPEFBrackets[i].Min.Equal(decoded.IRPEFBrackets[i].Min))
		assert.Equal(t, original.IRPEFBrackets[i].Unbounded(), decoded.IRPEFBrackets[i].Unbounded())
	}
	assert.Len(t, decoded.CCNL, len(original.CCNL))
}
