package tolerance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		theoretical string
		declared    string
		tol         Tolerance
		within      bool
		delta       string
		pct         string
	}{
		{name: "equal without bounds", theoretical: "100", declared: "100.001", within: true, delta: "0", pct: "0"},
		{name: "different without bounds", theoretical: "100", declared: "100.01", within: false, delta: "0.01", pct: "0.01"},
		{name: "inside absolute bound", theoretical: "220", declared: "221", tol: Absolute(dec("1")), within: true, delta: "1", pct: "0.45"},
		{name: "outside absolute bound", theoretical: "220", declared: "200", tol: Absolute(dec("1")), within: false, delta: "20", pct: "9.09"},
		{name: "inside percent bound", theoretical: "501.90", declared: "450", tol: Percent(dec("15")), within: true, delta: "51.9", pct: "10.34"},
		{name: "outside percent bound", theoretical: "501.90", declared: "400", tol: Percent(dec("15")), within: false, delta: "101.9", pct: "20.3"},
		{
			name:        "either bound suffices",
			theoretical: "1000",
			declared:    "1040",
			tol:         Tolerance{Absolute: decimal.NewNullDecimal(dec("10")), Percent: decimal.NewNullDecimal(dec("5"))},
			within:      true,
			delta:       "40",
			pct:         "3.85",
		},
		{name: "both zero", theoretical: "0", declared: "0", tol: Percent(dec("10")), within: true, delta: "0", pct: "0"},
		{name: "declared zero", theoretical: "50", declared: "0", tol: Percent(dec("10")), within: false, delta: "50", pct: "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(dec(tt.theoretical), dec(tt.declared), tt.tol)
			assert.Equal(t, tt.within, res.WithinTolerance)
			assert.True(t, dec(tt.delta).Equal(res.Delta), "delta: want %s got %s", tt.delta, res.Delta)
			assert.True(t, dec(tt.pct).Equal(res.DeltaPercent), "pct: want %s got %s", tt.pct, res.DeltaPercent)
		})
	}
}

func TestCompareIsSymmetric(t *testing.T) {
	pairs := [][2]string{{"100", "80"}, {"0", "12.5"}, {"-40", "40"}, {"1234.56", "1234.55"}}
	tol := Tolerance{Absolute: decimal.NewNullDecimal(dec("5")), Percent: decimal.NewNullDecimal(dec("10"))}
	for _, p := range pairs {
		a := Compare(dec(p[0]), dec(p[1]), tol)
		b := Compare(dec(p[1]), dec(p[0]), tol)
		require.Equal(t, a.WithinTolerance, b.WithinTolerance, "pair %v", p)
		assert.True(t, a.Delta.Equal(b.Delta), "pair %v", p)
		assert.True(t, a.DeltaPercent.Equal(b.DeltaPercent), "pair %v", p)
	}
}
