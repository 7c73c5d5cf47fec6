// Package tolerance compares a theoretical amount against a declared one.
package tolerance

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tolerance bounds an acceptable difference. A comparison passes when either
// bound is satisfied; with no bound set the rounded values must be equal.
type Tolerance struct {
	Absolute decimal.NullDecimal
	Percent  decimal.NullDecimal
}

// Absolute builds a tolerance with only an absolute bound.
func Absolute(v decimal.Decimal) Tolerance {
	return Tolerance{Absolute: decimal.NewNullDecimal(v)}
}

// Percent builds a tolerance with only a percentage bound.
func Percent(v decimal.Decimal) Tolerance {
	return Tolerance{Percent: decimal.NewNullDecimal(v)}
}

// Result is the outcome of one comparison. Delta is always non-negative.
type Result struct {
	WithinTolerance bool
	Delta           decimal.Decimal
	DeltaPercent    decimal.Decimal
}

// Compare rounds both values to cents, then measures their distance.
// DeltaPercent uses the larger magnitude as base so Compare(a, b) and
// Compare(b, a) agree; it is zero when both values are zero.
func Compare(theoretical, declared decimal.Decimal, tol Tolerance) Result {
	x := theoretical.Round(2)
	y := declared.Round(2)
	delta := x.Sub(y).Abs()

	pct := decimal.Zero
	if base := decimal.Max(x.Abs(), y.Abs()); base.IsPositive() {
		pct = delta.Div(base).Mul(hundred).Round(2)
	}

	res := Result{Delta: delta, DeltaPercent: pct}
	switch {
	case !tol.Absolute.Valid && !tol.Percent.Valid:
		res.WithinTolerance = delta.IsZero()
	default:
		if tol.Absolute.Valid && !delta.GreaterThan(tol.Absolute.Decimal) {
			res.WithinTolerance = true
		}
		if tol.Percent.Valid && !pct.GreaterThan(tol.Percent.Decimal) {
			res.WithinTolerance = true
		}
	}
	return res
}
