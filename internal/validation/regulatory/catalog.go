package regulatory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Catalog indexes Tables by regulatory year so historical documents can be
// checked against the rules in force when they were issued.
type Catalog struct {
	years  []int
	tables map[int]*Tables
}

// NewCatalog validates and indexes the given tables. Later entries for the
// same year replace earlier ones.
func NewCatalog(tables ...Tables) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("regulatory catalog requires at least one year")
	}
	c := &Catalog{tables: make(map[int]*Tables, len(tables))}
	for i := range tables {
		t := tables[i]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("tables %d: %w", t.Year, err)
		}
		if _, seen := c.tables[t.Year]; !seen {
			c.years = append(c.years, t.Year)
		}
		c.tables[t.Year] = &t
	}
	sort.Ints(c.years)
	return c, nil
}

// Years lists the indexed years in ascending order.
func (c *Catalog) Years() []int {
	out := make([]int, len(c.years))
	copy(out, c.years)
	return out
}

// Latest returns the most recent tables.
func (c *Catalog) Latest() *Tables {
	return c.tables[c.years[len(c.years)-1]]
}

// ForYear returns the tables for year. Years without their own tables fall
// back to the closest earlier year, and years before the first entry use the
// earliest tables. Zero selects the latest year.
func (c *Catalog) ForYear(year int) *Tables {
	if year == 0 {
		return c.Latest()
	}
	if t, ok := c.tables[year]; ok {
		return t
	}
	idx := sort.SearchInts(c.years, year)
	if idx == 0 {
		return c.tables[c.years[0]]
	}
	return c.tables[c.years[idx-1]]
}

// Merge returns a catalog with other's years layered over c's.
func (c *Catalog) Merge(other *Catalog) (*Catalog, error) {
	all := make([]Tables, 0, len(c.years)+len(other.years))
	for _, y := range c.years {
		all = append(all, *c.tables[y])
	}
	for _, y := range other.years {
		all = append(all, *other.tables[y])
	}
	return NewCatalog(all...)
}

// Validate checks the structural invariants the calculators rely on:
// brackets ascending and contiguous, and the last bracket unbounded.
func (t *Tables) Validate() error {
	if t.Year <= 0 {
		return fmt.Errorf("year must be positive")
	}
	if len(t.IRPEFBrackets) == 0 {
		return fmt.Errorf("at least one irpef bracket is required")
	}
	for i, b := range t.IRPEFBrackets {
		last := i == len(t.IRPEFBrackets)-1
		if b.Rate.IsNegative() {
			return fmt.Errorf("bracket %d: negative rate", i)
		}
		if last && !b.Unbounded() {
			return fmt.Errorf("last bracket must be unbounded")
		}
		if !last && b.Unbounded() {
			return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
		}
		if !b.Unbounded() && !b.Max.Decimal.GreaterThan(b.Min) {
			return fmt.Errorf("bracket %d: max must exceed min", i)
		}
		if i == 0 && !b.Min.IsZero() {
			return fmt.Errorf("first bracket must start at zero")
		}
		if i > 0 && !b.Min.Equal(t.IRPEFBrackets[i-1].Max.Decimal) {
			return fmt.Errorf("bracket %d: must start where bracket %d ends", i, i-1)
		}
	}
	ded := t.EmploymentDeduction
	if ded.Base.IsNegative() || !ded.PhaseOutIncome.GreaterThan(ded.ReferenceIncome) {
		return fmt.Errorf("employment deduction: phase-out income must exceed reference income")
	}
	if len(t.VATRates) == 0 {
		return fmt.Errorf("vat rate set must not be empty")
	}
	for id, s := range t.CCNL {
		if s.MonthlyPayments < 12 {
			return fmt.Errorf("ccnl %s: monthly payments must be at least 12", id)
		}
		for level, w := range s.MinimumWages {
			if !w.GreaterThan(decimal.Zero) {
				return fmt.Errorf("ccnl %s level %s: minimum wage must be positive", id, level)
			}
		}
	}
	return nil
}
