package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NUMERIC columns travel as text (`$n::numeric` on write, `col::text` on read) so money
// never passes through float64.

// NumericArg renders an optional decimal as a query argument.
func NumericArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// ParseNumeric parses a NUMERIC column scanned as text.
func ParseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}

// ParseNullableNumeric parses an optional NUMERIC column scanned as text.
func ParseNullableNumeric(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := ParseNumeric(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
