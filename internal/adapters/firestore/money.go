package firestore

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is stored as decimal strings; Firestore numbers are float64.

func DecimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func ParseNullableDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := ParseDecimal(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
