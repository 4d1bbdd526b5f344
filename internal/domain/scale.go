package domain

import "github.com/shopspring/decimal"

// Stored precision. Amounts with more fractional digits are rejected at the edge
// rather than rounded by the store.
const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 3
)

// FitsPlaces reports whether d has no significant digits beyond places decimals.
// Trailing zeros do not count: 12.340 fits two places.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
