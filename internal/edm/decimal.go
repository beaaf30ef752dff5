package edm

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts decimal or exponential literal text (e.g. "-3.4e-1")
// to an arbitrary-precision value without a float64 round trip.
func ParseDecimal(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse '%s' as Edm.Decimal: %w", text, err)
	}
	return d, nil
}

// IsDecimal reports whether text is a valid decimal literal.
func IsDecimal(text string) bool {
	_, err := decimal.NewFromString(text)
	return err == nil
}
