package currency

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
)

// Format renders amount for display in the given currency (e.g. "$1,545.00").
// Codes unknown to go-money fall back to "<amount> <CODE>" with two decimals.
func Format(amount decimal.Decimal, code string) string {
	code = domain.NormalizeCurrency(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
	}

	// go-money works in minor units
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// IsKnown reports whether code is an ISO currency go-money recognizes
func IsKnown(code string) bool {
	return money.GetCurrency(domain.NormalizeCurrency(code)) != nil
}
