package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BaseRateCurrency is the pivot currency every stored rate is expressed against
const BaseRateCurrency = "USD"

// ExchangeRate holds the value of one unit of CurrencyCode in US dollars.
// There is exactly one active row per currency code; USD is always 1.
type ExchangeRate struct {
	CurrencyCode string
	RateToUSD    decimal.Decimal
	LastUpdated  int64 // epoch millis
}

// Validate ensures the rate adheres to domain rules
func (r *ExchangeRate) Validate() error {
	if !isCurrencyCode(r.CurrencyCode) {
		return errors.New("exchange rate currency must be a 3-letter code")
	}

	if !r.RateToUSD.IsPositive() {
		return errors.New("exchange rate must be positive")
	}

	if r.CurrencyCode == BaseRateCurrency && !r.RateToUSD.Equal(decimal.NewFromInt(1)) {
		return errors.New("USD rate must be 1")
	}

	return nil
}
