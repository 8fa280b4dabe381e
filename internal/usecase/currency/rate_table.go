package currency

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
)

var one = decimal.NewFromInt(1)

// RateTable is an immutable view of the rate store taken at one point in time.
// Computations load one table and convert every amount against it.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// NewRateTable builds a table from stored rates; later entries win on duplicate codes
func NewRateTable(rates []*domain.ExchangeRate) RateTable {
	m := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		if r == nil {
			continue
		}
		m[domain.NormalizeCurrency(r.CurrencyCode)] = r.RateToUSD
	}
	return RateTable{rates: m}
}

// Rate returns the USD value of one unit of code and whether the code is known
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[domain.NormalizeCurrency(code)]
	return r, ok
}

// rateOrIdentity treats unknown (or unusable) codes as USD-equivalent
func (t RateTable) rateOrIdentity(code string) decimal.Decimal {
	r, ok := t.Rate(code)
	if !ok || !r.IsPositive() {
		return one
	}
	return r
}

// Convert converts amount from one currency to another through USD.
// Identical codes return amount untouched; unknown codes convert at rate 1.
func (t RateTable) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	amountUSD := amount.Mul(t.rateOrIdentity(from))
	return amountUSD.Div(t.rateOrIdentity(to))
}

// ConvertMultiple sums a map of currency code -> amount into a single currency
func (t RateTable) ConvertMultiple(amountsByCode map[string]decimal.Decimal, to string) decimal.Decimal {
	total := decimal.Zero
	for code, amount := range amountsByCode {
		total = total.Add(t.Convert(amount, code, to))
	}
	return total
}

// Len returns the number of known currencies
func (t RateTable) Len() int {
	return len(t.rates)
}
