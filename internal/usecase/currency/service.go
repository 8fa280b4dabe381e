package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
)

// CurrencyService handles exchange-rate lookups and conversions
type CurrencyService struct {
	RateRepo domain.ExchangeRateRepository
	now      func() time.Time
}

// NewCurrencyService creates a new CurrencyService instance
func NewCurrencyService(rateRepo domain.ExchangeRateRepository) *CurrencyService {
	return &CurrencyService{
		RateRepo: rateRepo,
		now:      time.Now,
	}
}

// GetRate looks up the stored rate of a currency code.
// Returns an error wrapping domain.ErrNotFound when no rate is stored.
func (s *CurrencyService) GetRate(ctx context.Context, code string) (*domain.ExchangeRate, error) {
	return s.RateRepo.Get(ctx, domain.NormalizeCurrency(code))
}

// LoadRates takes an immutable snapshot of the rate store
func (s *CurrencyService) LoadRates(ctx context.Context) (RateTable, error) {
	rates, err := s.RateRepo.List(ctx)
	if err != nil {
		return RateTable{}, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return NewRateTable(rates), nil
}

// Convert converts amount between two currencies using USD as pivot.
// Logic:
//   - Same code: amount is returned unchanged and the store is not read
//   - Otherwise: amount * rate(from) / rate(to), unknown codes count as 1.0
func (s *CurrencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	table, err := s.LoadRates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Convert(amount, from, to), nil
}

// ConvertMultiple sums amounts held in several currencies into one currency.
// An empty map yields zero without reading the store.
func (s *CurrencyService) ConvertMultiple(ctx context.Context, amountsByCode map[string]decimal.Decimal, to string) (decimal.Decimal, error) {
	if len(amountsByCode) == 0 {
		return decimal.Zero, nil
	}

	table, err := s.LoadRates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return table.ConvertMultiple(amountsByCode, to), nil
}

// InitializeDefaultRates seeds the built-in rate table into an empty store.
// If any rate is already stored nothing is written, so existing rates are never overwritten.
// Returns the number of rates inserted.
func (s *CurrencyService) InitializeDefaultRates(ctx context.Context) (int, error) {
	count, err := s.RateRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count exchange rates: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := s.now().UnixMilli()
	rates := make([]*domain.ExchangeRate, 0, len(DefaultRates))
	for code, value := range DefaultRates {
		rate := &domain.ExchangeRate{
			CurrencyCode: code,
			RateToUSD:    decimal.RequireFromString(value),
			LastUpdated:  now,
		}
		if err := rate.Validate(); err != nil {
			return 0, fmt.Errorf("invalid default rate %s: %w", code, err)
		}
		rates = append(rates, rate)
	}

	if err := s.RateRepo.UpsertAll(ctx, rates); err != nil {
		return 0, fmt.Errorf("failed to seed default exchange rates: %w", err)
	}
	return len(rates), nil
}
