package ratesync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/events"
)

// Quotes is a feed snapshot: units of each currency per one unit of Base
type Quotes struct {
	Base      string
	Rates     map[string]decimal.Decimal
	Timestamp int64 // epoch millis, 0 when the feed does not say
}

// QuoteSource fetches the latest quotes from an external feed
type QuoteSource interface {
	Latest(ctx context.Context) (*Quotes, error)
}

// RefreshResult reports what a refresh stored
type RefreshResult struct {
	Updated int
	Skipped []string
}

// Refresher pulls quotes from a feed and stores them as rates to USD
type Refresher struct {
	source   QuoteSource
	rateRepo domain.ExchangeRateRepository
	events   events.Publisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewRefresher(source QuoteSource, rateRepo domain.ExchangeRateRepository, publisher events.Publisher, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		source:   source,
		rateRepo: rateRepo,
		events:   publisher,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh fetches quotes and upserts them in one batch.
// Logic:
//  1. rate_to_usd(c) = quote(USD) / quote(c), quote(base) = 1
//  2. Non-positive or malformed quotes are skipped
//  3. USD is always stored as exactly 1
func (r *Refresher) Refresh(ctx context.Context) (RefreshResult, error) {
	var result RefreshResult

	quotes, err := r.source.Latest(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	rates, skipped, err := ToRates(quotes, r.now().UnixMilli())
	if err != nil {
		return result, err
	}
	result.Skipped = skipped

	if err := r.rateRepo.UpsertAll(ctx, rates); err != nil {
		return result, fmt.Errorf("failed to store exchange rates: %w", err)
	}
	result.Updated = len(rates)

	if len(skipped) > 0 {
		r.logger.Warn("skipped invalid quotes", zap.Strings("codes", skipped))
	}
	r.logger.Info("exchange rates refreshed",
		zap.Int("updated", result.Updated),
		zap.String("feed_base", quotes.Base),
	)

	if r.events != nil {
		r.events.Publish(events.Event{Kind: events.RatesUpdated, EntityID: domain.BaseRateCurrency})
	}
	return result, nil
}

// Run refreshes and only logs failures. Used as the scheduled job.
func (r *Refresher) Run(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("exchange rate refresh failed", zap.Error(err))
	}
}

// ToRates converts feed quotes into validated rates to USD, sorted by code.
// It returns the codes it had to skip.
func ToRates(quotes *Quotes, updatedAt int64) ([]*domain.ExchangeRate, []string, error) {
	if quotes == nil {
		return nil, nil, errors.New("quotes must not be nil")
	}
	if quotes.Timestamp > 0 {
		updatedAt = quotes.Timestamp
	}

	base := domain.NormalizeCurrency(quotes.Base)
	if base == "" {
		base = domain.BaseRateCurrency
	}

	byCode := make(map[string]decimal.Decimal, len(quotes.Rates)+1)
	for code, q := range quotes.Rates {
		byCode[domain.NormalizeCurrency(code)] = q
	}
	byCode[base] = decimal.NewFromInt(1)

	usdQuote, ok := byCode[domain.BaseRateCurrency]
	if !ok || !usdQuote.IsPositive() {
		return nil, nil, fmt.Errorf("feed base %s has no usable USD quote", base)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var skipped []string
	rates := make([]*domain.ExchangeRate, 0, len(codes))
	for _, code := range codes {
		rate := &domain.ExchangeRate{CurrencyCode: code, LastUpdated: updatedAt}
		if code == domain.BaseRateCurrency {
			rate.RateToUSD = decimal.NewFromInt(1)
		} else {
			q := byCode[code]
			if !q.IsPositive() {
				skipped = append(skipped, code)
				continue
			}
			rate.RateToUSD = usdQuote.Div(q)
		}
		if err := rate.Validate(); err != nil {
			skipped = append(skipped, code)
			continue
		}
		rates = append(rates, rate)
	}
	return rates, skipped, nil
}
