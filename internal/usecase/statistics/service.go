package statistics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
)

var hundred = decimal.NewFromInt(100)

// AccountStatistics summarises one account over a period
type AccountStatistics struct {
	Account      *domain.Account
	CurrentValue decimal.Decimal  // latest snapshot overall, zero when none
	FirstValue   *decimal.Decimal // earliest snapshot inside the period, nil when none
	ValueChange  *decimal.Decimal // nil unless FirstValue exists and is non-zero
	// PercentageChange is nil under the same guard as ValueChange
	PercentageChange *float64
	ValueCount       int
}

// PortfolioStatistics summarises every account, normalised into the base currency
type PortfolioStatistics struct {
	Period                   domain.TimePeriod
	Start                    int64
	End                      int64
	TotalAccounts            int
	TotalValueInBaseCurrency decimal.Decimal
	BaseCurrency             string
	FormattedTotal           string
	Accounts                 []AccountStatistics
}

// AccountInput is the raw data one account contributes to the statistics
type AccountInput struct {
	Account  *domain.Account
	Latest   *domain.AccountValueSnapshot   // nil when the account has no snapshots
	InPeriod []*domain.AccountValueSnapshot // snapshots with start <= ts <= end
}

// StatisticsService computes portfolio statistics from the stores
type StatisticsService struct {
	AccountRepo    domain.AccountRepository
	SnapshotRepo   domain.SnapshotRepository
	PreferenceRepo domain.PreferenceRepository
	Currency       *currency.CurrencyService
	now            func() time.Time
}

// NewStatisticsService creates a new StatisticsService instance
func NewStatisticsService(
	accountRepo domain.AccountRepository,
	snapshotRepo domain.SnapshotRepository,
	preferenceRepo domain.PreferenceRepository,
	currencyService *currency.CurrencyService,
) *StatisticsService {
	return &StatisticsService{
		AccountRepo:    accountRepo,
		SnapshotRepo:   snapshotRepo,
		PreferenceRepo: preferenceRepo,
		Currency:       currencyService,
		now:            time.Now,
	}
}

// GetPortfolioStatistics calculates per-account and portfolio-wide statistics for a period
// Logic:
//   - Resolve the period to [start, now]
//   - For every account load the latest snapshot and the in-period snapshots
//   - Convert each current value into the preferred base currency and sum
func (s *StatisticsService) GetPortfolioStatistics(ctx context.Context, period domain.TimePeriod) (*PortfolioStatistics, error) {
	start, end := period.Range(s.now())

	// 1. Load accounts and their snapshots
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	inputs := make([]AccountInput, 0, len(accounts))
	for _, account := range accounts {
		latest, err := s.SnapshotRepo.GetLatest(ctx, account.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to get latest snapshot for account %s: %w", account.ID, err)
			}
			// No snapshots yet: current value is zero
			latest = nil
		}

		inPeriod, err := s.SnapshotRepo.ListInRange(ctx, account.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots for account %s: %w", account.ID, err)
		}

		inputs = append(inputs, AccountInput{Account: account, Latest: latest, InPeriod: inPeriod})
	}

	// 2. Resolve base currency and rates
	baseCurrency, err := currency.ResolveBaseCurrency(ctx, s.PreferenceRepo)
	if err != nil {
		return nil, err
	}

	rates, err := s.Currency.LoadRates(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Compute
	stats := ComputePortfolioStatistics(inputs, rates, baseCurrency)
	stats.Period = period
	stats.Start = start
	stats.End = end
	return &stats, nil
}

// ComputePortfolioStatistics is the pure aggregation behind GetPortfolioStatistics.
// Zero inputs produce a zero-valued, well-formed result.
func ComputePortfolioStatistics(inputs []AccountInput, rates currency.RateTable, baseCurrency string) PortfolioStatistics {
	result := PortfolioStatistics{
		TotalAccounts:            len(inputs),
		TotalValueInBaseCurrency: decimal.Zero,
		BaseCurrency:             baseCurrency,
		Accounts:                 make([]AccountStatistics, 0, len(inputs)),
	}

	for _, in := range inputs {
		accountStats := ComputeAccountStatistics(in)
		result.Accounts = append(result.Accounts, accountStats)

		converted := rates.Convert(accountStats.CurrentValue, in.Account.Currency, baseCurrency)
		result.TotalValueInBaseCurrency = result.TotalValueInBaseCurrency.Add(converted)
	}

	result.FormattedTotal = currency.Format(result.TotalValueInBaseCurrency, baseCurrency)
	return result
}

// ComputeAccountStatistics summarises one account's snapshots.
// The in-period slice does not need to be sorted.
func ComputeAccountStatistics(in AccountInput) AccountStatistics {
	stats := AccountStatistics{
		Account:      in.Account,
		CurrentValue: decimal.Zero,
		ValueCount:   len(in.InPeriod),
	}
	if in.Latest != nil {
		stats.CurrentValue = in.Latest.Value
	}

	first := earliest(in.InPeriod)
	if first == nil {
		return stats
	}

	firstValue := first.Value
	stats.FirstValue = &firstValue

	if firstValue.IsZero() {
		return stats
	}

	change := stats.CurrentValue.Sub(firstValue)
	pct := change.Div(firstValue).Mul(hundred).InexactFloat64()
	stats.ValueChange = &change
	stats.PercentageChange = &pct

	return stats
}

// earliest returns the snapshot with the smallest timestamp; the first one wins ties
func earliest(snapshots []*domain.AccountValueSnapshot) *domain.AccountValueSnapshot {
	var first *domain.AccountValueSnapshot
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		if first == nil || snap.Timestamp < first.Timestamp {
			first = snap
		}
	}
	return first
}
