package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
)

// AnalyticsService computes performance, trend and correlation analytics from the stores
type AnalyticsService struct {
	AccountRepo    domain.AccountRepository
	SnapshotRepo   domain.SnapshotRepository
	PreferenceRepo domain.PreferenceRepository
	Currency       *currency.CurrencyService
	now            func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(
	accountRepo domain.AccountRepository,
	snapshotRepo domain.SnapshotRepository,
	preferenceRepo domain.PreferenceRepository,
	currencyService *currency.CurrencyService,
) *AnalyticsService {
	return &AnalyticsService{
		AccountRepo:    accountRepo,
		SnapshotRepo:   snapshotRepo,
		PreferenceRepo: preferenceRepo,
		Currency:       currencyService,
		now:            time.Now,
	}
}

// GetPortfolioAnalytics computes every account's performance within the period and
// aggregates them. Zero accounts yield an empty, zero-valued result.
func (s *AnalyticsService) GetPortfolioAnalytics(ctx context.Context, period domain.TimePeriod) (*PortfolioAnalytics, error) {
	start, end := period.Range(s.now())

	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	perfs := make([]AccountPerformance, 0, len(accounts))
	for _, account := range accounts {
		snapshots, err := s.SnapshotRepo.ListInRange(ctx, account.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots for account %s: %w", account.ID, err)
		}
		perfs = append(perfs, CalculatePerformance(account, snapshots))
	}

	baseCurrency, err := currency.ResolveBaseCurrency(ctx, s.PreferenceRepo)
	if err != nil {
		return nil, err
	}
	rates, err := s.Currency.LoadRates(ctx)
	if err != nil {
		return nil, err
	}

	result := AggregatePerformances(perfs, rates, baseCurrency)
	result.Period = period
	result.Start = start
	result.End = end
	return &result, nil
}

// GetAccountTrend fits a linear trend over the account's snapshots within the period
func (s *AnalyticsService) GetAccountTrend(ctx context.Context, accountID uuid.UUID, period domain.TimePeriod) (*AccountTrend, error) {
	account, snapshots, err := s.accountSnapshots(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	trend := CalculateTrend(account, snapshots)
	return &trend, nil
}

// GetAccountsCorrelation correlates two accounts over the period.
// Returns (nil, nil) when fewer than two time-matched pairs exist.
func (s *AnalyticsService) GetAccountsCorrelation(ctx context.Context, accountAID, accountBID uuid.UUID, period domain.TimePeriod) (*AccountCorrelation, error) {
	accountA, snapshotsA, err := s.accountSnapshots(ctx, accountAID, period)
	if err != nil {
		return nil, err
	}
	accountB, snapshotsB, err := s.accountSnapshots(ctx, accountBID, period)
	if err != nil {
		return nil, err
	}

	return CalculateCorrelation(accountA, accountB, snapshotsA, snapshotsB), nil
}

func (s *AnalyticsService) accountSnapshots(ctx context.Context, accountID uuid.UUID, period domain.TimePeriod) (*domain.Account, []*domain.AccountValueSnapshot, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	start, end := period.Range(s.now())
	snapshots, err := s.SnapshotRepo.ListInRange(ctx, accountID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots for account %s: %w", accountID, err)
	}
	return account, snapshots, nil
}
