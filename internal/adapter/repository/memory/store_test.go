package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/folio-backend/internal/domain"
)

func TestStore_AccountsAndCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := store.Accounts()
	snapshots := store.Snapshots()

	now := time.Now().UTC()
	a := &domain.Account{ID: uuid.New(), Name: "A", Currency: "USD", CreatedAt: now}
	b := &domain.Account{ID: uuid.New(), Name: "B", Currency: "EUR", CreatedAt: now.Add(time.Second)}
	require.NoError(t, accounts.Create(ctx, a))
	require.NoError(t, accounts.Create(ctx, b))
	assert.Error(t, accounts.Create(ctx, a))

	require.NoError(t, snapshots.Create(ctx, &domain.AccountValueSnapshot{ID: uuid.New(), AccountID: a.ID, Value: decimal.NewFromInt(1), Timestamp: 10}))
	require.NoError(t, snapshots.Create(ctx, &domain.AccountValueSnapshot{ID: uuid.New(), AccountID: b.ID, Value: decimal.NewFromInt(2), Timestamp: 20}))

	list, err := accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)

	require.NoError(t, accounts.Delete(ctx, a.ID))
	all, err := snapshots.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].AccountID)

	_, err = accounts.GetByID(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	account := &domain.Account{ID: uuid.New(), Name: "Original", Currency: "USD"}
	require.NoError(t, store.Accounts().Create(ctx, account))

	got, err := store.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := store.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func TestStore_SnapshotQueries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	account := &domain.Account{ID: uuid.New(), Name: "A", Currency: "USD"}
	require.NoError(t, store.Accounts().Create(ctx, account))
	repo := store.Snapshots()

	for _, ts := range []int64{300, 100, 200} {
		require.NoError(t, repo.Create(ctx, &domain.AccountValueSnapshot{
			ID: uuid.New(), AccountID: account.ID, Value: decimal.NewFromInt(ts), Timestamp: ts,
		}))
	}

	inRange, err := repo.ListInRange(ctx, account.ID, 100, 200)
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, int64(100), inRange[0].Timestamp)

	latest, err := repo.GetLatest(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), latest.Timestamp)

	err = repo.Create(ctx, &domain.AccountValueSnapshot{ID: uuid.New(), AccountID: uuid.New(), Timestamp: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = repo.GetLatest(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_RatesAndPreferences(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.ExchangeRates().UpsertAll(ctx, []*domain.ExchangeRate{
		{CurrencyCode: "USD", RateToUSD: decimal.NewFromInt(1)},
		{CurrencyCode: "EUR", RateToUSD: decimal.RequireFromString("1.09")},
	}))
	require.NoError(t, store.ExchangeRates().Upsert(ctx, &domain.ExchangeRate{CurrencyCode: "EUR", RateToUSD: decimal.RequireFromString("1.1")}))

	count, _ := store.ExchangeRates().Count(ctx)
	assert.Equal(t, 2, count)
	eur, err := store.ExchangeRates().Get(ctx, "EUR")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.1").Equal(eur.RateToUSD))

	_, err = store.Preferences().Get(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, store.Preferences().Save(ctx, &domain.Preferences{BaseCurrency: "GBP", Theme: domain.ThemeLight}))
	prefs, err := store.Preferences().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GBP", prefs.BaseCurrency)
}
