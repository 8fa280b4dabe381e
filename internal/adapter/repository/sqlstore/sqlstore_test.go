package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/folio-backend/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAccount(name, code string) *domain.Account {
	now := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Account{ID: uuid.New(), Name: name, Currency: code, CreatedAt: now, UpdatedAt: now}
}

func newSnapshot(accountID uuid.UUID, ts int64, value string) *domain.AccountValueSnapshot {
	return &domain.AccountValueSnapshot{
		ID:        uuid.New(),
		AccountID: accountID,
		Value:     decimal.RequireFromString(value),
		Timestamp: ts,
	}
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y >= $2", rebindDollar("SELECT a FROM t WHERE x = ? AND y >= ?"))
	assert.Equal(t, "SELECT 1", rebindDollar("SELECT 1"))

	db := &DB{dialect: DialectSQLite}
	assert.Equal(t, "x = ?", db.q("x = ?"))
	db.dialect = DialectPostgres
	assert.Equal(t, "x = $1", db.q("x = ?"))
}

func TestNewSQLite_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "folio.db")

	first, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, DialectSQLite, second.Dialect())
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := newAccount("Brokerage", "EUR")
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account, got)

	account.Name = "Depot"
	account.Currency = "CHF"
	account.UpdatedAt = account.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, account))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Depot", list[0].Name)
	assert.Equal(t, "CHF", list[0].Currency)
	assert.Equal(t, account.UpdatedAt, list[0].UpdatedAt)
}

func TestAccountRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	missing := newAccount("Ghost", "USD")

	_, err := repo.GetByID(ctx, missing.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.True(t, errors.Is(repo.Update(ctx, missing), domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, missing.ID), domain.ErrNotFound))
}

func TestAccountRepository_DeleteCascadesSnapshots(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	accounts := NewAccountRepository(db)
	snapshots := NewSnapshotRepository(db)

	doomed := newAccount("Doomed", "USD")
	kept := newAccount("Kept", "USD")
	require.NoError(t, accounts.Create(ctx, doomed))
	require.NoError(t, accounts.Create(ctx, kept))
	require.NoError(t, snapshots.Create(ctx, newSnapshot(doomed.ID, 1000, "10")))
	require.NoError(t, snapshots.Create(ctx, newSnapshot(doomed.ID, 2000, "20")))
	require.NoError(t, snapshots.Create(ctx, newSnapshot(kept.ID, 1500, "5")))

	require.NoError(t, accounts.Delete(ctx, doomed.ID))

	all, err := snapshots.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].AccountID)
}

func TestSnapshotRepository_Queries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	accounts := NewAccountRepository(db)
	repo := NewSnapshotRepository(db)

	account := newAccount("Savings", "GBP")
	require.NoError(t, accounts.Create(ctx, account))

	note := "year end"
	s1 := newSnapshot(account.ID, 1000, "100.50")
	s2 := newSnapshot(account.ID, 2000, "200.123456789")
	s2.Note = &note
	s3 := newSnapshot(account.ID, 3000, "0")
	for _, s := range []*domain.AccountValueSnapshot{s3, s1, s2} {
		require.NoError(t, repo.Create(ctx, s))
	}

	byAccount, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, byAccount, 3)
	assert.Equal(t, []int64{1000, 2000, 3000}, []int64{byAccount[0].Timestamp, byAccount[1].Timestamp, byAccount[2].Timestamp})

	inRange, err := repo.ListInRange(ctx, account.ID, 1000, 2000)
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.True(t, decimal.RequireFromString("200.123456789").Equal(inRange[1].Value))
	require.NotNil(t, inRange[1].Note)
	assert.Equal(t, "year end", *inRange[1].Note)
	assert.Nil(t, inRange[0].Note)

	latest, err := repo.GetLatest(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, s3.ID, latest.ID)

	s1.Value = decimal.RequireFromString("150")
	require.NoError(t, repo.Update(ctx, s1))
	got, err := repo.GetByID(ctx, s1.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(got.Value))

	require.NoError(t, repo.Delete(ctx, s1.ID))
	_, err = repo.GetByID(ctx, s1.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, s1.ID), domain.ErrNotFound))
}

func TestSnapshotRepository_GetLatestWithoutSnapshots(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	account := newAccount("Empty", "USD")
	require.NoError(t, NewAccountRepository(db).Create(ctx, account))

	_, err := NewSnapshotRepository(db).GetLatest(ctx, account.ID)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExchangeRateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository(newTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.UpsertAll(ctx, []*domain.ExchangeRate{
		{CurrencyCode: "USD", RateToUSD: decimal.NewFromInt(1), LastUpdated: 1},
		{CurrencyCode: "EUR", RateToUSD: decimal.RequireFromString("1.09"), LastUpdated: 1},
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.ExchangeRate{CurrencyCode: "EUR", RateToUSD: decimal.RequireFromString("1.1"), LastUpdated: 2}))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	eur, err := repo.Get(ctx, "EUR")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.1").Equal(eur.RateToUSD))
	assert.Equal(t, int64(2), eur.LastUpdated)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EUR", list[0].CurrencyCode)

	_, err = repo.Get(ctx, "XYZ")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDB(t))

	_, err := repo.Get(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, repo.Save(ctx, &domain.Preferences{BaseCurrency: "USD", Theme: domain.ThemeSystem}))
	require.NoError(t, repo.Save(ctx, &domain.Preferences{BaseCurrency: "EUR", Theme: domain.ThemeDark}))

	prefs, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", prefs.BaseCurrency)
	assert.Equal(t, domain.ThemeDark, prefs.Theme)
}
