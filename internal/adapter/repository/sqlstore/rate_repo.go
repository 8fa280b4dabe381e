package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
)

// exchangeRateRepository implements domain.ExchangeRateRepository
type exchangeRateRepository struct {
	db *DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *DB) domain.ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

const upsertRateQuery = `
	INSERT INTO exchange_rates (currency_code, rate_to_usd, last_updated)
	VALUES (?, ?, ?)
	ON CONFLICT (currency_code) DO UPDATE SET
		rate_to_usd = excluded.rate_to_usd,
		last_updated = excluded.last_updated
`

func scanRate(row rowScanner) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	var rateStr string
	if err := row.Scan(&rate.CurrencyCode, &rateStr, &rate.LastUpdated); err != nil {
		return nil, err
	}

	value, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate_to_usd: %w", err)
	}
	rate.RateToUSD = value
	return &rate, nil
}

func (r *exchangeRateRepository) List(ctx context.Context) ([]*domain.ExchangeRate, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`SELECT currency_code, rate_to_usd, last_updated FROM exchange_rates ORDER BY currency_code`))
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	rates := []*domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}
	return rates, nil
}

func (r *exchangeRateRepository) Get(ctx context.Context, code string) (*domain.ExchangeRate, error) {
	query := `SELECT currency_code, rate_to_usd, last_updated FROM exchange_rates WHERE currency_code = ?`

	rate, err := scanRate(r.db.QueryRowContext(ctx, r.db.q(query), code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exchange rate %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return rate, nil
}

func (r *exchangeRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	_, err := r.db.ExecContext(ctx, r.db.q(upsertRateQuery), rate.CurrencyCode, rate.RateToUSD.String(), rate.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate %s: %w", rate.CurrencyCode, err)
	}
	return nil
}

// UpsertAll writes every rate in a single transaction
func (r *exchangeRateRepository) UpsertAll(ctx context.Context, rates []*domain.ExchangeRate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.db.q(upsertRateQuery))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rate := range rates {
		if _, err := stmt.ExecContext(ctx, rate.CurrencyCode, rate.RateToUSD.String(), rate.LastUpdated); err != nil {
			return fmt.Errorf("failed to upsert exchange rate %s: %w", rate.CurrencyCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *exchangeRateRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, r.db.q(`SELECT COUNT(*) FROM exchange_rates`)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exchange rates: %w", err)
	}
	return count, nil
}
