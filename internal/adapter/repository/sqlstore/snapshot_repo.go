package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

const snapshotColumns = `id, account_id, value, recorded_at, note`

func scanSnapshot(row rowScanner) (*domain.AccountValueSnapshot, error) {
	var snapshot domain.AccountValueSnapshot
	var valueStr string
	var note sql.NullString

	if err := row.Scan(&snapshot.ID, &snapshot.AccountID, &valueStr, &snapshot.Timestamp, &note); err != nil {
		return nil, err
	}

	// value is stored as TEXT to keep full decimal precision
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}
	snapshot.Value = value

	if note.Valid {
		n := note.String
		snapshot.Note = &n
	}
	return &snapshot, nil
}

func (r *snapshotRepository) list(ctx context.Context, query string, args ...any) ([]*domain.AccountValueSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*domain.AccountValueSnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// ListByAccount returns an account's snapshots ordered by time ascending
func (r *snapshotRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.AccountValueSnapshot, error) {
	return r.list(ctx,
		`SELECT `+snapshotColumns+` FROM account_value_snapshots WHERE account_id = ? ORDER BY recorded_at`,
		accountID.String(),
	)
}

func (r *snapshotRepository) ListAll(ctx context.Context) ([]*domain.AccountValueSnapshot, error) {
	return r.list(ctx, `SELECT `+snapshotColumns+` FROM account_value_snapshots ORDER BY account_id, recorded_at`)
}

// ListInRange returns snapshots with start <= recorded_at <= end, ascending
func (r *snapshotRepository) ListInRange(ctx context.Context, accountID uuid.UUID, start, end int64) ([]*domain.AccountValueSnapshot, error) {
	return r.list(ctx,
		`SELECT `+snapshotColumns+` FROM account_value_snapshots
		 WHERE account_id = ? AND recorded_at >= ? AND recorded_at <= ?
		 ORDER BY recorded_at`,
		accountID.String(), start, end,
	)
}

// GetLatest retrieves the most recent snapshot of an account
func (r *snapshotRepository) GetLatest(ctx context.Context, accountID uuid.UUID) (*domain.AccountValueSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM account_value_snapshots
		WHERE account_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, r.db.q(query), accountID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no snapshot found for account %s: %w", accountID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountValueSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM account_value_snapshots WHERE id = ?`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, r.db.q(query), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get snapshot by ID: %w", err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *domain.AccountValueSnapshot) error {
	query := `
		INSERT INTO account_value_snapshots (id, account_id, value, recorded_at, note)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.db.q(query),
		snapshot.ID.String(),
		snapshot.AccountID.String(),
		snapshot.Value.String(),
		snapshot.Timestamp,
		nullString(snapshot.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Update(ctx context.Context, snapshot *domain.AccountValueSnapshot) error {
	query := `UPDATE account_value_snapshots SET value = ?, recorded_at = ?, note = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.q(query),
		snapshot.Value.String(),
		snapshot.Timestamp,
		nullString(snapshot.Note),
		snapshot.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}
	return expectOneRow(result, "snapshot", snapshot.ID)
}

func (r *snapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, r.db.q(`DELETE FROM account_value_snapshots WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return expectOneRow(result, "snapshot", id)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
