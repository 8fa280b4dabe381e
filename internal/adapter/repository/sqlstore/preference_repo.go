package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/folio-backend/internal/domain"
)

// preferencesRowID is the id of the single preferences row
const preferencesRowID = 1

// preferenceRepository implements domain.PreferenceRepository
type preferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *DB) domain.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context) (*domain.Preferences, error) {
	query := `SELECT base_currency, theme FROM preferences WHERE id = ?`

	var prefs domain.Preferences
	err := r.db.QueryRowContext(ctx, r.db.q(query), preferencesRowID).Scan(&prefs.BaseCurrency, &prefs.Theme)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

func (r *preferenceRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	query := `
		INSERT INTO preferences (id, base_currency, theme)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			base_currency = excluded.base_currency,
			theme = excluded.theme
	`

	if _, err := r.db.ExecContext(ctx, r.db.q(query), preferencesRowID, prefs.BaseCurrency, string(prefs.Theme)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
