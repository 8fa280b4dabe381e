package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
)

// SeedResult reports what a Seed run wrote
type SeedResult struct {
	RatesSeeded       int
	PreferencesSeeded bool
}

// SystemSeeder handles seeding of the reference data the computations need
type SystemSeeder struct {
	currency *currency.CurrencyService
	prefs    domain.PreferenceRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(currencyService *currency.CurrencyService, prefs domain.PreferenceRepository) *SystemSeeder {
	return &SystemSeeder{
		currency: currencyService,
		prefs:    prefs,
	}
}

// Seed ensures default exchange rates and preferences exist.
// Logic:
//  1. Default rates are written only when the rate store is empty
//  2. Default preferences are written only when none are stored
//
// Running it again is a no-op.
func (s *SystemSeeder) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	seeded, err := s.currency.InitializeDefaultRates(ctx)
	if err != nil {
		return result, err
	}
	result.RatesSeeded = seeded

	_, err = s.prefs.Get(ctx)
	switch {
	case err == nil:
		// already stored
	case errors.Is(err, domain.ErrNotFound):
		prefs := domain.DefaultPreferences()
		if err := prefs.Validate(); err != nil {
			return result, err
		}
		if err := s.prefs.Save(ctx, &prefs); err != nil {
			return result, fmt.Errorf("failed to save default preferences: %w", err)
		}
		result.PreferencesSeeded = true
	default:
		return result, fmt.Errorf("failed to read preferences: %w", err)
	}

	return result, nil
}
