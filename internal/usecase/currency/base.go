package currency

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/folio-backend/internal/domain"
)

// ResolveBaseCurrency reads the preferred base currency, defaulting to USD when
// no preferences have been stored yet
func ResolveBaseCurrency(ctx context.Context, prefs domain.PreferenceRepository) (string, error) {
	p, err := prefs.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultPreferences().BaseCurrency, nil
		}
		return "", fmt.Errorf("failed to get preferences: %w", err)
	}
	return domain.NormalizeCurrency(p.BaseCurrency), nil
}
