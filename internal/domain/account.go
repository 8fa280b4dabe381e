package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a user-tracked account in the domain layer.
// Each account carries its own currency; its value history lives in AccountValueSnapshot rows.
type Account struct {
	ID        uuid.UUID
	Name      string
	Currency  string // ISO-like code, upper-case (e.g. "USD", "EUR")
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCurrency trims and upper-cases a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("account name cannot be empty")
	}

	// A currency without a stored rate is still valid (it converts at identity),
	// but the code itself must look like a currency code.
	if !isCurrencyCode(a.Currency) {
		return errors.New("account currency must be a 3-letter code")
	}

	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
