package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// List retrieves all accounts ordered by name
	List(ctx context.Context) ([]*Account, error)

	// GetByID retrieves an account by its ID
	// Returns an error wrapping ErrNotFound when the account does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Update persists name/currency/updated-at changes of an existing account
	Update(ctx context.Context, account *Account) error

	// Delete removes an account and all of its snapshots
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnapshotRepository defines the interface for account value snapshot persistence operations
type SnapshotRepository interface {
	// ListByAccount retrieves all snapshots of an account ordered by timestamp ascending
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*AccountValueSnapshot, error)

	// ListAll retrieves every snapshot across all accounts ordered by timestamp ascending
	ListAll(ctx context.Context) ([]*AccountValueSnapshot, error)

	// GetLatest retrieves the most recent snapshot of an account
	// Returns an error wrapping ErrNotFound when the account has no snapshots
	GetLatest(ctx context.Context, accountID uuid.UUID) (*AccountValueSnapshot, error)

	// ListInRange retrieves snapshots of an account with start <= timestamp <= end,
	// ordered by timestamp ascending
	ListInRange(ctx context.Context, accountID uuid.UUID, start, end int64) ([]*AccountValueSnapshot, error)

	// GetByID retrieves a snapshot by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*AccountValueSnapshot, error)

	// Create creates a new snapshot
	Create(ctx context.Context, snapshot *AccountValueSnapshot) error

	// Update persists value/note changes of an existing snapshot
	Update(ctx context.Context, snapshot *AccountValueSnapshot) error

	// Delete removes a snapshot
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExchangeRateRepository defines the interface for exchange rate persistence operations
type ExchangeRateRepository interface {
	// List retrieves all stored rates
	List(ctx context.Context) ([]*ExchangeRate, error)

	// Get retrieves the rate of a currency code
	// Returns an error wrapping ErrNotFound when no rate is stored
	Get(ctx context.Context, code string) (*ExchangeRate, error)

	// Upsert inserts or replaces the rate of rate.CurrencyCode
	Upsert(ctx context.Context, rate *ExchangeRate) error

	// UpsertAll inserts or replaces several rates atomically
	UpsertAll(ctx context.Context, rates []*ExchangeRate) error

	// Count returns the number of stored rates
	Count(ctx context.Context) (int, error)
}

// PreferenceRepository defines the interface for user preference persistence operations
type PreferenceRepository interface {
	// Get retrieves the stored preferences
	// Returns an error wrapping ErrNotFound when nothing has been saved yet
	Get(ctx context.Context) (*Preferences, error)

	// Save stores the preferences, replacing any previous value
	Save(ctx context.Context, prefs *Preferences) error
}
