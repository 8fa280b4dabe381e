package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/folio-backend/internal/domain"
)

// Store keeps every entity in process memory. It backs the "memory" driver and tests.
// Repositories hand out copies so callers never share state with the store.
type Store struct {
	mu        sync.RWMutex
	accounts  map[uuid.UUID]domain.Account
	snapshots map[uuid.UUID]domain.AccountValueSnapshot
	rates     map[string]domain.ExchangeRate
	prefs     *domain.Preferences
}

func NewStore() *Store {
	return &Store{
		accounts:  map[uuid.UUID]domain.Account{},
		snapshots: map[uuid.UUID]domain.AccountValueSnapshot{},
		rates:     map[string]domain.ExchangeRate{},
	}
}

func (s *Store) Accounts() domain.AccountRepository           { return accountRepository{s} }
func (s *Store) Snapshots() domain.SnapshotRepository         { return snapshotRepository{s} }
func (s *Store) ExchangeRates() domain.ExchangeRateRepository { return exchangeRateRepository{s} }
func (s *Store) Preferences() domain.PreferenceRepository     { return preferenceRepository{s} }

type accountRepository struct{ s *Store }

func (r accountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		accounts = append(accounts, &a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r accountRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r accountRepository) Create(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	r.s.accounts[account.ID] = *account
	return nil
}

func (r accountRepository) Update(_ context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[account.ID]; !ok {
		return fmt.Errorf("account %s: %w", account.ID, domain.ErrNotFound)
	}
	r.s.accounts[account.ID] = *account
	return nil
}

// Delete removes the account and its snapshots
func (r accountRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.accounts, id)
	for sid, snap := range r.s.snapshots {
		if snap.AccountID == id {
			delete(r.s.snapshots, sid)
		}
	}
	return nil
}

type snapshotRepository struct{ s *Store }

// filter returns copies of matching snapshots sorted by timestamp ascending
func (r snapshotRepository) filter(keep func(domain.AccountValueSnapshot) bool) []*domain.AccountValueSnapshot {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.AccountValueSnapshot{}
	for _, snap := range r.s.snapshots {
		if keep(snap) {
			out = append(out, &snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp == out[j].Timestamp {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func (r snapshotRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*domain.AccountValueSnapshot, error) {
	return r.filter(func(s domain.AccountValueSnapshot) bool { return s.AccountID == accountID }), nil
}

func (r snapshotRepository) ListAll(_ context.Context) ([]*domain.AccountValueSnapshot, error) {
	return r.filter(func(domain.AccountValueSnapshot) bool { return true }), nil
}

func (r snapshotRepository) ListInRange(_ context.Context, accountID uuid.UUID, start, end int64) ([]*domain.AccountValueSnapshot, error) {
	return r.filter(func(s domain.AccountValueSnapshot) bool {
		return s.AccountID == accountID && s.Timestamp >= start && s.Timestamp <= end
	}), nil
}

func (r snapshotRepository) GetLatest(ctx context.Context, accountID uuid.UUID) (*domain.AccountValueSnapshot, error) {
	snaps, _ := r.ListByAccount(ctx, accountID)
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshot found for account %s: %w", accountID, domain.ErrNotFound)
	}
	return snaps[len(snaps)-1], nil
}

func (r snapshotRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.AccountValueSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
	}
	return &snap, nil
}

func (r snapshotRepository) Create(_ context.Context, snapshot *domain.AccountValueSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[snapshot.AccountID]; !ok {
		return fmt.Errorf("account %s: %w", snapshot.AccountID, domain.ErrNotFound)
	}
	r.s.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (r snapshotRepository) Update(_ context.Context, snapshot *domain.AccountValueSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.snapshots[snapshot.ID]; !ok {
		return fmt.Errorf("snapshot %s: %w", snapshot.ID, domain.ErrNotFound)
	}
	r.s.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (r snapshotRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.snapshots[id]; !ok {
		return fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.snapshots, id)
	return nil
}

type exchangeRateRepository struct{ s *Store }

func (r exchangeRateRepository) List(_ context.Context) ([]*domain.ExchangeRate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rates := make([]*domain.ExchangeRate, 0, len(r.s.rates))
	for _, rate := range r.s.rates {
		rates = append(rates, &rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].CurrencyCode < rates[j].CurrencyCode })
	return rates, nil
}

func (r exchangeRateRepository) Get(_ context.Context, code string) (*domain.ExchangeRate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rate, ok := r.s.rates[code]
	if !ok {
		return nil, fmt.Errorf("exchange rate %s: %w", code, domain.ErrNotFound)
	}
	return &rate, nil
}

func (r exchangeRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	return r.UpsertAll(ctx, []*domain.ExchangeRate{rate})
}

func (r exchangeRateRepository) UpsertAll(_ context.Context, rates []*domain.ExchangeRate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rate := range rates {
		r.s.rates[rate.CurrencyCode] = *rate
	}
	return nil
}

func (r exchangeRateRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.rates), nil
}

type preferenceRepository struct{ s *Store }

func (r preferenceRepository) Get(_ context.Context) (*domain.Preferences, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.prefs == nil {
		return nil, fmt.Errorf("preferences: %w", domain.ErrNotFound)
	}
	prefs := *r.s.prefs
	return &prefs, nil
}

func (r preferenceRepository) Save(_ context.Context, prefs *domain.Preferences) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := *prefs
	r.s.prefs = &p
	return nil
}
