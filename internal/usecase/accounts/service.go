package accounts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/events"
)

// AccountService handles account and snapshot mutations
type AccountService struct {
	AccountRepo  domain.AccountRepository
	SnapshotRepo domain.SnapshotRepository
	Events       events.Publisher
	now          func() time.Time
}

// NewAccountService creates a new AccountService instance.
// publisher may be nil when nobody listens for changes.
func NewAccountService(accountRepo domain.AccountRepository, snapshotRepo domain.SnapshotRepository, publisher events.Publisher) *AccountService {
	return &AccountService{
		AccountRepo:  accountRepo,
		SnapshotRepo: snapshotRepo,
		Events:       publisher,
		now:          time.Now,
	}
}

// CreateAccount validates and stores a new account
func (s *AccountService) CreateAccount(ctx context.Context, name, currencyCode string) (*domain.Account, error) {
	now := s.now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Currency:  domain.NormalizeCurrency(currencyCode),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.publish(events.AccountCreated, account.ID)
	return account, nil
}

// RenameAccount changes the display name of an account
func (s *AccountService) RenameAccount(ctx context.Context, id uuid.UUID, name string) (*domain.Account, error) {
	return s.updateAccount(ctx, id, func(a *domain.Account) {
		a.Name = strings.TrimSpace(name)
	})
}

// ChangeCurrency switches the currency an account's snapshot values are denominated in.
// Existing snapshot values are not converted.
func (s *AccountService) ChangeCurrency(ctx context.Context, id uuid.UUID, currencyCode string) (*domain.Account, error) {
	return s.updateAccount(ctx, id, func(a *domain.Account) {
		a.Currency = domain.NormalizeCurrency(currencyCode)
	})
}

func (s *AccountService) updateAccount(ctx context.Context, id uuid.UUID, mutate func(*domain.Account)) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(account)
	if err := account.Validate(); err != nil {
		return nil, err
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.AccountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.publish(events.AccountUpdated, account.ID)
	return account, nil
}

// DeleteAccount removes an account together with all of its snapshots
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.AccountRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.AccountRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.publish(events.AccountDeleted, id)
	return nil
}

// ListAccounts returns every account ordered by name
func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].Name) < strings.ToLower(accounts[j].Name)
	})
	return accounts, nil
}

// RecordSnapshot stores a new value point for an account
// Logic:
//  1. Value must be non-negative
//  2. Account must exist
//  3. A zero `at` means now
func (s *AccountService) RecordSnapshot(ctx context.Context, accountID uuid.UUID, value decimal.Decimal, note *string, at time.Time) (*domain.AccountValueSnapshot, error) {
	if value.IsNegative() {
		return nil, errors.New("snapshot value must be non-negative")
	}

	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = s.now()
	}

	snapshot := &domain.AccountValueSnapshot{
		ID:        uuid.New(),
		AccountID: accountID,
		Value:     value,
		Timestamp: at.UnixMilli(),
		Note:      trimNote(note),
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	if err := s.SnapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}

	s.publish(events.SnapshotCreated, snapshot.ID)
	return snapshot, nil
}

// UpdateSnapshot replaces the value and note of an existing snapshot. The timestamp is kept.
func (s *AccountService) UpdateSnapshot(ctx context.Context, id uuid.UUID, value decimal.Decimal, note *string) (*domain.AccountValueSnapshot, error) {
	snapshot, err := s.SnapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot.Value = value
	snapshot.Note = trimNote(note)
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	if err := s.SnapshotRepo.Update(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to update snapshot: %w", err)
	}

	s.publish(events.SnapshotUpdated, snapshot.ID)
	return snapshot, nil
}

func (s *AccountService) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.SnapshotRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.SnapshotRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	s.publish(events.SnapshotDeleted, id)
	return nil
}

// ListSnapshots returns an account's snapshots, newest first
func (s *AccountService) ListSnapshots(ctx context.Context, accountID uuid.UUID) ([]*domain.AccountValueSnapshot, error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	snapshots, err := s.SnapshotRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp > snapshots[j].Timestamp
	})
	return snapshots, nil
}

func (s *AccountService) publish(kind events.Kind, id uuid.UUID) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(events.Event{Kind: kind, EntityID: id.String(), At: s.now().UTC()})
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
