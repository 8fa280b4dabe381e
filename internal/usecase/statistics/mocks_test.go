package statistics

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/folio-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) snapshots(args mock.Arguments) ([]*domain.AccountValueSnapshot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountValueSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.AccountValueSnapshot, error) {
	return m.snapshots(m.Called(ctx, accountID))
}

func (m *MockSnapshotRepository) ListAll(ctx context.Context) ([]*domain.AccountValueSnapshot, error) {
	return m.snapshots(m.Called(ctx))
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context, accountID uuid.UUID) (*domain.AccountValueSnapshot, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountValueSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListInRange(ctx context.Context, accountID uuid.UUID, start, end int64) ([]*domain.AccountValueSnapshot, error) {
	return m.snapshots(m.Called(ctx, accountID, start, end))
}

func (m *MockSnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountValueSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountValueSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Create(ctx context.Context, snapshot *domain.AccountValueSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockSnapshotRepository) Update(ctx context.Context, snapshot *domain.AccountValueSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockSnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPreferenceRepository is a mock implementation of PreferenceRepository for testing
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Get(ctx context.Context) (*domain.Preferences, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preferences), args.Error(1)
}

func (m *MockPreferenceRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	return m.Called(ctx, prefs).Error(0)
}

// MockExchangeRateRepository is a mock implementation of ExchangeRateRepository for testing
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) List(ctx context.Context) ([]*domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) Get(ctx context.Context, code string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockExchangeRateRepository) UpsertAll(ctx context.Context, rates []*domain.ExchangeRate) error {
	return m.Called(ctx, rates).Error(0)
}

func (m *MockExchangeRateRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
