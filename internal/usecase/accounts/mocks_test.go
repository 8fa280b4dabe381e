package accounts

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
