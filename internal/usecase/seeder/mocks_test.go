package seeder

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/simaogato/folio-backend/internal/domain"
)

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
