package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
)

// MockAttemptRepository is a mock implementation of ProvisioningAttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *entity.ProvisioningAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptRepository) Update(ctx context.Context, attempt *entity.ProvisioningAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*entity.ProvisioningAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProvisioningAttempt), args.Error(1)
}

func (m *MockAttemptRepository) ListOrphanedCustomers(ctx context.Context, limit int) ([]*entity.ProvisioningAttempt, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ProvisioningAttempt), args.Error(1)
}

func TestProvisioningUsecase_GetAttempt(t *testing.T) {
	ctx := context.Background()
	found := &entity.ProvisioningAttempt{ID: "a-1", State: entity.StateSetupConfirmed}

	tests := []struct {
		name        string
		setupMock   func(*MockAttemptRepository)
		expected    *entity.ProvisioningAttempt
		expectedErr error
	}{
		{
			name: "found",
			setupMock: func(m *MockAttemptRepository) {
				m.On("GetByID", ctx, "a-1").Return(found, nil)
			},
			expected: found,
		},
		{
			name: "not found",
			setupMock: func(m *MockAttemptRepository) {
				m.On("GetByID", ctx, "a-1").Return(nil, nil)
			},
			expectedErr: usecase.ErrAttemptNotFound,
		},
		{
			name: "repository error",
			setupMock: func(m *MockAttemptRepository) {
				m.On("GetByID", ctx, "a-1").Return(nil, errors.New("connection reset"))
			},
			expectedErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAttemptRepository)
			tt.setupMock(repo)
			uc := usecase.NewProvisioningUsecase(new(MockPaymentProcessor), repo, nil, time.Second, zap.NewNop())

			attempt, err := uc.GetAttempt(ctx, "a-1")

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
				assert.Nil(t, attempt)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, attempt)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProvisioningUsecase_ListOrphanedCustomers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "requested limit", limit: 10, expectedLimit: 10},
		{name: "zero uses maximum", limit: 0, expectedLimit: 200},
		{name: "clamped to maximum", limit: 5000, expectedLimit: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orphan := &entity.ProvisioningAttempt{ID: "a-1", State: entity.StateFailed, CustomerID: "cus_1"}
			repo := new(MockAttemptRepository)
			repo.On("ListOrphanedCustomers", ctx, tt.expectedLimit).Return([]*entity.ProvisioningAttempt{orphan}, nil)
			uc := usecase.NewProvisioningUsecase(new(MockPaymentProcessor), repo, nil, time.Second, zap.NewNop())

			attempts, err := uc.ListOrphanedCustomers(ctx, tt.limit)

			require.NoError(t, err)
			require.Len(t, attempts, 1)
			assert.True(t, attempts[0].OrphanedCustomer())
			repo.AssertExpectations(t)
		})
	}
}

func TestProvisioningUsecase_LedgerDisabled(t *testing.T) {
	uc := usecase.NewProvisioningUsecase(new(MockPaymentProcessor), nil, nil, time.Second, zap.NewNop())

	_, err := uc.GetAttempt(context.Background(), "a-1")
	assert.ErrorIs(t, err, usecase.ErrLedgerDisabled)

	_, err = uc.ListOrphanedCustomers(context.Background(), 10)
	assert.ErrorIs(t, err, usecase.ErrLedgerDisabled)
}
