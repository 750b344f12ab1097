package mocks

import (
	"context"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Insert(ctx context.Context, click *domain.ClickEvent) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockClickRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}
