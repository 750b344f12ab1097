package mocks

import (
	"context"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockCacheRepository) SetLink(ctx context.Context, code string, link *domain.Link, ttl time.Duration) error {
	args := m.Called(ctx, code, link, ttl)
	return args.Error(0)
}
