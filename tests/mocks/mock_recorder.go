package mocks

import (
	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(req domain.ClickRequest) {
	m.Called(req)
}
