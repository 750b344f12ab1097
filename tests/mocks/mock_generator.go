package mocks

import "github.com/stretchr/testify/mock"

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
