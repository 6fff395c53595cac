package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type LlmRepository struct {
	mock.Mock
}

func (m *LlmRepository) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *LlmRepository) Generate(ctx context.Context, request models.LlmRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *LlmRepository) SelectTables(ctx context.Context, request models.LlmRequest) ([]string, error) {
	args := m.Called(ctx, request)
	return args.Get(0).([]string), args.Error(1)
}
