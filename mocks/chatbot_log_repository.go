package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type ChatbotLogRepository struct {
	mock.Mock
}

func (m *ChatbotLogRepository) LogQuestion(ctx context.Context, log models.QuestionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ChatbotLogRepository) LogError(ctx context.Context, log models.ErrorLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ChatbotLogRepository) LogZeroResult(ctx context.Context, log models.ZeroResultLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ChatbotLogRepository) LogVote(ctx context.Context, log models.VoteFeedback) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}
