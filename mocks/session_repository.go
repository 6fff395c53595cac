package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) GetSession(ctx context.Context, sessionId, userId string) (models.Session, error) {
	args := m.Called(ctx, sessionId, userId)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *SessionRepository) AppendTurn(ctx context.Context, sessionId, userId string, turn models.Turn) (models.Session, error) {
	args := m.Called(ctx, sessionId, userId, turn)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *SessionRepository) FindTurn(ctx context.Context, sessionId, questionId, userId string) (models.Turn, error) {
	args := m.Called(ctx, sessionId, questionId, userId)
	return args.Get(0).(models.Turn), args.Error(1)
}

func (m *SessionRepository) AddVote(ctx context.Context, sessionId, userId string, vote models.Vote) error {
	args := m.Called(ctx, sessionId, userId, vote)
	return args.Error(0)
}
