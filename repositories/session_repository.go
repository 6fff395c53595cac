package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/trilytx/trilytx-backend/models"
)

const (
	DEFAULT_SESSION_TTL         = 2 * time.Hour
	DEFAULT_SESSION_MAX_COUNT   = 10000
	DEFAULT_SESSION_HISTORY_MAX = 50
)

type SessionStoreConfig struct {
	MaxSessions int
	Ttl         time.Duration
	// Oldest turns are dropped beyond this count
	MaxTurns int
}

// InMemorySessionRepository keeps chat sessions in an expirable LRU cache. Sessions are lost on restart.
type InMemorySessionRepository struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, models.Session]
	maxTurns int
	now      func() time.Time
}

func NewInMemorySessionRepository(config SessionStoreConfig) *InMemorySessionRepository {
	if config.MaxSessions <= 0 {
		config.MaxSessions = DEFAULT_SESSION_MAX_COUNT
	}
	if config.Ttl <= 0 {
		config.Ttl = DEFAULT_SESSION_TTL
	}
	if config.MaxTurns <= 0 {
		config.MaxTurns = DEFAULT_SESSION_HISTORY_MAX
	}
	return &InMemorySessionRepository{
		sessions: expirable.NewLRU[string, models.Session](config.MaxSessions, nil, config.Ttl),
		maxTurns: config.MaxTurns,
		now:      time.Now,
	}
}

func (repo *InMemorySessionRepository) get(sessionId, userId string) (models.Session, error) {
	session, ok := repo.sessions.Get(sessionId)
	if !ok {
		return models.Session{}, errors.Wrapf(models.ErrSessionNotFound, "session %s", sessionId)
	}
	if session.UserId != userId {
		return models.Session{}, errors.Wrapf(models.ForbiddenError, "session %s belongs to another user", sessionId)
	}
	return session, nil
}

func (repo *InMemorySessionRepository) GetSession(ctx context.Context, sessionId, userId string) (models.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	session, err := repo.get(sessionId, userId)
	if err != nil {
		return models.Session{}, err
	}
	return cloneSession(session), nil
}

// AppendTurn adds a turn to the session, creating the session on its first turn.
func (repo *InMemorySessionRepository) AppendTurn(ctx context.Context, sessionId, userId string, turn models.Turn) (models.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	now := repo.now()
	session, err := repo.get(sessionId, userId)
	if errors.Is(err, models.NotFoundError) {
		session = models.Session{Id: sessionId, UserId: userId, CreatedAt: now}
	} else if err != nil {
		return models.Session{}, err
	}

	turns := append(slices.Clone(session.Turns), turn)
	if len(turns) > repo.maxTurns {
		turns = turns[len(turns)-repo.maxTurns:]
	}
	session.Turns = turns
	session.UpdatedAt = now
	repo.sessions.Add(sessionId, session)

	return cloneSession(session), nil
}

func (repo *InMemorySessionRepository) FindTurn(ctx context.Context, sessionId, questionId, userId string) (models.Turn, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	session, err := repo.get(sessionId, userId)
	if err != nil {
		return models.Turn{}, err
	}
	turn, ok := session.FindTurn(questionId)
	if !ok {
		return models.Turn{}, errors.Wrapf(models.ErrQuestionNotFound, "question %s", questionId)
	}
	return turn, nil
}

// AddVote stores the vote on the session. A new vote on the same question replaces the previous one.
func (repo *InMemorySessionRepository) AddVote(ctx context.Context, sessionId, userId string, vote models.Vote) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	session, err := repo.get(sessionId, userId)
	if err != nil {
		return err
	}
	if _, ok := session.FindTurn(vote.QuestionId); !ok {
		return errors.Wrapf(models.ErrQuestionNotFound, "question %s", vote.QuestionId)
	}
	if vote.VotedAt.IsZero() {
		vote.VotedAt = repo.now()
	}

	votes := slices.DeleteFunc(slices.Clone(session.Votes), func(v models.Vote) bool {
		return v.QuestionId == vote.QuestionId
	})
	session.Votes = append(votes, vote)
	session.UpdatedAt = repo.now()
	repo.sessions.Add(sessionId, session)

	return nil
}

func cloneSession(session models.Session) models.Session {
	session.Turns = slices.Clone(session.Turns)
	session.Votes = slices.Clone(session.Votes)
	return session
}
