package models

import (
	"time"
)

type AnswerStatus string

const (
	AnswerStatusAnswered  AnswerStatus = "answered"
	AnswerStatusNoResults AnswerStatus = "no_results"
	AnswerStatusFailed    AnswerStatus = "failed"
	AnswerStatusBlocked   AnswerStatus = "blocked"
)

// Above this row count, the answer advises the user to refine the question.
const LargeResultRowCount = 7

type QuestionInput struct {
	QuestionId string
	SessionId  string
	UserId     string
	Text       string
	IsFollowUp bool
	Filters    Filters
	UserAgent  string
	ClientIp   string
}

// Turn is one question and its answer, as kept in the conversation history.
type Turn struct {
	QuestionId     string
	Question       string
	Summary        string
	Sql            string
	Result         QueryResult
	Status         AnswerStatus
	IsFollowUp     bool
	SelectedTables []string
	AttemptCount   int
	Latency        time.Duration
	AskedAt        time.Time
}

type Answer struct {
	Turn
	SessionId        string
	PreviousQuestion string
}

func (a Answer) LargeResult() bool {
	return a.Result.RowCount() > LargeResultRowCount
}

type Session struct {
	Id        string
	UserId    string
	Turns     []Turn
	Votes     []Vote
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LastTurns returns at most n turns, oldest first.
func (s Session) LastTurns(n int) []Turn {
	if n <= 0 {
		return nil
	}
	start := max(0, len(s.Turns)-n)
	return s.Turns[start:]
}

func (s Session) FindTurn(questionId string) (Turn, bool) {
	for _, turn := range s.Turns {
		if turn.QuestionId == questionId {
			return turn, true
		}
	}
	return Turn{}, false
}

type VoteValue string

const (
	VoteUp   VoteValue = "UP"
	VoteDown VoteValue = "DOWN"
)

func (v VoteValue) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

type Vote struct {
	QuestionId string
	Value      VoteValue
	Reason     string
	VotedAt    time.Time
}

type VoteInput struct {
	SessionId  string
	QuestionId string
	UserId     string
	Value      VoteValue
	Reason     string
}
