package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_LastTurns(t *testing.T) {
	session := Session{Turns: []Turn{{QuestionId: "1"}, {QuestionId: "2"}, {QuestionId: "3"}}}

	assert.Len(t, session.LastTurns(0), 0)
	assert.Equal(t, []Turn{{QuestionId: "2"}, {QuestionId: "3"}}, session.LastTurns(2))
	assert.Len(t, session.LastTurns(10), 3)
	assert.Len(t, Session{}.LastTurns(2), 0)
}

func TestSession_FindTurn(t *testing.T) {
	session := Session{Turns: []Turn{{QuestionId: "1", Question: "first"}, {QuestionId: "2"}}}

	turn, ok := session.FindTurn("1")
	assert.True(t, ok)
	assert.Equal(t, "first", turn.Question)

	_, ok = session.FindTurn("unknown")
	assert.False(t, ok)
}

func TestAnswer_LargeResult(t *testing.T) {
	rows := make([][]any, LargeResultRowCount)
	answer := Answer{Turn: Turn{Result: QueryResult{Rows: rows}}}
	assert.False(t, answer.LargeResult())

	answer.Result.Rows = append(answer.Result.Rows, []any{1})
	assert.True(t, answer.LargeResult())
}
