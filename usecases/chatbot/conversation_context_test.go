package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trilytx/trilytx-backend/models"
)

func TestFiltersContext(t *testing.T) {
	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", filtersContext(models.Filters{}))
	assert.Equal(t,
		"\n- store: 42\n- department: Produce\n- channel: curbside\n- date_range: 2025-09-01 → unspecified",
		filtersContext(models.Filters{
			Store:      "42",
			Department: "Produce",
			Channel:    models.ChannelCurbside,
			DateFrom:   &from,
		}))
}

func TestConversationContextParts(t *testing.T) {
	assert.Equal(t, []string{"---"}, conversationContextParts(nil))

	history := []models.Turn{
		{Question: "q1", Summary: "s1", Sql: "SELECT 1"},
		{
			Question: "q2",
			Summary:  "s2",
			Sql:      "SELECT store_id, revenue FROM t",
			Result: models.QueryResult{
				Columns: []models.QueryColumn{{Name: "store_id"}, {Name: "revenue"}},
				Rows:    [][]any{{"1", 10.5}, {"2", 3.0}},
			},
		},
	}
	assert.Equal(t, []string{
		"Previous user query: 'q1'",
		"Assistant's previous answer: 's1'",
		"Assistant's previous SQL: ```sql\nSELECT 1\n```",
		"Previous user query: 'q2'",
		"Assistant's previous answer: 's2'",
		"Assistant's previous SQL: ```sql\nSELECT store_id, revenue FROM t\n```",
		"Previous results (structured):\nstore_id: 1, revenue: 10.5\nstore_id: 2, revenue: 3",
		"---",
	}, conversationContextParts(history))
}

func TestBaseContext(t *testing.T) {
	got := baseContext([]string{"---"}, "top skus", false, "")
	assert.Equal(t, "---\nThe user's CURRENT question: 'top skus'\n\n"+
		"Please generate SQL to answer this question. [Contextual Filters Applied] None\n\n", got)

	got = baseContext([]string{"---"}, "and by store?", true, "\n- store: 42")
	assert.Contains(t, got, "Consider the preceding conversation history")
	assert.Contains(t, got, "[Contextual Filters Applied]\n- store: 42\n\n")
}

func TestAttemptContext(t *testing.T) {
	assert.Equal(t, "base", attemptContext("base", "BigQuery", nil, nil))

	got := attemptContext("base", "BigQuery", []string{"[Attempt 1] SELECT 1"}, []string{"[Attempt 2]\nSQL:\nSELECT x\nError:\nboom"})
	assert.Contains(t, got, "[NOTE] Previous attempt(s) returned 0 results:\n[Attempt 1] SELECT 1\n\n")
	assert.Contains(t, got, "[ERROR LOG] Previous attempt(s) returned BigQuery errors:\n[Attempt 2]")
	assert.Contains(t, got, "Please revise the SQL to avoid these issues.")
}
