package chatbot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/trilytx/trilytx-backend/mocks"
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

type ChatbotUsecaseTestSuite struct {
	suite.Suite
	warehouse *mocks.WarehouseRepository
	llm       *mocks.LlmRepository
	catalog   *mocks.CatalogRepository
	sessions  *mocks.SessionRepository
	logs      *mocks.ChatbotLogRepository

	ctx        context.Context
	userId     string
	sessionId  string
	questionId string
	now        time.Time
	rows       models.QueryResult
}

func (suite *ChatbotUsecaseTestSuite) SetupTest() {
	suite.warehouse = new(mocks.WarehouseRepository)
	suite.llm = new(mocks.LlmRepository)
	suite.catalog = new(mocks.CatalogRepository)
	suite.sessions = new(mocks.SessionRepository)
	suite.logs = new(mocks.ChatbotLogRepository)

	suite.ctx = utils.StoreLoggerInContext(context.Background(), utils.NewLogger("test", slog.LevelDebug))
	suite.userId = "user@example.com"
	suite.sessionId = "8f0e4a52-5b5a-4d4e-9a4f-1f1b8b7b8a11"
	suite.questionId = "0ae6fda7-f7b3-4218-9fc3-4efa329432a7"
	suite.now = time.Date(2025, 9, 8, 10, 0, 0, 0, time.UTC)
	suite.rows = models.QueryResult{
		Columns: []models.QueryColumn{{Name: "sku_name", Type: "STRING"}, {Name: "revenue", Type: "FLOAT"}},
		Rows:    [][]any{{"Bananas", 1200.5}, {"Milk", 800.0}},
	}
}

func (suite *ChatbotUsecaseTestSuite) makeUsecase(maxAttempts int) *ChatbotUsecase {
	return suite.makeUsecaseForDialect(maxAttempts, "BigQuery")
}

func (suite *ChatbotUsecaseTestSuite) makeUsecaseForDialect(maxAttempts int, dialect string) *ChatbotUsecase {
	uc := NewChatbotUsecase(
		Config{
			PromptsDir:     "../../prompts",
			DefaultModel:   "gpt-4o",
			Dialect:        dialect,
			MaxAttempts:    maxAttempts,
			HistoryTurns:   2,
			SummaryMaxRows: 200,
			AppVersion:     "test",
			IpHashSalt:     "salt",
			QueryOptions:   models.QueryOptions{ToSnakeCase: true},
		},
		suite.warehouse,
		suite.llm,
		suite.catalog,
		suite.sessions,
		suite.logs,
	)
	uc.newId = func() string { return suite.questionId }
	uc.now = func() time.Time { return suite.now }
	return uc
}

func (suite *ChatbotUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.warehouse.AssertExpectations(t)
	suite.llm.AssertExpectations(t)
	suite.catalog.AssertExpectations(t)
	suite.sessions.AssertExpectations(t)
	suite.logs.AssertExpectations(t)
}

func isSqlGenerationPrompt(request models.LlmRequest) bool {
	return strings.Contains(request.Prompt, "You are a SQL assistant")
}

func isSummaryPrompt(request models.LlmRequest) bool {
	return strings.Contains(request.Prompt, "analytics summaries")
}

func (suite *ChatbotUsecaseTestSuite) expectTableSelection() {
	suite.catalog.On("GetCatalog", mock.Anything).Return(testCatalog, nil)
	suite.llm.On("SelectTables", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return r.Model == "gpt-4o" && strings.Contains(r.Prompt, "fct_store_sales: sales")
	})).Return([]string{"fct_store_sales"}, nil)
}

func (suite *ChatbotUsecaseTestSuite) expectNewSession() {
	suite.sessions.On("GetSession", mock.Anything, suite.sessionId, suite.userId).
		Return(models.Session{}, errors.Wrap(models.ErrSessionNotFound, "session"))
	suite.sessions.On("AppendTurn", mock.Anything, suite.sessionId, suite.userId, mock.Anything).
		Return(models.Session{}, nil)
}

func (suite *ChatbotUsecaseTestSuite) input(text string) models.QuestionInput {
	return models.QuestionInput{
		SessionId: suite.sessionId,
		UserId:    suite.userId,
		Text:      text,
		ClientIp:  "10.0.0.1",
	}
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_answered() {
	suite.expectNewSession()
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return isSqlGenerationPrompt(r) &&
			strings.Contains(r.Prompt, "retail.fct_store_sales") &&
			strings.Contains(r.Prompt, "The user's CURRENT question: 'Top skus by revenue'")
	})).Return("```sql\nSELECT sku_name, revenue FROM retail.fct_store_sales\n```", nil).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT sku_name, revenue FROM retail.fct_store_sales",
		mock.MatchedBy(func(opts models.QueryOptions) bool {
			return opts.Labels["question_id"] == suite.questionId &&
				opts.Labels["app"] == QUERY_LABEL_APP &&
				opts.ToSnakeCase
		})).Return(suite.rows, nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return isSummaryPrompt(r) && strings.Contains(r.Prompt, "sku_name: Bananas. revenue: 1200.5.")
	})).Return("**Bananas** lead revenue.", nil).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.MatchedBy(func(log models.QuestionLog) bool {
		return log.QuestionId == suite.questionId &&
			log.RowsReturned == 2 &&
			log.AttemptCount == 1 &&
			log.IpHash == utils.HashIp("10.0.0.1", "salt") &&
			log.ContextHistory == "---"
	})).Return(nil)

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("  Top skus by revenue "))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusAnswered, answer.Status)
	assert.Equal(t, "SELECT sku_name, revenue FROM retail.fct_store_sales", answer.Sql)
	assert.Equal(t, "**Bananas** lead revenue.", answer.Summary)
	assert.Equal(t, []string{"fct_store_sales"}, answer.SelectedTables)
	assert.Equal(t, 1, answer.AttemptCount)
	assert.Equal(t, suite.questionId, answer.QuestionId)
	assert.Equal(t, suite.sessionId, answer.SessionId)
	assert.Equal(t, 2, answer.Result.RowCount())
	assert.False(t, answer.LargeResult())
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_summary_failure_keeps_rows() {
	suite.expectNewSession()
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).Return("SELECT 1", nil).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT 1", mock.Anything).Return(suite.rows, nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSummaryPrompt)).Return("", errors.New("llm down")).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.Anything).Return(nil)

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusAnswered, answer.Status)
	assert.Contains(t, answer.Summary, "a written summary could not be generated")
	assert.Equal(t, 2, answer.Result.RowCount())
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_zero_rows_on_every_attempt() {
	suite.expectNewSession()
	suite.expectTableSelection()

	var prompts []string
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Run(func(args mock.Arguments) {
			prompts = append(prompts, args.Get(1).(models.LlmRequest).Prompt)
		}).
		Return("SELECT 1 WHERE FALSE", nil).Twice()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT 1 WHERE FALSE", mock.Anything).
		Return(models.QueryResult{Columns: suite.rows.Columns}, nil).Twice()
	suite.logs.On("LogZeroResult", mock.Anything, mock.MatchedBy(func(log models.ZeroResultLog) bool {
		return log.GeneratedSql == "SELECT 1 WHERE FALSE"
	})).Return(errors.New("sink unavailable")).Twice()
	suite.logs.On("LogQuestion", mock.Anything, mock.MatchedBy(func(log models.QuestionLog) bool {
		return log.RowsReturned == 0 && log.AttemptCount == 2
	})).Return(nil)

	answer, err := suite.makeUsecase(2).AskQuestion(suite.ctx, suite.input("Sales on Mars"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusNoResults, answer.Status)
	assert.Equal(t, 2, answer.AttemptCount)
	assert.Contains(t, answer.Summary, "No results found for your question after 2 attempts")
	if assert.Len(t, prompts, 2) {
		assert.NotContains(t, prompts[0], "[NOTE]")
		assert.Contains(t, prompts[1], "[NOTE] Previous attempt(s) returned 0 results:\n[Attempt 1] SELECT 1 WHERE FALSE")
	}
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_query_error_then_rows() {
	suite.expectNewSession()
	suite.expectTableSelection()

	var prompts []string
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Run(func(args mock.Arguments) {
			prompts = append(prompts, args.Get(1).(models.LlmRequest).Prompt)
		}).
		Return("SELECT bad_column FROM t", nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Run(func(args mock.Arguments) {
			prompts = append(prompts, args.Get(1).(models.LlmRequest).Prompt)
		}).
		Return("SELECT sku_name FROM t", nil).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT bad_column FROM t", mock.Anything).
		Return(models.QueryResult{}, errors.New("Unrecognized name: bad_column")).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT sku_name FROM t", mock.Anything).
		Return(suite.rows, nil).Once()
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeQueryError && log.AttemptNumber == 1 &&
			log.GeneratedSql == "SELECT bad_column FROM t"
	})).Return(nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSummaryPrompt)).Return("summary", nil).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.Anything).Return(nil)

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusAnswered, answer.Status)
	assert.Equal(t, 2, answer.AttemptCount)
	assert.Equal(t, "SELECT sku_name FROM t", answer.Sql)
	if assert.Len(t, prompts, 2) {
		assert.Contains(t, prompts[1], "[ERROR LOG] Previous attempt(s) returned BigQuery errors:\n"+
			"[Attempt 1]\nSQL:\nSELECT bad_column FROM t\nError:\nUnrecognized name: bad_column")
	}
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_generation_error_then_rows() {
	suite.expectNewSession()
	suite.expectTableSelection()

	var prompts []string
	record := func(args mock.Arguments) {
		prompts = append(prompts, args.Get(1).(models.LlmRequest).Prompt)
	}
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Run(record).Return("", errors.New("upstream timeout")).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Run(record).Return("SELECT sku_name FROM t", nil).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT sku_name FROM t", mock.Anything).
		Return(suite.rows, nil).Once()
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeLlmError && log.AttemptNumber == 1
	})).Return(nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSummaryPrompt)).Return("summary", nil).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.Anything).Return(nil)

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusAnswered, answer.Status)
	assert.Equal(t, 2, answer.AttemptCount)
	if assert.Len(t, prompts, 2) {
		assert.Contains(t, prompts[1], "[Attempt 1]\nSQL:\n\nError:\nSQL generation failed: upstream timeout")
	}
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_failed_after_query_errors() {
	suite.expectNewSession()
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).Return("SELECT x", nil).Times(3)
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT x", mock.Anything).
		Return(models.QueryResult{}, errors.New("boom")).Times(3)
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeQueryError
	})).Return(nil).Times(3)
	suite.logs.On("LogQuestion", mock.Anything, mock.Anything).Return(nil)

	answer, err := suite.makeUsecase(3).AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusFailed, answer.Status)
	assert.Equal(t, 3, answer.AttemptCount)
	assert.Contains(t, answer.Summary, "**Query failed after 3 attempts.**")
	assert.Contains(t, answer.Summary, "[Attempt 3]\nSQL:\nSELECT x\nError:\nboom")
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_blocked() {
	suite.expectNewSession()
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Return("DELETE FROM retail.fct_store_sales", nil).Once()
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeSafetyBlocked && log.AttemptNumber == 1
	})).Return(nil).Once()

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Delete everything"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusBlocked, answer.Status)
	assert.Equal(t, 1, answer.AttemptCount)
	assert.Contains(t, answer.Summary, "**Query blocked for safety**")
	suite.warehouse.AssertNotCalled(t, "RunQuery", mock.Anything, mock.Anything, mock.Anything)
	suite.logs.AssertNotCalled(t, "LogQuestion", mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_blocked_stacked_statement_on_duckdb() {
	suite.expectNewSession()
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(isSqlGenerationPrompt)).
		Return("SELECT sku FROM retail.t ORDER BY #1; DROP TABLE retail.t; SELECT 1 AS sku", nil).Once()
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeSafetyBlocked
	})).Return(nil).Once()

	answer, err := suite.makeUsecaseForDialect(5, "DuckDB").AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusBlocked, answer.Status)
	suite.warehouse.AssertNotCalled(t, "RunQuery", mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_llm_not_configured() {
	suite.expectNewSession()
	suite.catalog.On("GetCatalog", mock.Anything).Return(testCatalog, nil)
	suite.llm.On("SelectTables", mock.Anything, mock.Anything).Return([]string(nil), models.ErrLlmNotConfigured).Once()
	suite.logs.On("LogError", mock.Anything, mock.MatchedBy(func(log models.ErrorLog) bool {
		return log.ErrorType == models.ErrorTypeLlmError
	})).Return(nil).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.Anything).Return(nil)

	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Top skus"))

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, models.AnswerStatusFailed, answer.Status)
	assert.Equal(t, 1, answer.AttemptCount)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_follow_up() {
	previous := models.Turn{
		QuestionId: "previous",
		Question:   "Top skus last week",
		Summary:    "Bananas lead.",
		Sql:        "SELECT 1",
		Status:     models.AnswerStatusAnswered,
	}
	suite.sessions.On("GetSession", mock.Anything, suite.sessionId, suite.userId).
		Return(models.Session{Id: suite.sessionId, UserId: suite.userId, Turns: []models.Turn{previous}}, nil)
	suite.sessions.On("AppendTurn", mock.Anything, suite.sessionId, suite.userId, mock.MatchedBy(func(turn models.Turn) bool {
		return turn.IsFollowUp && turn.Question == "And by store?"
	})).Return(models.Session{}, nil)
	suite.expectTableSelection()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return isSqlGenerationPrompt(r) &&
			strings.Contains(r.Prompt, "Previous user query: 'Top skus last week'") &&
			strings.Contains(r.Prompt, "Consider the preceding conversation history")
	})).Return("SELECT 2", nil).Once()
	suite.warehouse.On("RunQuery", mock.Anything, "SELECT 2", mock.Anything).Return(suite.rows, nil).Once()
	suite.llm.On("Generate", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return isSummaryPrompt(r) && strings.Contains(r.Prompt, "Previous user query: 'Top skus last week'")
	})).Return("summary", nil).Once()
	suite.logs.On("LogQuestion", mock.Anything, mock.MatchedBy(func(log models.QuestionLog) bool {
		return log.IsFollowUp && log.PreviousQuestion == "Top skus last week" &&
			strings.HasPrefix(log.ContextHistory, "Previous user query: 'Top skus last week'")
	})).Return(nil)

	input := suite.input("And by store?")
	input.IsFollowUp = true
	answer, err := suite.makeUsecase(5).AskQuestion(suite.ctx, input)

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, "Top skus last week", answer.PreviousQuestion)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_empty_question() {
	_, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("   "))

	t := suite.T()
	assert.ErrorIs(t, err, models.BadParameterError)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_invalid_channel() {
	input := suite.input("Top skus")
	input.Filters.Channel = "drone"
	_, err := suite.makeUsecase(5).AskQuestion(suite.ctx, input)

	assert.ErrorIs(suite.T(), err, models.ErrInvalidChannel)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_session_of_another_user() {
	suite.sessions.On("GetSession", mock.Anything, suite.sessionId, suite.userId).
		Return(models.Session{}, errors.Wrap(models.ForbiddenError, "session belongs to another user"))

	_, err := suite.makeUsecase(5).AskQuestion(suite.ctx, suite.input("Top skus"))

	assert.ErrorIs(suite.T(), err, models.ForbiddenError)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestAskQuestion_cancelled_context() {
	suite.sessions.On("GetSession", mock.Anything, suite.sessionId, suite.userId).
		Return(models.Session{}, models.ErrSessionNotFound)

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()
	_, err := suite.makeUsecase(5).AskQuestion(ctx, suite.input("Top skus"))

	assert.ErrorIs(suite.T(), err, context.Canceled)
	suite.llm.AssertNotCalled(suite.T(), "SelectTables", mock.Anything, mock.Anything)
}

func (suite *ChatbotUsecaseTestSuite) TestRecordVote() {
	turn := models.Turn{QuestionId: suite.questionId, Question: "Top skus", Summary: "Bananas."}
	suite.sessions.On("FindTurn", mock.Anything, suite.sessionId, suite.questionId, suite.userId).Return(turn, nil)
	suite.sessions.On("AddVote", mock.Anything, suite.sessionId, suite.userId, models.Vote{
		QuestionId: suite.questionId,
		Value:      models.VoteDown,
		Reason:     "wrong store",
		VotedAt:    suite.now,
	}).Return(nil)
	suite.logs.On("LogVote", mock.Anything, mock.MatchedBy(func(log models.VoteFeedback) bool {
		return log.Vote == models.VoteDown && log.QuestionText == "Top skus" && log.SummaryMd == "Bananas."
	})).Return(errors.New("sink unavailable"))

	err := suite.makeUsecase(5).RecordVote(suite.ctx, models.VoteInput{
		SessionId:  suite.sessionId,
		QuestionId: suite.questionId,
		UserId:     suite.userId,
		Value:      models.VoteDown,
		Reason:     " wrong store ",
	})

	assert.NoError(suite.T(), err)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestRecordVote_invalid_value() {
	err := suite.makeUsecase(5).RecordVote(suite.ctx, models.VoteInput{
		SessionId:  suite.sessionId,
		QuestionId: suite.questionId,
		Value:      "MEH",
	})

	assert.ErrorIs(suite.T(), err, models.BadParameterError)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestRecordVote_unknown_question() {
	suite.sessions.On("FindTurn", mock.Anything, suite.sessionId, "unknown", suite.userId).
		Return(models.Turn{}, models.ErrQuestionNotFound)

	err := suite.makeUsecase(5).RecordVote(suite.ctx, models.VoteInput{
		SessionId:  suite.sessionId,
		QuestionId: "unknown",
		UserId:     suite.userId,
		Value:      models.VoteUp,
	})

	assert.ErrorIs(suite.T(), err, models.NotFoundError)
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestExportTurnCsv() {
	turn := models.Turn{QuestionId: suite.questionId, Result: models.QueryResult{
		Columns: suite.rows.Columns,
		Rows:    [][]any{{"Bananas, ripe", 1200.5}, {"Milk", nil}},
	}}
	suite.sessions.On("FindTurn", mock.Anything, suite.sessionId, suite.questionId, suite.userId).Return(turn, nil)

	buf := bytes.Buffer{}
	err := suite.makeUsecase(5).ExportTurnCsv(suite.ctx, suite.sessionId, suite.questionId, suite.userId, &buf)

	t := suite.T()
	assert.NoError(t, err)
	assert.Equal(t, "sku_name,revenue\n\"Bananas, ripe\",1200.5\nMilk,\n", buf.String())
	suite.AssertExpectations()
}

func (suite *ChatbotUsecaseTestSuite) TestExportTurnCsv_no_result() {
	suite.sessions.On("FindTurn", mock.Anything, suite.sessionId, suite.questionId, suite.userId).
		Return(models.Turn{QuestionId: suite.questionId, Status: models.AnswerStatusBlocked}, nil)

	err := suite.makeUsecase(5).ExportTurnCsv(suite.ctx, suite.sessionId, suite.questionId, suite.userId, &bytes.Buffer{})

	assert.ErrorIs(suite.T(), err, models.NotFoundError)
	suite.AssertExpectations()
}

func TestChatbotUsecase(t *testing.T) {
	suite.Run(t, new(ChatbotUsecaseTestSuite))
}
