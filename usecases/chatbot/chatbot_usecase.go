package chatbot

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

const (
	DEFAULT_MAX_ATTEMPTS     = 5
	DEFAULT_HISTORY_TURNS    = 2
	DEFAULT_SUMMARY_MAX_ROWS = 200
	DEFAULT_DIALECT          = "BigQuery"

	QUERY_LABEL_APP = "trilytx-chatbot"
)

type ChatbotWarehouseRepository interface {
	RunQuery(ctx context.Context, sql string, opts models.QueryOptions) (models.QueryResult, error)
	QualifiedTableName(table string) string
}

type ChatbotLlmRepository interface {
	Generate(ctx context.Context, request models.LlmRequest) (string, error)
	SelectTables(ctx context.Context, request models.LlmRequest) ([]string, error)
}

type ChatbotCatalogRepository interface {
	GetCatalog(ctx context.Context) (models.Catalog, error)
}

type ChatbotSessionRepository interface {
	GetSession(ctx context.Context, sessionId, userId string) (models.Session, error)
	AppendTurn(ctx context.Context, sessionId, userId string, turn models.Turn) (models.Session, error)
	FindTurn(ctx context.Context, sessionId, questionId, userId string) (models.Turn, error)
	AddVote(ctx context.Context, sessionId, userId string, vote models.Vote) error
}

type ChatbotLogRepository interface {
	LogQuestion(ctx context.Context, log models.QuestionLog) error
	LogError(ctx context.Context, log models.ErrorLog) error
	LogZeroResult(ctx context.Context, log models.ZeroResultLog) error
	LogVote(ctx context.Context, log models.VoteFeedback) error
}

type Config struct {
	PromptsDir   string
	DefaultModel string
	// SQL dialect named in the prompts, "BigQuery" or "DuckDB"
	Dialect        string
	MaxAttempts    int
	HistoryTurns   int
	SummaryMaxRows int
	AppVersion     string
	IpHashSalt     string
	QueryOptions   models.QueryOptions
}

type ChatbotUsecase struct {
	config    Config
	prompts   promptLoader
	warehouse ChatbotWarehouseRepository
	llm       ChatbotLlmRepository
	catalog   ChatbotCatalogRepository
	sessions  ChatbotSessionRepository
	logs      ChatbotLogRepository

	newId func() string
	now   func() time.Time
}

func NewChatbotUsecase(
	config Config,
	warehouse ChatbotWarehouseRepository,
	llm ChatbotLlmRepository,
	catalog ChatbotCatalogRepository,
	sessions ChatbotSessionRepository,
	logs ChatbotLogRepository,
) *ChatbotUsecase {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	if config.HistoryTurns <= 0 {
		config.HistoryTurns = DEFAULT_HISTORY_TURNS
	}
	if config.SummaryMaxRows <= 0 {
		config.SummaryMaxRows = DEFAULT_SUMMARY_MAX_ROWS
	}
	if config.Dialect == "" {
		config.Dialect = DEFAULT_DIALECT
	}

	return &ChatbotUsecase{
		config: config,
		prompts: promptLoader{
			promptsDir:         config.PromptsDir,
			defaultModel:       config.DefaultModel,
			qualifiedTableName: warehouse.QualifiedTableName,
		},
		warehouse: warehouse,
		llm:       llm,
		catalog:   catalog,
		sessions:  sessions,
		logs:      logs,
		newId:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

// question holds what every attempt of a question shares.
type question struct {
	input       models.QuestionInput
	baseContext string
	logContext  models.LogContext
}

type attemptState struct {
	attempt           int
	outcome           string
	generated         GeneratedSql
	result            models.QueryResult
	zeroResultHistory []string
	errorHistory      []string
}

func (s *attemptState) recordOutcome(outcome string) {
	s.outcome = outcome
	utils.MetricAttemptCount.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// AskQuestion turns a natural language question into SQL, runs it and summarizes the rows. Failed,
// empty and blocked queries still produce an answer; only invalid input, session access errors and
// context cancellation return an error.
func (uc *ChatbotUsecase) AskQuestion(ctx context.Context, input models.QuestionInput) (models.Answer, error) {
	logger := utils.LoggerFromContext(ctx)
	ctx, span := utils.OpenTelemetryTracerFromContext(ctx).Start(ctx, "chatbot.ask_question")
	defer span.End()

	start := uc.now()

	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return models.Answer{}, models.ErrEmptyQuestion
	}
	if !input.Filters.Channel.IsValid() {
		return models.Answer{}, errors.Wrapf(models.ErrInvalidChannel, "channel '%s'", input.Filters.Channel)
	}
	if input.SessionId == "" {
		input.SessionId = uc.newId()
	}
	if input.QuestionId == "" {
		input.QuestionId = uc.newId()
	}
	span.SetAttributes(
		attribute.String("session_id", input.SessionId),
		attribute.String("question_id", input.QuestionId),
		attribute.Bool("follow_up", input.IsFollowUp),
	)

	history, err := uc.sessionHistory(ctx, input.SessionId, input.UserId)
	if err != nil {
		return models.Answer{}, err
	}

	var conversationParts []string
	if input.IsFollowUp {
		conversationParts = conversationContextParts(history)
	} else {
		conversationParts = conversationContextParts(nil)
	}

	q := question{
		input:       input,
		baseContext: baseContext(conversationParts, input.Text, input.IsFollowUp, filtersContext(input.Filters)),
		logContext: models.LogContext{
			QuestionId: input.QuestionId,
			UserId:     input.UserId,
			SessionId:  input.SessionId,
			AppVersion: uc.config.AppVersion,
			ExtraMetadata: map[string]any{
				"filters": filtersMetadata(input.Filters),
				"dialect": uc.config.Dialect,
			},
		},
	}

	state := &attemptState{}
	err = retry.Do(
		func() error { return uc.runAttempt(ctx, q, state) },
		retry.Context(ctx),
		retry.Attempts(uint(uc.config.MaxAttempts)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.Answer{}, errors.Wrap(ctxErr, "question aborted")
	}
	if err != nil {
		logger.DebugContext(ctx, "no rows for question after all attempts",
			"question_id", input.QuestionId, "attempts", state.attempt, "error", err)
	}

	turn := models.Turn{
		QuestionId:     input.QuestionId,
		Question:       input.Text,
		Sql:            state.generated.Sql,
		IsFollowUp:     input.IsFollowUp,
		SelectedTables: state.generated.SelectedTables,
		AttemptCount:   state.attempt,
		AskedAt:        start,
	}

	switch state.outcome {
	case utils.AttemptOutcomeRows:
		turn.Status = models.AnswerStatusAnswered
		turn.Result = state.result
		summary, err := uc.summarize(ctx, input.Text, turn.Sql, state.result, history)
		if err != nil {
			logger.WarnContext(ctx, "could not summarize query results", "question_id", input.QuestionId, "error", err.Error())
			summary = summaryUnavailable(input.Text)
		}
		turn.Summary = summary
	case utils.AttemptOutcomeBlocked:
		turn.Status = models.AnswerStatusBlocked
		turn.Summary = blockedSummary(input.Text)
	case utils.AttemptOutcomeZeroRows:
		turn.Status = models.AnswerStatusNoResults
		turn.Summary = noResultsSummary(input.Text, state.attempt)
	default:
		turn.Status = models.AnswerStatusFailed
		turn.Summary = failedSummary(input.Text, state.attempt, state.errorHistory)
	}

	elapsed := uc.now().Sub(start)
	turn.Latency = elapsed.Round(time.Second)

	if _, err := uc.sessions.AppendTurn(ctx, input.SessionId, input.UserId, turn); err != nil {
		return models.Answer{}, errors.Wrap(err, "could not record the answer in the session")
	}

	answer := models.Answer{Turn: turn, SessionId: input.SessionId}
	if input.IsFollowUp && len(history) > 0 {
		answer.PreviousQuestion = history[len(history)-1].Question
	}

	if turn.Status != models.AnswerStatusBlocked {
		uc.logQuestion(ctx, q, answer, conversationParts)
	}

	span.SetAttributes(attribute.String("status", string(turn.Status)), attribute.Int("attempts", turn.AttemptCount))
	utils.MetricQuestionCount.With(prometheus.Labels{
		"status":    string(turn.Status),
		"follow_up": fmt.Sprintf("%t", input.IsFollowUp),
	}).Inc()
	utils.MetricQuestionLatency.With(prometheus.Labels{"status": string(turn.Status)}).Observe(elapsed.Seconds())

	logger.InfoContext(ctx, "question answered",
		"question_id", input.QuestionId,
		"session_id", input.SessionId,
		"status", turn.Status,
		"attempts", turn.AttemptCount,
		"rows", turn.Result.RowCount(),
		"duration", elapsed.String(),
	)

	return answer, nil
}

// attemptErrorEntry formats a failed attempt for the next prompt. The SQL is empty when generation itself failed.
func attemptErrorEntry(attempt int, sql string, err error) string {
	return fmt.Sprintf("[Attempt %d]\nSQL:\n%s\nError:\n%s", attempt, sql, err.Error())
}

func (uc *ChatbotUsecase) runAttempt(ctx context.Context, q question, state *attemptState) error {
	if err := ctx.Err(); err != nil {
		return retry.Unrecoverable(err)
	}
	state.attempt++
	ctx, span := utils.OpenTelemetryTracerFromContext(ctx).Start(ctx, "chatbot.attempt")
	defer span.End()
	span.SetAttributes(attribute.Int("attempt", state.attempt))

	requestText := attemptContext(q.baseContext, uc.config.Dialect, state.zeroResultHistory, state.errorHistory)

	generated, err := uc.generateSql(ctx, requestText)
	if err != nil {
		state.recordOutcome(utils.AttemptOutcomeLlmError)
		state.errorHistory = append(state.errorHistory, attemptErrorEntry(state.attempt, "", err))
		uc.logError(ctx, models.ErrorLog{
			LogContext:    q.logContext,
			QuestionText:  q.input.Text,
			ErrorMessage:  err.Error(),
			ErrorType:     models.ErrorTypeLlmError,
			AttemptNumber: state.attempt,
			StackTrace:    fmt.Sprintf("%+v", err),
		})
		if errors.Is(err, models.ErrLlmNotConfigured) {
			return retry.Unrecoverable(err)
		}
		return err
	}
	state.generated = generated

	if !IsSafeSql(generated.Sql, uc.config.Dialect) {
		state.recordOutcome(utils.AttemptOutcomeBlocked)
		uc.logError(ctx, models.ErrorLog{
			LogContext:    q.logContext,
			QuestionText:  q.input.Text,
			GeneratedSql:  generated.Sql,
			ErrorMessage:  models.ErrUnsafeSql.Error(),
			ErrorType:     models.ErrorTypeSafetyBlocked,
			AttemptNumber: state.attempt,
		})
		return retry.Unrecoverable(models.ErrUnsafeSql)
	}

	result, err := uc.warehouse.RunQuery(ctx, generated.Sql, uc.queryOptions(q.input.QuestionId))
	if err != nil {
		state.recordOutcome(utils.AttemptOutcomeQueryFail)
		state.errorHistory = append(state.errorHistory, attemptErrorEntry(state.attempt, generated.Sql, err))
		uc.logError(ctx, models.ErrorLog{
			LogContext:    q.logContext,
			QuestionText:  q.input.Text,
			GeneratedSql:  generated.Sql,
			ErrorMessage:  err.Error(),
			ErrorType:     models.ErrorTypeQueryError,
			AttemptNumber: state.attempt,
			StackTrace:    fmt.Sprintf("%+v", err),
		})
		return err
	}
	utils.MetricWarehouseBytesProcessed.Add(float64(result.TotalBytesProcessed))

	if result.IsEmpty() {
		state.recordOutcome(utils.AttemptOutcomeZeroRows)
		state.zeroResultHistory = append(state.zeroResultHistory,
			fmt.Sprintf("[Attempt %d] %s", state.attempt, generated.Sql))
		if err := uc.logs.LogZeroResult(ctx, models.ZeroResultLog{
			LogContext:     q.logContext,
			EventTimestamp: uc.now(),
			QuestionText:   q.input.Text,
			GeneratedSql:   generated.Sql,
			AttemptNumber:  state.attempt,
		}); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write zero result log", "error", err.Error())
		}
		return models.ErrZeroRowsReturned
	}

	state.recordOutcome(utils.AttemptOutcomeRows)
	state.result = result
	return nil
}

// sessionHistory returns the last turns of the session. An unknown session has no history.
func (uc *ChatbotUsecase) sessionHistory(ctx context.Context, sessionId, userId string) ([]models.Turn, error) {
	session, err := uc.sessions.GetSession(ctx, sessionId, userId)
	if errors.Is(err, models.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session.LastTurns(uc.config.HistoryTurns), nil
}

func (uc *ChatbotUsecase) queryOptions(questionId string) models.QueryOptions {
	opts := uc.config.QueryOptions
	opts.Labels = map[string]string{"app": QUERY_LABEL_APP, "question_id": questionId}
	maps.Copy(opts.Labels, uc.config.QueryOptions.Labels)
	return opts
}

func (uc *ChatbotUsecase) logError(ctx context.Context, log models.ErrorLog) {
	log.EventTimestamp = uc.now()
	if err := uc.logs.LogError(ctx, log); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write error log", "error", err.Error())
	}
}

func (uc *ChatbotUsecase) logQuestion(ctx context.Context, q question, answer models.Answer, conversationParts []string) {
	logContext := q.logContext
	logContext.ExtraMetadata = maps.Clone(q.logContext.ExtraMetadata)
	logContext.ExtraMetadata["status"] = answer.Status
	logContext.ExtraMetadata["selected_tables"] = answer.SelectedTables

	err := uc.logs.LogQuestion(ctx, models.QuestionLog{
		LogContext:       logContext,
		EventTimestamp:   uc.now(),
		IsFollowUp:       q.input.IsFollowUp,
		PreviousQuestion: answer.PreviousQuestion,
		QuestionText:     q.input.Text,
		GeneratedSql:     answer.Sql,
		SummaryMd:        answer.Summary,
		ContextHistory:   strings.Join(conversationParts, "\n"),
		RowsReturned:     answer.Result.RowCount(),
		AttemptCount:     answer.AttemptCount,
		LatencySeconds:   int(answer.Latency / time.Second),
		UserAgent:        q.input.UserAgent,
		IpHash:           utils.HashIp(q.input.ClientIp, uc.config.IpHashSalt),
	})
	if err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write question log", "error", err.Error())
	}
}

func filtersMetadata(filters models.Filters) map[string]any {
	metadata := map[string]any{}
	if filters.Store != "" {
		metadata["store"] = filters.Store
	}
	if filters.Department != "" {
		metadata["department"] = filters.Department
	}
	if filters.Channel != models.ChannelAny {
		metadata["channel"] = string(filters.Channel)
	}
	if filters.DateFrom != nil {
		metadata["date_from"] = filters.DateFrom.Format(time.DateOnly)
	}
	if filters.DateTo != nil {
		metadata["date_to"] = filters.DateTo.Format(time.DateOnly)
	}
	return metadata
}
