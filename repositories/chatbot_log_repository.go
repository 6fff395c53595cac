package repositories

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/repositories/bqmodels"
	"github.com/trilytx/trilytx-backend/utils"
)

// ChatbotLogRepository records analytics about the chatbot usage.
type ChatbotLogRepository interface {
	LogQuestion(ctx context.Context, log models.QuestionLog) error
	LogError(ctx context.Context, log models.ErrorLog) error
	LogZeroResult(ctx context.Context, log models.ZeroResultLog) error
	LogVote(ctx context.Context, log models.VoteFeedback) error
}

type BigQueryChatbotLogRepository struct {
	bqInfra *infra.BigQueryInfra
	config  infra.LogTablesConfig
}

func NewBigQueryChatbotLogRepository(bqInfra *infra.BigQueryInfra, config infra.LogTablesConfig) *BigQueryChatbotLogRepository {
	return &BigQueryChatbotLogRepository{
		bqInfra: bqInfra,
		config:  config,
	}
}

func put(ctx context.Context, table *bigquery.Table, row bigquery.ValueSaver) error {
	if table == nil {
		return errors.New("bigquery log table is not initialized")
	}
	if err := table.Inserter().Put(ctx, row); err != nil {
		return errors.Wrapf(err, "could not insert row into %s", table.FullyQualifiedName())
	}
	return nil
}

func (repo *BigQueryChatbotLogRepository) tables() *infra.BigQueryInfra {
	if repo.bqInfra == nil {
		return &infra.BigQueryInfra{}
	}
	return repo.bqInfra
}

func (repo *BigQueryChatbotLogRepository) LogQuestion(ctx context.Context, log models.QuestionLog) error {
	return put(ctx, repo.tables().QuestionTable, bqmodels.QuestionLogRow{Log: log})
}

func (repo *BigQueryChatbotLogRepository) LogError(ctx context.Context, log models.ErrorLog) error {
	return put(ctx, repo.tables().ErrorTable, bqmodels.ErrorLogRow{Log: log})
}

func (repo *BigQueryChatbotLogRepository) LogZeroResult(ctx context.Context, log models.ZeroResultLog) error {
	return put(ctx, repo.tables().ZeroResultTable, bqmodels.ZeroResultLogRow{Log: log})
}

func (repo *BigQueryChatbotLogRepository) LogVote(ctx context.Context, log models.VoteFeedback) error {
	return put(ctx, repo.tables().VoteTable, bqmodels.VoteFeedbackRow{Log: log})
}

// CreateLogTables creates the log dataset and tables if they do not exist yet.
func (repo *BigQueryChatbotLogRepository) CreateLogTables(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)
	bq := repo.tables()
	if bq.LogDataset == nil {
		return errors.New("bigquery log dataset is not initialized")
	}

	err := bq.LogDataset.Create(ctx, &bigquery.DatasetMetadata{
		Location:    repo.config.DatasetLocation,
		Description: "Chatbot usage analytics",
	})
	switch {
	case isGoogleApiStatus(err, http.StatusConflict):
		logger.InfoContext(ctx, "log dataset already exists", "dataset", bq.LogDataset.DatasetID)
	case err != nil:
		return errors.Wrapf(err, "could not create dataset %s", bq.LogDataset.DatasetID)
	default:
		logger.InfoContext(ctx, "created log dataset", "dataset", bq.LogDataset.DatasetID)
	}

	for _, item := range []struct {
		table      *bigquery.Table
		definition bqmodels.LogTableDefinition
	}{
		{bq.QuestionTable, bqmodels.QuestionLogTable},
		{bq.ErrorTable, bqmodels.ErrorLogTable},
		{bq.ZeroResultTable, bqmodels.ZeroResultLogTable},
		{bq.VoteTable, bqmodels.VoteFeedbackTable},
	} {
		if item.table == nil {
			return errors.New("bigquery log table is not initialized")
		}
		err := item.table.Create(ctx, item.definition.TableMetadata(repo.config.PartitionExpires))
		switch {
		case isGoogleApiStatus(err, http.StatusConflict):
			logger.InfoContext(ctx, "log table already exists", "table", item.table.TableID)
		case err != nil:
			return errors.Wrapf(err, "could not create table %s", item.table.TableID)
		default:
			logger.InfoContext(ctx, "created log table", "table", item.table.TableID)
		}
	}

	return nil
}

// SlogChatbotLogRepository writes the chatbot analytics to the application logs, for local development.
type SlogChatbotLogRepository struct{}

func (SlogChatbotLogRepository) LogQuestion(ctx context.Context, log models.QuestionLog) error {
	utils.LoggerFromContext(ctx).InfoContext(ctx, "chatbot question",
		logContextAttrs(log.LogContext),
		slog.Bool("is_follow_up", log.IsFollowUp),
		slog.String("question", log.QuestionText),
		slog.Int("rows_returned", log.RowsReturned),
		slog.Int("attempt_count", log.AttemptCount),
		slog.Duration("latency", time.Duration(log.LatencySeconds)*time.Second),
	)
	return nil
}

func (SlogChatbotLogRepository) LogError(ctx context.Context, log models.ErrorLog) error {
	utils.LoggerFromContext(ctx).WarnContext(ctx, "chatbot error",
		logContextAttrs(log.LogContext),
		slog.String("error_type", string(log.ErrorType)),
		slog.String("error", log.ErrorMessage),
		slog.Int("attempt", log.AttemptNumber),
		slog.String("sql", log.GeneratedSql),
	)
	return nil
}

func (SlogChatbotLogRepository) LogZeroResult(ctx context.Context, log models.ZeroResultLog) error {
	utils.LoggerFromContext(ctx).InfoContext(ctx, "chatbot zero result",
		logContextAttrs(log.LogContext),
		slog.Int("attempt", log.AttemptNumber),
		slog.String("sql", log.GeneratedSql),
	)
	return nil
}

func (SlogChatbotLogRepository) LogVote(ctx context.Context, log models.VoteFeedback) error {
	utils.LoggerFromContext(ctx).InfoContext(ctx, "chatbot vote",
		logContextAttrs(log.LogContext),
		slog.String("vote", string(log.Vote)),
		slog.String("reason", log.ReasonFreeText),
	)
	return nil
}

func logContextAttrs(logContext models.LogContext) slog.Attr {
	return slog.Group("chatbot",
		slog.String("question_id", logContext.QuestionId),
		slog.String("session_id", logContext.SessionId),
		slog.String("user_id", logContext.UserId),
	)
}
