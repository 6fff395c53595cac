package bqmodels

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/trilytx/trilytx-backend/models"
)

// Row types streamed into the chatbot log tables. Each one implements bigquery.ValueSaver.

type QuestionLogRow struct {
	Log models.QuestionLog
}

type ErrorLogRow struct {
	Log models.ErrorLog
}

type ZeroResultLogRow struct {
	Log models.ZeroResultLog
}

type VoteFeedbackRow struct {
	Log models.VoteFeedback
}

func (r QuestionLogRow) Save() (map[string]bigquery.Value, string, error) {
	row := contextValues(r.Log.LogContext, r.Log.EventTimestamp)
	row["is_follow_up"] = r.Log.IsFollowUp
	row["previous_question"] = nullableString(r.Log.PreviousQuestion)
	row["question_text"] = r.Log.QuestionText
	row["generated_sql"] = nullableString(r.Log.GeneratedSql)
	row["summary_md"] = nullableString(r.Log.SummaryMd)
	row["context_history"] = nullableString(r.Log.ContextHistory)
	row["rows_returned"] = r.Log.RowsReturned
	row["attempt_count"] = r.Log.AttemptCount
	row["latency_seconds"] = r.Log.LatencySeconds
	row["user_agent"] = nullableString(r.Log.UserAgent)
	row["ip_hash"] = nullableString(r.Log.IpHash)

	extra, err := extraMetadata(r.Log.ExtraMetadata)
	if err != nil {
		return nil, "", err
	}
	row["extra_metadata"] = extra

	return row, insertId("question", r.Log.QuestionId, 0), nil
}

func (r ErrorLogRow) Save() (map[string]bigquery.Value, string, error) {
	row := contextValues(r.Log.LogContext, r.Log.EventTimestamp)
	row["question_text"] = r.Log.QuestionText
	row["generated_sql"] = nullableString(r.Log.GeneratedSql)
	row["error_message"] = r.Log.ErrorMessage
	row["error_type"] = string(r.Log.ErrorType)
	row["attempt_number"] = r.Log.AttemptNumber
	row["stack_trace"] = nullableString(r.Log.StackTrace)

	extra, err := extraMetadata(r.Log.ExtraMetadata)
	if err != nil {
		return nil, "", err
	}
	row["extra_metadata"] = extra

	return row, insertId("error", r.Log.QuestionId, r.Log.AttemptNumber), nil
}

func (r ZeroResultLogRow) Save() (map[string]bigquery.Value, string, error) {
	row := contextValues(r.Log.LogContext, r.Log.EventTimestamp)
	row["question_text"] = r.Log.QuestionText
	row["generated_sql"] = r.Log.GeneratedSql
	row["attempt_number"] = r.Log.AttemptNumber

	extra, err := extraMetadata(r.Log.ExtraMetadata)
	if err != nil {
		return nil, "", err
	}
	row["extra_metadata"] = extra

	return row, insertId("zero", r.Log.QuestionId, r.Log.AttemptNumber), nil
}

func (r VoteFeedbackRow) Save() (map[string]bigquery.Value, string, error) {
	row := contextValues(r.Log.LogContext, r.Log.EventTimestamp)
	row["vote"] = string(r.Log.Vote)
	row["question_text"] = r.Log.QuestionText
	row["summary_md"] = nullableString(r.Log.SummaryMd)
	row["reason_free_text"] = nullableString(r.Log.ReasonFreeText)

	extra, err := extraMetadata(r.Log.ExtraMetadata)
	if err != nil {
		return nil, "", err
	}
	row["extra_metadata"] = extra

	// a user may change their vote, every change is a new row
	return row, bigquery.NoDedupeID, nil
}

func contextValues(logContext models.LogContext, eventTimestamp time.Time) map[string]bigquery.Value {
	if eventTimestamp.IsZero() {
		eventTimestamp = time.Now()
	}
	return map[string]bigquery.Value{
		"event_timestamp": eventTimestamp.UTC(),
		"question_id":     nullableString(logContext.QuestionId),
		"user_id":         nullableString(logContext.UserId),
		"session_id":      nullableString(logContext.SessionId),
		"app_version":     nullableString(logContext.AppVersion),
	}
}

func nullableString(value string) bigquery.Value {
	if value == "" {
		return nil
	}
	return value
}

// JSON columns are streamed as their serialized text
func extraMetadata(metadata map[string]any) (bigquery.Value, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	serialized, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return string(serialized), nil
}

func insertId(kind, questionId string, attempt int) string {
	if questionId == "" {
		return bigquery.NoDedupeID
	}
	return fmt.Sprintf("%s-%s-%d", kind, questionId, attempt)
}
