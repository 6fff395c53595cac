package bqmodels

import (
	"time"

	"cloud.google.com/go/bigquery"
)

type LogTableDefinition struct {
	Description      string
	Schema           bigquery.Schema
	ClusteringFields []string
}

func eventTimestampField(description string) *bigquery.FieldSchema {
	return &bigquery.FieldSchema{
		Name:                   "event_timestamp",
		Type:                   bigquery.TimestampFieldType,
		Required:               true,
		DefaultValueExpression: "CURRENT_TIMESTAMP()",
		Description:            description,
	}
}

func stringField(name, description string) *bigquery.FieldSchema {
	return &bigquery.FieldSchema{Name: name, Type: bigquery.StringFieldType, Description: description}
}

func integerField(name, description string) *bigquery.FieldSchema {
	return &bigquery.FieldSchema{Name: name, Type: bigquery.IntegerFieldType, Description: description}
}

var (
	appVersionField    = stringField("app_version", "App/build version tag if set")
	extraMetadataField = &bigquery.FieldSchema{Name: "extra_metadata", Type: bigquery.JSONFieldType, Description: "Any additional key/values"}
)

var QuestionLogTable = LogTableDefinition{
	Description: "One row per answered question",
	Schema: bigquery.Schema{
		eventTimestampField("Server time when the question was processed"),
		stringField("question_id", "UUID for this question/turn if available"),
		stringField("user_id", "Authenticated user id or email (if available)"),
		stringField("session_id", "Client/session identifier (cookie or oauth session id)"),
		{Name: "is_follow_up", Type: bigquery.BooleanFieldType, Description: "True if this turn is a follow-up"},
		stringField("previous_question", "Free-text of previous question if follow-up"),
		stringField("question_text", "Original user prompt/question"),
		stringField("generated_sql", "SQL produced for this question"),
		stringField("summary_md", "Markdown summary returned to the user"),
		stringField("context_history", "Flattened conversational context passed to LLM"),
		integerField("rows_returned", "Row count of the final result shown to the user"),
		integerField("attempt_count", "How many attempts/retries this answer required"),
		integerField("latency_seconds", "Wall-clock seconds from submit to answer"),
		appVersionField,
		stringField("user_agent", "Caller user agent if captured"),
		stringField("ip_hash", "Hashed IP for coarse telemetry (optional)"),
		extraMetadataField,
	},
	ClusteringFields: []string{"is_follow_up", "user_id", "session_id"},
}

var ErrorLogTable = LogTableDefinition{
	Description: "SQL generation and execution errors",
	Schema: bigquery.Schema{
		eventTimestampField("Server time when the error was logged"),
		stringField("question_id", "UUID of the question turn that failed"),
		stringField("user_id", "Authenticated user id/email (if available)"),
		stringField("session_id", "Client/session identifier"),
		stringField("question_text", "User question at time of error"),
		stringField("generated_sql", "SQL that triggered the error (if any)"),
		stringField("error_message", "Top-level error text/exception message"),
		stringField("error_type", "Short classifier, e.g., BQ_QUERY_ERROR, SAFETY_BLOCKED"),
		integerField("attempt_number", "Attempt index when this error occurred"),
		stringField("stack_trace", "Optional traceback text"),
		appVersionField,
		extraMetadataField,
	},
	ClusteringFields: []string{"error_type", "user_id", "session_id"},
}

var ZeroResultLogTable = LogTableDefinition{
	Description: "Generated queries that returned no rows",
	Schema: bigquery.Schema{
		eventTimestampField("Server time when zero-result was observed"),
		stringField("question_id", "UUID of the question turn that returned zero rows"),
		stringField("user_id", "Authenticated user id/email (if available)"),
		stringField("session_id", "Client/session identifier"),
		stringField("question_text", "User question at time of zero-result"),
		stringField("generated_sql", "SQL that returned zero rows"),
		integerField("attempt_number", "Attempt index when zero-result occurred"),
		appVersionField,
		extraMetadataField,
	},
	ClusteringFields: []string{"user_id", "session_id"},
}

var VoteFeedbackTable = LogTableDefinition{
	Description: "User votes on answers",
	Schema: bigquery.Schema{
		eventTimestampField("Server time when the vote was recorded"),
		stringField("question_id", "UUID of the question turn being rated"),
		stringField("user_id", "Authenticated user id/email (if available)"),
		stringField("session_id", "Client/session identifier"),
		stringField("vote", "UP or DOWN"),
		stringField("question_text", "Question that was rated"),
		stringField("summary_md", "Answer/summary text that was rated"),
		stringField("reason_free_text", "Optional user-supplied reason/comment"),
		appVersionField,
		extraMetadataField,
	},
	ClusteringFields: []string{"vote", "user_id", "session_id"},
}

// TableMetadata partitions the table by day on event_timestamp. A zero expiration keeps partitions forever.
func (d LogTableDefinition) TableMetadata(partitionExpiration time.Duration) *bigquery.TableMetadata {
	return &bigquery.TableMetadata{
		Description: d.Description,
		Schema:      d.Schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:       bigquery.DayPartitioningType,
			Field:      "event_timestamp",
			Expiration: partitionExpiration,
		},
		Clustering: &bigquery.Clustering{Fields: d.ClusteringFields},
	}
}
