package models

import "time"

type ChatbotErrorType string

const (
	ErrorTypeQueryError    ChatbotErrorType = "BQ_QUERY_ERROR"
	ErrorTypeLlmError      ChatbotErrorType = "LLM_ERROR"
	ErrorTypeSafetyBlocked ChatbotErrorType = "SAFETY_BLOCKED"
)

// LogContext carries the fields shared by every chatbot log row.
type LogContext struct {
	QuestionId    string
	UserId        string
	SessionId     string
	AppVersion    string
	ExtraMetadata map[string]any
}

type QuestionLog struct {
	LogContext
	EventTimestamp   time.Time
	IsFollowUp       bool
	PreviousQuestion string
	QuestionText     string
	GeneratedSql     string
	SummaryMd        string
	ContextHistory   string
	RowsReturned     int
	AttemptCount     int
	LatencySeconds   int
	UserAgent        string
	IpHash           string
}

type ErrorLog struct {
	LogContext
	EventTimestamp time.Time
	QuestionText   string
	GeneratedSql   string
	ErrorMessage   string
	ErrorType      ChatbotErrorType
	AttemptNumber  int
	StackTrace     string
}

type ZeroResultLog struct {
	LogContext
	EventTimestamp time.Time
	QuestionText   string
	GeneratedSql   string
	AttemptNumber  int
}

type VoteFeedback struct {
	LogContext
	EventTimestamp time.Time
	Vote           VoteValue
	QuestionText   string
	SummaryMd      string
	ReasonFreeText string
}
