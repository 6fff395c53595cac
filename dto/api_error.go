package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

type ErrorCode string

const (
	// question related
	EmptyQuestion  ErrorCode = "empty_question"
	InvalidFilters ErrorCode = "invalid_filters"
	InvalidVote    ErrorCode = "invalid_vote"

	// catalog related
	UnknownTable ErrorCode = "unknown_table"

	// general
	LlmNotConfigured ErrorCode = "llm_not_configured"
	RateLimited      ErrorCode = "rate_limited"
)
