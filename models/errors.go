package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// RateLimitedError is rendered with the http status code 429
	RateLimitedError = errors.New("too many requests")

	// UnavailableError is rendered with the http status code 503
	UnavailableError = errors.New("service unavailable")
)

// Chatbot related errors
var (
	ErrEmptyQuestion    = errors.Wrap(BadParameterError, "question is empty")
	ErrInvalidVote      = errors.Wrap(BadParameterError, "vote must be UP or DOWN")
	ErrInvalidChannel   = errors.Wrap(BadParameterError, "unknown channel filter")
	ErrUnsafeSql        = errors.New("unsafe SQL detected, execution blocked")
	ErrSessionNotFound  = errors.Wrap(NotFoundError, "unknown chat session")
	ErrQuestionNotFound = errors.Wrap(NotFoundError, "unknown question in this session")
	ErrLlmNotConfigured = errors.Wrap(UnavailableError, "no LLM provider is configured")
)

// Warehouse related errors
var (
	ErrUnknownTable      = errors.Wrap(NotFoundError, "table is not part of the catalog")
	ErrInvalidTableRef   = errors.Wrap(BadParameterError, "table reference must be 'dataset.table' or 'project.dataset.table'")
	ErrZeroRowsReturned  = errors.New("query returned no rows")
	ErrWarehouseNotReady = errors.Wrap(UnavailableError, "warehouse is not initialized")
)
