package middleware

import "errors"

var (
	ErrEmptyQuery       = errors.New("query must not be empty")
	ErrQueryTooLong     = errors.New("query exceeds maximum length")
	ErrInvalidHistory   = errors.New("conversation history entries need a role and content")
	ErrMissingModelID   = errors.New("model id is not configured")
	ErrMissingDatabase  = errors.New("database connection is not configured")
	ErrMissingEmbedding = errors.New("embedding model id is not configured")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}
