// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and supplement the human-readable "error"
// text with a stable, machine-readable value. Clients are expected to branch
// on the code rather than the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "error": "Mood is required"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeChatFailed   = "chat_failed"
	ErrCodeListFailed   = "list_failed"
	ErrCodeCreateFailed = "create_failed"
)
