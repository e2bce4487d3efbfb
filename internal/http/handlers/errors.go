// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name business failures that status alone cannot convey.
// Clients are expected to branch on these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "step_incomplete",
//	  "message": "step \"context\" is missing author_name"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeStepIncomplete  = "step_incomplete"
	ErrCodeDraftNotFound   = "draft_not_found"
	ErrCodePageNotFound    = "page_not_found"
	ErrCodeGenerateFailed  = "generate_failed"
	ErrCodeStorageFailed   = "storage_failed"
	ErrCodeListFailed      = "list_failed"
	ErrCodeCreateFailed    = "create_failed"
	ErrCodeCommentTooLong  = "comment_too_long"
	ErrCodeInvalidReaction = "invalid_reaction"
	ErrCodeAlreadyReacted  = "already_reacted"
)
