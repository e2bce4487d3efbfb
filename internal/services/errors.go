// Package services holds the business logic of the exit-page backend: the
// farewell generation pipeline, availability tracking, drafts, the wizard
// and page comments/reactions. This file centralizes the service-level error
// values so that handlers can map them to HTTP results consistently.
package services

import "errors"

// Generation and wizard errors.
var (
	// ErrInvalidRequest is returned when a generation request misses a
	// required field. It is raised before any cache or network activity.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrStepIncomplete is returned by the wizard when the current step's
	// required fields are not filled in. Use errors.As with *StepError to
	// read the missing field names.
	ErrStepIncomplete = errors.New("wizard step incomplete")

	// ErrDraftNotFound indicates that the session has no stored draft.
	ErrDraftNotFound = errors.New("draft not found")
)

// Page interaction errors.
var (
	// ErrPageNotFound indicates that no published page exists for the id.
	ErrPageNotFound = errors.New("page not found")

	// ErrEmptyComment is returned when a comment body is blank after
	// sanitizing.
	ErrEmptyComment = errors.New("comment is empty")

	// ErrTooLong is returned when a comment exceeds the configured limit.
	ErrTooLong = errors.New("comment too long")

	// ErrCommentNotFound indicates that the comment does not exist on the page.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrForbiddenComment is returned when a session deletes a comment it
	// neither wrote nor owns the page of.
	ErrForbiddenComment = errors.New("cannot delete this comment")

	// ErrInvalidReaction is returned for reaction kinds outside the allowed set.
	ErrInvalidReaction = errors.New("invalid reaction kind")

	// ErrDuplicateReaction is returned when a visitor reacts twice to a page.
	ErrDuplicateReaction = errors.New("reaction already exists")
)

// StepError lists the fields that block leaving a wizard step. It matches
// ErrStepIncomplete under errors.Is.
type StepError struct {
	Step    string
	Missing []string
}

func (e *StepError) Error() string {
	return ErrStepIncomplete.Error() + ": " + e.Step
}

// Is reports whether target is ErrStepIncomplete.
func (e *StepError) Is(target error) bool { return target == ErrStepIncomplete }
