package service

import "errors"

var (
	// ErrNotFound covers any referenced project or document that is absent
	// or not owned by the caller.
	ErrNotFound = errors.New("resource not found")

	// ErrStateMismatch is returned when a request targets the wrong workflow
	// state: a phase advance against a stale phase, or an unknown design step.
	ErrStateMismatch = errors.New("workflow state mismatch")

	// ErrInvalidInput is returned for structurally valid requests whose
	// content fails a domain rule (selection out of bounds, bad hex list).
	ErrInvalidInput = errors.New("invalid input")
)
