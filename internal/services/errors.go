package services

import "errors"

// Standard service errors surfaced to the UI layer
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTimeout            = errors.New("operation timed out")

	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrInvalidDraftID = errors.New("invalid draft ID")
	ErrInvalidEmailID = errors.New("invalid email ID")

	ErrStoreUnavailable = errors.New("local store unavailable")
)
