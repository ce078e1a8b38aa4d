// Package common defines shared constants and sentinel errors used across
// the layers of Puntos. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors. Input is rejected before any state is touched.
	ErrEmptyReason      = errors.New("reason must not be empty")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidTarget    = errors.New("mission target must be a positive integer")
	ErrInvalidReward    = errors.New("mission reward must be a positive integer")
	ErrUnknownCondition = errors.New("unknown mission condition")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidUserName  = errors.New("user name must not be empty")
	ErrEmptyTitle       = errors.New("mission title must not be empty")

	// Auth errors (clear-history password mismatch).
	ErrWrongPassword = errors.New("wrong password")

	// Directory errors.
	ErrDuplicateUser = errors.New("user already exists")
	ErrUnknownUser   = errors.New("unknown user")

	// Mission lookup.
	ErrMissionNotFound = errors.New("mission not found")

	// Persistence errors. A corrupt or missing local document is recovered
	// by falling back to the default state, these are for callers that need
	// to tell the two apart.
	ErrNotFound        = errors.New("not found")
	ErrCorruptDocument = errors.New("corrupt document")

	// Sync errors. Never fatal, never block local operation.
	ErrSyncDisabled = errors.New("sync is not enabled")
)
