// Package errors provides standardized error handling for the matchday
// organization pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Per-match data-quality defects. Matches carrying one of these are
	// excluded from partitioning and reported; other matches continue.
	ErrCodeMalformedIdentifier ErrorCode = "MALFORMED_IDENTIFIER"
	ErrCodeInvalidMatch        ErrorCode = "INVALID_MATCH"

	// Post-hoc detection of a team repeated within one round. Indicates
	// an engine defect: surfaced prominently in the quality report.
	ErrCodeIntegrityViolation ErrorCode = "INTEGRITY_VIOLATION"

	// Catastrophic structural failures that abort the whole run.
	ErrCodeEmptyDataset       ErrorCode = "EMPTY_DATASET"
	ErrCodeDatasetReadFailed  ErrorCode = "DATASET_READ_FAILED"
	ErrCodeDatasetWriteFailed ErrorCode = "DATASET_WRITE_FAILED"

	// Optional-sink failures. Never invalidate in-memory results.
	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMalformedIdentifierError flags a composite identifier that does not
// contain the expected delimiter structure.
func NewMalformedIdentifierError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedIdentifier,
		Message:   "Identifier does not match <slug>@/<sport>/<country>/<slug>-<season>/",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMatchError flags a match with identical home and away teams
// or a missing required date.
func NewInvalidMatchError(id, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMatch,
		Message:   "Match fails basic validity checks",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"matchId": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewIntegrityViolationError reports a team repeated within one round.
func NewIntegrityViolationError(seasonKey string, round int, team string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntegrityViolation,
		Message:   "Team appears twice within a single round",
		Details:   fmt.Sprintf("season: %s, round: %d, team: %s", seasonKey, round, team),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyDatasetError aborts a run that has no matches to process.
func NewEmptyDatasetError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyDataset,
		Message:   "Dataset contains no processable matches",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetReadFailedError wraps a failure to read the input dataset.
func NewDatasetReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetReadFailed,
		Message:   "Unable to read input dataset",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetWriteFailedError wraps a failure to write an output file.
func NewDatasetWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetWriteFailed,
		Message:   "Unable to write output file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError creates a retryable persistence error.
func NewStoreWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Database error while persisting run results",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Assignment cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
