// Package errors provides standardized error handling for the daily pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeConfiguration covers missing credentials or an unusable
	// filter window, detected before the pipeline starts.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// ErrCodeFetchFailed covers scraping provider errors and runs that
	// return no usable dataset.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"

	// ErrCodePersistFailed covers filesystem failures while writing
	// snapshot or analysis artifacts.
	ErrCodePersistFailed ErrorCode = "PERSIST_FAILED"

	// ErrCodeExtractionDegraded covers LLM call or response validation
	// failures. The run continues with zero insights.
	ErrCodeExtractionDegraded ErrorCode = "EXTRACTION_DEGRADED"

	// ErrCodePublishFailed covers git publish failures. Logged, never fatal.
	ErrCodePublishFailed ErrorCode = "PUBLISH_FAILED"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fatal     bool                   `json:"fatal"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError creates a fatal pre-run configuration error.
func NewConfigurationError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeConfiguration,
		Message:   "Invalid or incomplete configuration",
		Details:   details,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchFailedError creates a fatal scraping provider error.
func NewFetchFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeFetchFailed,
		Message:   "Scraping provider call failed",
		Details:   err.Error(),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistFailedError creates a fatal filesystem persistence error.
func NewPersistFailedError(path string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePersistFailed,
		Message:   "Failed to persist artifact",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionDegradedError creates a non-fatal extraction error. The
// run that produced it still completes with an empty insight list.
func NewExtractionDegradedError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeExtractionDegraded,
		Message:   "Insight extraction degraded to empty result",
		Details:   details,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublishFailedError creates a non-fatal git publish error.
func NewPublishFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePublishFailed,
		Message:   "Publishing data artifacts failed",
		Details:   err.Error(),
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsPipelineError unwraps err into a *PipelineError if possible.
func AsPipelineError(err error) (*PipelineError, bool) {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// CodeOf returns the error code for err, or "UNKNOWN" for foreign errors.
func CodeOf(err error) ErrorCode {
	if perr, ok := AsPipelineError(err); ok {
		return perr.Code
	}
	return "UNKNOWN"
}

// IsFatal reports whether err should abort the current run. Foreign
// errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if perr, ok := AsPipelineError(err); ok {
		return perr.Fatal
	}
	return true
}
