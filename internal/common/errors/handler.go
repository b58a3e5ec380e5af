// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler normalizes and logs stage errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStageError normalizes any error from a pipeline stage, stamps
// the stage into its metadata, logs it at a severity matching its
// fatality, and returns the normalized error.
func (h *ErrorHandler) HandleStageError(stage string, err error) *PipelineError {
	perr := h.normalizeError(err)
	if perr.Metadata == nil {
		perr.Metadata = map[string]interface{}{}
	}
	perr.Metadata["stage"] = stage
	h.logError(stage, perr)
	return perr
}

// normalizeError ensures we always have a PipelineError
func (h *ErrorHandler) normalizeError(err error) *PipelineError {
	if perr, ok := AsPipelineError(err); ok {
		return perr
	}
	return &PipelineError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(stage string, perr *PipelineError) {
	fields := map[string]interface{}{
		"stage":     stage,
		"errorCode": string(perr.Code),
		"details":   perr.Details,
		"fatal":     perr.Fatal,
		"timestamp": perr.Timestamp.Format(time.RFC3339),
	}
	if perr.Fatal {
		h.logger.Error("Stage failed", fields)
		return
	}
	h.logger.Warn("Stage degraded", fields)
}
