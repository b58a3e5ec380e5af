// internal/dashboard/loader.go
package dashboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/models"
)

// ==========================
// Load States
// ==========================

// LoadState classifies the outcome of reading an analysis file. Every
// failure maps to one state so the page can render an actionable
// message instead of a stack trace.
type LoadState string

const (
	LoadStateOK               LoadState = "ok"
	LoadStateNotFound         LoadState = "not_found"
	LoadStatePermissionDenied LoadState = "permission_denied"
	LoadStateInvalidJSON      LoadState = "invalid_json"
	LoadStateMissingKey       LoadState = "missing_key"
	LoadStateWrongType        LoadState = "wrong_type"
)

// LoadError carries the state plus a message safe to show in a browser.
type LoadError struct {
	State   LoadState
	Message string
}

func (e *LoadError) Error() string {
	return e.Message
}

// ==========================
// Loader
// ==========================

// Loader reads persisted analysis documents for the dashboard. It never
// caches: every request re-reads the file for its date.
type Loader struct {
	dir    string
	logger logger.Logger
}

func NewLoader(dir string, log logger.Logger) *Loader {
	return &Loader{
		dir: dir,
		logger: log.With(map[string]interface{}{
			"component": "dashboard-loader",
		}),
	}
}

// Load reads the analysis document for a DDMMYY date key. Anything but
// a six-digit key is rejected before it reaches the filesystem, so a
// traversal-shaped date cannot escape the analysis directory.
func (l *Loader) Load(date string) (*models.AnalysisDocument, *LoadError) {
	if !validDateKey(date) {
		return nil, &LoadError{
			State:   LoadStateNotFound,
			Message: fmt.Sprintf("no analysis available for %q", date),
		}
	}

	path := filepath.Join(l.dir, date+"_analysis.json")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{
				State:   LoadStateNotFound,
				Message: fmt.Sprintf("no analysis available for %s", date),
			}
		}
		if os.IsPermission(err) {
			l.logger.Error("analysis file is not readable", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil, &LoadError{
				State:   LoadStatePermissionDenied,
				Message: fmt.Sprintf("analysis file for %s exists but is not readable", date),
			}
		}
		l.logger.Error("failed to read analysis file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil, &LoadError{
			State:   LoadStateNotFound,
			Message: fmt.Sprintf("no analysis available for %s", date),
		}
	}

	if !json.Valid(raw) {
		return nil, &LoadError{
			State:   LoadStateInvalidJSON,
			Message: fmt.Sprintf("analysis file for %s contains invalid JSON", date),
		}
	}

	// Probe the top level before the typed decode so a missing key and a
	// mistyped value produce different states.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &LoadError{
			State:   LoadStateWrongType,
			Message: fmt.Sprintf("analysis file for %s is not a JSON object", date),
		}
	}
	for _, key := range []string{"summary", "product_requests"} {
		if _, ok := probe[key]; !ok {
			return nil, &LoadError{
				State:   LoadStateMissingKey,
				Message: fmt.Sprintf("missing required information: %s", key),
			}
		}
	}

	var doc models.AnalysisDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{
			State:   LoadStateWrongType,
			Message: fmt.Sprintf("analysis file for %s has unexpected field types", date),
		}
	}

	return &doc, nil
}

func validDateKey(date string) bool {
	if len(date) != 6 {
		return false
	}
	for _, c := range date {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
