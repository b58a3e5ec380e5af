// internal/pipeline/snapshot/handler.go
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/models"
)

// FileName returns the dated snapshot filename for t: DDMMYY_data.json.
func FileName(t time.Time) string {
	return t.Format("020106") + "_data.json"
}

type Handler struct {
	dir    string
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(dir string, log logger.Logger) *Handler {
	return &Handler{
		dir: dir,
		logger: log.With(map[string]interface{}{
			"stage": "snapshot",
		}),
		now: time.Now,
	}
}

// Write persists the raw records as the day's snapshot, creating the
// directory if needed. Same-day reruns overwrite: one file per day.
func (h *Handler) Write(records []models.RawPost) (string, error) {
	if records == nil {
		records = []models.RawPost{}
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", pipeerrors.NewPersistFailedError(h.dir, err)
	}

	path := filepath.Join(h.dir, FileName(h.now()))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", pipeerrors.NewPersistFailedError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", pipeerrors.NewPersistFailedError(path, err)
	}

	h.logSnapshotStats(path, records, len(data))

	return path, nil
}

// logSnapshotStats reports file size and author counts. Observability
// only; nothing downstream reads these numbers.
func (h *Handler) logSnapshotStats(path string, records []models.RawPost, size int) {
	uniqueUsers := make(map[string]struct{})
	var verified, blueVerified int
	for _, record := range records {
		if username := record.Username(); username != "" {
			uniqueUsers[username] = struct{}{}
		}
		if record.IsVerified() {
			verified++
		}
		if record.IsBlueVerified() {
			blueVerified++
		}
	}

	h.logger.Info("snapshot written", map[string]interface{}{
		"path":          path,
		"records":       len(records),
		"bytes":         size,
		"uniqueUsers":   len(uniqueUsers),
		"verifiedUsers": verified,
		"blueVerified":  blueVerified,
	})
}
