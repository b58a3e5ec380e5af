// internal/pipeline/analysis/handler.go
package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/models"
)

// FileName returns the dated analysis filename for t: DDMMYY_analysis.json.
func FileName(t time.Time) string {
	return t.Format("020106") + "_analysis.json"
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
			"stage": "analysis",
		}),
		now: time.Now,
	}
}

// Write persists the run as the day's analysis document: a summary
// block plus the insights with their posts denormalized inline, so the
// dashboard needs no join against the snapshot. Same-day reruns
// overwrite.
func (h *Handler) Write(run *models.AnalysisRun) (string, error) {
	insights := run.Insights
	if insights == nil {
		insights = []models.Insight{}
	}

	doc := models.AnalysisDocument{
		Summary: models.AnalysisSummary{
			TotalTweetsAnalyzed:  run.TotalPostsAnalyzed,
			ProductRequestsFound: len(insights),
			TokenUsage:           run.TokenUsage,
		},
		ProductRequests: insights,
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", pipeerrors.NewPersistFailedError(h.dir, err)
	}

	path := filepath.Join(h.dir, FileName(h.now()))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", pipeerrors.NewPersistFailedError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", pipeerrors.NewPersistFailedError(path, err)
	}

	h.logger.Info("analysis written", map[string]interface{}{
		"path":            path,
		"postsAnalyzed":   run.TotalPostsAnalyzed,
		"productRequests": len(insights),
		"totalTokens":     run.TokenUsage.TotalTokens,
		"bytes":           len(data),
	})

	return path, nil
}
