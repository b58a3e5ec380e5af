// internal/dashboard/server.go
package dashboard

import (
	"bytes"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/common/metrics"
	"ideas-pipeline/internal/models"
)

// Server renders analysis documents as a read-only HTML dashboard.
// State lives on disk only; every request loads fresh data for its
// date.
type Server struct {
	loader *Loader
	logger logger.Logger
	now    func() time.Time
}

func NewServer(loader *Loader, log logger.Logger) *Server {
	return &Server{
		loader: loader,
		logger: log.With(map[string]interface{}{
			"component": "dashboard",
		}),
		now: time.Now,
	}
}

// Handler exposes the dashboard page plus health and metrics endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.now().Format("020106")
	}

	view := pageView{Date: date, State: LoadStateOK}
	statusCode := http.StatusOK

	doc, loadErr := s.loader.Load(date)
	if loadErr != nil {
		view.State = loadErr.State
		view.Message = loadErr.Message
		if loadErr.State == LoadStateNotFound {
			statusCode = http.StatusNotFound
		}
	} else {
		view.Doc = toDocView(doc)
	}

	metrics.DashboardRequests.WithLabelValues(string(view.State)).Inc()

	// Render into a buffer first so a template failure never produces a
	// half-written page.
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		s.logger.Error("failed to render dashboard page", map[string]interface{}{
			"date":  date,
			"error": err.Error(),
		})
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func toDocView(doc *models.AnalysisDocument) *modelsDoc {
	out := &modelsDoc{
		TotalTweetsAnalyzed:  doc.Summary.TotalTweetsAnalyzed,
		ProductRequestsFound: doc.Summary.ProductRequestsFound,
		InputTokens:          doc.Summary.TokenUsage.InputTokens,
		OutputTokens:         doc.Summary.TokenUsage.OutputTokens,
		TotalTokens:          doc.Summary.TokenUsage.TotalTokens,
	}
	for _, req := range doc.ProductRequests {
		rv := requestView{
			Category:       req.Category,
			Description:    req.Description,
			PainPoint:      req.PainPoint,
			TargetAudience: req.TargetAudience,
			UrgencyLevel:   req.UrgencyLevel,
		}
		for _, tw := range req.Tweets {
			rv.Tweets = append(rv.Tweets, tweetView{
				ID:              tw.ID,
				Text:            tw.Text,
				UserHandle:      tw.UserHandle,
				CreatedAt:       tw.CreatedAt,
				EngagementScore: tw.EngagementScore,
				URL:             tw.URL,
			})
		}
		out.Requests = append(out.Requests, rv)
	}
	return out
}
