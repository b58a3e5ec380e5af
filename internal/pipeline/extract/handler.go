// internal/pipeline/extract/handler.go
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/common/metrics"
	"ideas-pipeline/internal/gemini"
	"ideas-pipeline/internal/models"
)

// InsightProvider is the slice of the LLM client the extractor needs.
type InsightProvider interface {
	GenerateContent(ctx context.Context, prompt string) (*gemini.Result, error)
}

type Handler struct {
	provider InsightProvider
	logger   logger.Logger
}

func NewHandler(provider InsightProvider, log logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger: log.With(map[string]interface{}{
			"stage": "extract",
		}),
	}
}

// Extract runs the single LLM call over the batch and returns trusted
// insights. It never returns an error: every failure mode degrades to
// an empty insight list with zero token usage.
func (h *Handler) Extract(ctx context.Context, posts []models.NormalizedPost) ([]models.Insight, models.TokenUsage) {
	if len(posts) == 0 {
		h.logger.Warn("no posts provided for analysis", nil)
		return []models.Insight{}, models.TokenUsage{}
	}

	prompt := BuildPrompt(posts)
	h.logger.Info("sending analysis request", map[string]interface{}{
		"posts":        len(posts),
		"promptLength": len(prompt),
	})

	result, err := h.provider.GenerateContent(ctx, prompt)
	if err != nil {
		h.degrade("provider call failed", err)
		return []models.Insight{}, models.TokenUsage{}
	}

	candidates, err := h.parseCandidates(Sanitize(result.Text))
	if err != nil {
		h.degrade("response validation failed", err)
		return []models.Insight{}, models.TokenUsage{}
	}

	// Usage only counts once the response has passed validation; a
	// degraded run reports zero tokens.
	usage := result.Usage
	metrics.LLMTokens.WithLabelValues("input").Add(float64(usage.InputTokens))
	metrics.LLMTokens.WithLabelValues("output").Add(float64(usage.OutputTokens))

	insights := h.reconcile(candidates, posts)
	metrics.InsightsExtracted.Add(float64(len(insights)))

	h.logger.Info("extraction completed", map[string]interface{}{
		"insights":    len(insights),
		"totalTokens": usage.TotalTokens,
	})

	return insights, usage
}

func (h *Handler) degrade(reason string, err error) {
	perr := pipeerrors.NewExtractionDegradedError(fmt.Sprintf("%s: %s", reason, err.Error()))
	h.logger.Error("extraction degraded to empty result", map[string]interface{}{
		"errorCode": string(perr.Code),
		"details":   perr.Details,
	})
}

// Sanitize strips surrounding whitespace and markdown code fences from
// a model response.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	}
	if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// parseCandidates decodes the sanitized response. The text must be a
// bare JSON object with a product_requests array; candidates that fail
// the schema are skipped with a warning rather than poisoning the batch.
func (h *Handler) parseCandidates(text string) ([]models.InsightCandidate, error) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, fmt.Errorf("response is not a JSON object")
	}

	var envelope struct {
		ProductRequests []json.RawMessage `json:"product_requests"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	h.logger.Info("parsed model response", map[string]interface{}{
		"rawRequests": len(envelope.ProductRequests),
	})

	candidates := make([]models.InsightCandidate, 0, len(envelope.ProductRequests))
	for i, raw := range envelope.ProductRequests {
		var generic map[string]interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			h.logger.Warn("skipping malformed product request", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		if err := validateCandidate(generic); err != nil {
			h.logger.Warn("skipping invalid product request", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		var candidate models.InsightCandidate
		if err := json.Unmarshal(raw, &candidate); err != nil {
			h.logger.Warn("skipping undecodable product request", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// reconcile resolves each candidate's tweet IDs against the in-memory
// batch. Unknown IDs are dropped with a warning; order is preserved;
// a candidate whose every ID is unknown is kept with no tweets.
func (h *Handler) reconcile(candidates []models.InsightCandidate, posts []models.NormalizedPost) []models.Insight {
	index := make(map[string]models.NormalizedPost, len(posts))
	for _, post := range posts {
		index[post.ID] = post
	}

	insights := make([]models.Insight, 0, len(candidates))
	for _, candidate := range candidates {
		matched := make([]models.NormalizedPost, 0, len(candidate.TweetIDs))
		for _, id := range candidate.TweetIDs {
			post, ok := index[id]
			if !ok {
				h.logger.Warn("could not find tweet with ID", map[string]interface{}{
					"tweetId": id,
				})
				continue
			}
			matched = append(matched, post)
		}
		if len(matched) == 0 {
			h.logger.Warn("no matching tweets for product request", map[string]interface{}{
				"category": candidate.Category,
				"tweetIds": candidate.TweetIDs,
			})
		}

		insights = append(insights, models.Insight{
			Category:       candidate.Category,
			Description:    candidate.Description,
			PainPoint:      candidate.PainPoint,
			TargetAudience: candidate.TargetAudience,
			UrgencyLevel:   candidate.UrgencyLevel,
			Tweets:         matched,
		})
	}

	return insights
}
