// internal/pipeline/fetch/handler.go
package fetch

import (
	"context"
	"fmt"
	"time"

	"ideas-pipeline/internal/apify"
	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/common/metrics"
	"ideas-pipeline/internal/models"
)

// PostProvider is the slice of the scraping client the fetcher needs.
type PostProvider interface {
	RunActorSync(ctx context.Context, actorID string, input map[string]interface{}) (*apify.Run, error)
	DatasetItems(ctx context.Context, datasetID string) ([]models.RawPost, error)
}

type Handler struct {
	config   *Config
	provider PostProvider
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, provider PostProvider, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		logger: log.With(map[string]interface{}{
			"stage": "fetch",
		}),
		now: time.Now,
	}
}

// Fetch runs one actor invocation and drains its full dataset. The
// returned slice is never nil; an empty result is an empty slice. Any
// provider failure surfaces as a fatal FETCH_FAILED error.
func (h *Handler) Fetch(ctx context.Context) ([]models.RawPost, error) {
	filters := h.config.Filters
	filters.ApplyWindow(h.now())

	if err := filters.Validate(); err != nil {
		return nil, pipeerrors.NewConfigurationError(err.Error())
	}

	h.logger.Info("starting scrape", map[string]interface{}{
		"actorId":  h.config.ActorID,
		"since":    filters.Since,
		"until":    filters.Until,
		"maxItems": filters.MaxItems,
	})
	h.logger.Info("search filters", map[string]interface{}{
		"wordsAnd": filters.WordsAnd,
		"wordsOr":  filters.WordsOr,
		"hashtag":  filters.Hashtag,
	})
	h.logger.Info("content filters", map[string]interface{}{
		"minLikes":     filters.MinLikes,
		"minReplies":   filters.MinReplies,
		"minRetweets":  filters.MinRetweets,
		"verified":     filters.Verified,
		"blueVerified": filters.BlueVerified,
	})

	run, err := h.provider.RunActorSync(ctx, h.config.ActorID, filters.ActorInput())
	if err != nil {
		return nil, pipeerrors.NewFetchFailedError(err)
	}
	if run.DefaultDatasetID == "" {
		return nil, pipeerrors.NewFetchFailedError(fmt.Errorf("actor run %s returned no dataset", run.ID))
	}
	if run.Status != "SUCCEEDED" {
		return nil, pipeerrors.NewFetchFailedError(fmt.Errorf("actor run %s finished with status %s", run.ID, run.Status))
	}

	items, err := h.provider.DatasetItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, pipeerrors.NewFetchFailedError(err)
	}
	if items == nil {
		items = []models.RawPost{}
	}

	h.logContentBreakdown(items)
	h.logEngagementStats(items)
	metrics.PostsFetched.Add(float64(len(items)))

	return items, nil
}

// logContentBreakdown counts the content types in the drained dataset.
// Observability only.
func (h *Handler) logContentBreakdown(items []models.RawPost) {
	var tweets, retweets, replies, quotes int
	for _, item := range items {
		switch {
		case item.IsRetweet():
			retweets++
		case item.IsReply():
			replies++
		case item.IsQuote():
			quotes++
		default:
			tweets++
		}
	}
	h.logger.Info("content breakdown", map[string]interface{}{
		"total":    len(items),
		"tweets":   tweets,
		"retweets": retweets,
		"replies":  replies,
		"quotes":   quotes,
	})
}

// logEngagementStats reports avg/max/min per engagement counter,
// skipping posts where the provider omitted the counter.
func (h *Handler) logEngagementStats(items []models.RawPost) {
	counters := []struct {
		name string
		get  func(models.RawPost) int
	}{
		{"likes", models.RawPost.LikesCount},
		{"retweets", models.RawPost.PublicRetweetCount},
		{"replies", models.RawPost.PublicReplyCount},
	}

	for _, counter := range counters {
		var values []int
		for _, item := range items {
			if v := counter.get(item); v > 0 {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		sum, max, min := 0, values[0], values[0]
		for _, v := range values {
			sum += v
			if v > max {
				max = v
			}
			if v < min {
				min = v
			}
		}
		h.logger.Info("engagement stats", map[string]interface{}{
			"counter": counter.name,
			"avg":     float64(sum) / float64(len(values)),
			"max":     max,
			"min":     min,
		})
	}
}
