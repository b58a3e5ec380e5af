// Package normalize maps raw provider records onto the flat analysis
// view. Every function here is total: malformed records degrade to zero
// values, never to errors.
package normalize

import (
	"ideas-pipeline/internal/models"
)

// Engagement weighting: replies signal the strongest intent, reshares
// amplify reach, likes are the weakest signal.
const (
	likeWeight    = 1
	reshareWeight = 2
	replyWeight   = 3
)

// Score computes the weighted engagement score for a raw post.
func Score(raw models.RawPost) int {
	return likeWeight*raw.FavoriteCount() +
		reshareWeight*raw.RetweetCount() +
		replyWeight*raw.ReplyCount()
}

// Post maps one raw record. The ID passes through verbatim; it is the
// same surface the extractor embeds in its prompt, so any reformatting
// here would break reconciliation.
func Post(raw models.RawPost) models.NormalizedPost {
	return models.NormalizedPost{
		ID:              raw.ID(),
		Text:            raw.Text(),
		UserHandle:      raw.UserHandle(),
		CreatedAt:       raw.CreatedAt(),
		EngagementScore: Score(raw),
		URL:             raw.URL(),
	}
}

// Posts maps a batch in order. The result is never nil.
func Posts(raws []models.RawPost) []models.NormalizedPost {
	posts := make([]models.NormalizedPost, 0, len(raws))
	for _, raw := range raws {
		posts = append(posts, Post(raw))
	}
	return posts
}
