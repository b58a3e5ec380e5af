// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-pipeline/internal/apify"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/gemini"
	"ideas-pipeline/internal/models"
	"ideas-pipeline/internal/pipeline/analysis"
	"ideas-pipeline/internal/pipeline/extract"
	"ideas-pipeline/internal/pipeline/fetch"
	"ideas-pipeline/internal/pipeline/orchestrator"
	"ideas-pipeline/internal/pipeline/snapshot"
)

// newFakeApify serves the actor-run and dataset endpoints for a run
// that immediately succeeds with the given dataset items.
func newFakeApify(t *testing.T, items []models.RawPost) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/v2/acts/"):
			var input map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			assert.NotEmpty(t, input["since"])
			assert.NotEmpty(t, input["until"])

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"id":               "run-1",
					"status":           "SUCCEEDED",
					"defaultDatasetId": "ds-1",
				},
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/datasets/ds-1/items"):
			_ = json.NewEncoder(w).Encode(items)
		default:
			http.NotFound(w, r)
		}
	}))
}

// newFakeGemini returns a fenced JSON response with one insight
// referencing two of the three posts.
func newFakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	text := "```json\n" + `{
		"product_requests": [{
			"category": "Note Taking App",
			"description": "Offline-first note taking",
			"pain_point": "notes lost without connectivity",
			"target_audience": "students",
			"urgency_level": "High",
			"tweet_ids": ["p1", "p3"]
		}]
	}` + "\n```"

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
			},
			"usageMetadata": map[string]int{
				"promptTokenCount":     200,
				"candidatesTokenCount": 80,
				"totalTokenCount":      280,
			},
		})
	}))
}

func TestDailyRun_EndToEnd(t *testing.T) {
	items := []models.RawPost{
		{"id": "p1", "tweet_text": "I wish there was an app for offline notes", "user_handle": "sam",
			"tweet_favorite_count": float64(5), "tweet_retweet_count": float64(2), "tweet_reply_count": float64(1)},
		{"id": "p2", "tweet_text": "just setting up my account", "user_handle": "kay"},
		{"id": "p3", "tweet_text": "someone should build a notes app that works on planes", "user_handle": "lee",
			"tweet_favorite_count": float64(10)},
	}

	apifyServer := newFakeApify(t, items)
	defer apifyServer.Close()
	geminiServer := newFakeGemini(t)
	defer geminiServer.Close()

	log := logger.NewTestLogger(t)
	dataDir := t.TempDir()
	scrapedDir := filepath.Join(dataDir, "scraped")
	analysisDir := filepath.Join(dataDir, "analysis")

	apifyClient := apify.NewClient(apifyServer.URL, "test-token", 10*time.Second, log)
	geminiClient := gemini.NewClient(geminiServer.URL, "test-key", "gemini-2.5-flash",
		gemini.GenerationConfig{Temperature: 0.1, TopP: 0.8, TopK: 40}, 10*time.Second, log)

	fetcher := fetch.NewHandler(&fetch.Config{
		ActorID: "actor-1",
		Filters: fetch.FilterSpec{MaxItems: 100, Lang: "en"},
	}, apifyClient, log)

	orch := orchestrator.New(
		fetcher,
		snapshot.NewHandler(scrapedDir, log),
		extract.NewHandler(geminiClient, log),
		analysis.NewHandler(analysisDir, log),
		nil,
		dataDir,
		log,
	)

	result := orch.Run(context.Background())

	require.Equal(t, orchestrator.StateDone, result.State)
	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.PostsFetched)
	assert.Equal(t, 1, result.InsightsFound)
	assert.Equal(t, 280, result.TokenUsage.TotalTokens)

	// Snapshot preserves the raw records.
	snapshotBytes, err := os.ReadFile(result.SnapshotPath)
	require.NoError(t, err)
	var rawBack []models.RawPost
	require.NoError(t, json.Unmarshal(snapshotBytes, &rawBack))
	assert.Len(t, rawBack, 3)
	assert.Equal(t, "p2", rawBack[1].ID())

	// Analysis document carries the reconciled insight.
	analysisBytes, err := os.ReadFile(result.AnalysisPath)
	require.NoError(t, err)
	var doc models.AnalysisDocument
	require.NoError(t, json.Unmarshal(analysisBytes, &doc))

	assert.Equal(t, 3, doc.Summary.TotalTweetsAnalyzed)
	assert.Equal(t, 1, doc.Summary.ProductRequestsFound)
	assert.Equal(t, 280, doc.Summary.TokenUsage.TotalTokens)

	require.Len(t, doc.ProductRequests, 1)
	insight := doc.ProductRequests[0]
	assert.Equal(t, "Note Taking App", insight.Category)
	require.Len(t, insight.Tweets, 2)
	assert.Equal(t, "p1", insight.Tweets[0].ID)
	assert.Equal(t, 12, insight.Tweets[0].EngagementScore)
	assert.Equal(t, "p3", insight.Tweets[1].ID)
}
