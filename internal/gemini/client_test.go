// internal/gemini/client_test.go
package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-pipeline/internal/common/logger"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	return NewClient(serverURL, "key", "gemini-2.5-flash",
		GenerationConfig{Temperature: 0.1, TopP: 0.8, TopK: 40},
		5*time.Second, logger.NewTestLogger(t))
}

func TestClient_GenerateContent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "analyze this", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 0.1, req.GenerationConfig.Temperature)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "model output"}}}},
			},
			"usageMetadata": map[string]int{
				"promptTokenCount":     100,
				"candidatesTokenCount": 40,
				"totalTokenCount":      140,
			},
		})
	}))
	defer server.Close()

	result, err := newTestClient(t, server.URL).GenerateContent(context.Background(), "analyze this")

	require.NoError(t, err)
	assert.Equal(t, "model output", result.Text)
	assert.Equal(t, 100, result.Usage.InputTokens)
	assert.Equal(t, 40, result.Usage.OutputTokens)
	assert.Equal(t, 140, result.Usage.TotalTokens)
}

func TestClient_GenerateContent_MissingUsageDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "{}"}}}},
			},
		})
	}))
	defer server.Close()

	result, err := newTestClient(t, server.URL).GenerateContent(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Zero(t, result.Usage.TotalTokens)
}

func TestClient_GenerateContent_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).GenerateContent(context.Background(), "prompt")

	assert.ErrorContains(t, err, "no candidates")
}

func TestClient_GenerateContent_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).GenerateContent(context.Background(), "prompt")

	assert.ErrorContains(t, err, "status 429")
}
