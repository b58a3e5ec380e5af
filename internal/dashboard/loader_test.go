// internal/dashboard/loader_test.go
package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-pipeline/internal/common/logger"
)

func writeAnalysis(t *testing.T, dir, date, content string) {
	t.Helper()
	path := filepath.Join(dir, date+"_analysis.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load_OK(t *testing.T) {
	dir := t.TempDir()
	writeAnalysis(t, dir, "250825", `{
		"summary": {
			"total_tweets_analyzed": 3,
			"product_requests_found": 1,
			"token_usage": {"input_tokens": 100, "output_tokens": 50, "total_tokens": 150}
		},
		"product_requests": [{
			"category": "Developer Tool",
			"description": "A faster linter",
			"pain_point": "slow feedback",
			"target_audience": "developers",
			"urgency_level": "High",
			"tweets": []
		}]
	}`)

	loader := NewLoader(dir, logger.NewTestLogger(t))
	doc, loadErr := loader.Load("250825")

	assert.Nil(t, loadErr)
	assert.Equal(t, 3, doc.Summary.TotalTweetsAnalyzed)
	assert.Equal(t, 150, doc.Summary.TokenUsage.TotalTokens)
	assert.Len(t, doc.ProductRequests, 1)
	assert.Equal(t, "Developer Tool", doc.ProductRequests[0].Category)
}

func TestLoader_Load_ErrorStates(t *testing.T) {
	tests := []struct {
		name        string
		content     string // empty means no file
		wantState   LoadState
		wantMessage string
	}{
		{
			name:        "file absent",
			wantState:   LoadStateNotFound,
			wantMessage: "no analysis available for 250825",
		},
		{
			name:        "invalid json",
			content:     `{"summary": `,
			wantState:   LoadStateInvalidJSON,
			wantMessage: "analysis file for 250825 contains invalid JSON",
		},
		{
			name:        "top level is an array",
			content:     `[1, 2, 3]`,
			wantState:   LoadStateWrongType,
			wantMessage: "analysis file for 250825 is not a JSON object",
		},
		{
			name:        "missing summary",
			content:     `{"product_requests": []}`,
			wantState:   LoadStateMissingKey,
			wantMessage: "missing required information: summary",
		},
		{
			name:        "missing product_requests",
			content:     `{"summary": {"total_tweets_analyzed": 0, "product_requests_found": 0, "token_usage": {}}}`,
			wantState:   LoadStateMissingKey,
			wantMessage: "missing required information: product_requests",
		},
		{
			name:        "wrong types",
			content:     `{"summary": {"total_tweets_analyzed": "three"}, "product_requests": {}}`,
			wantState:   LoadStateWrongType,
			wantMessage: "analysis file for 250825 has unexpected field types",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				writeAnalysis(t, dir, "250825", tt.content)
			}

			loader := NewLoader(dir, logger.NewTestLogger(t))
			doc, loadErr := loader.Load("250825")

			assert.Nil(t, doc)
			assert.NotNil(t, loadErr)
			assert.Equal(t, tt.wantState, loadErr.State)
			assert.Equal(t, tt.wantMessage, loadErr.Message)
		})
	}
}

func TestLoader_Load_RejectsNonDateKeys(t *testing.T) {
	dir := t.TempDir()
	// A file outside the analysis directory that a traversal-shaped key
	// would otherwise reach.
	outside := filepath.Join(dir, "secret_analysis.json")
	require.NoError(t, os.WriteFile(outside, []byte(`{"summary": {}, "product_requests": []}`), 0o644))

	analysisDir := filepath.Join(dir, "analysis")
	require.NoError(t, os.MkdirAll(analysisDir, 0o755))

	loader := NewLoader(analysisDir, logger.NewTestLogger(t))

	for _, date := range []string{"../secret", "..%2Fsecret", "2508250", "25082", "25o825", ""} {
		doc, loadErr := loader.Load(date)

		assert.Nil(t, doc)
		assert.NotNil(t, loadErr)
		assert.Equal(t, LoadStateNotFound, loadErr.State)
	}
}

func TestLoader_Load_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file modes are not enforced for root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "250825_analysis.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{}`), 0o000))

	loader := NewLoader(dir, logger.NewTestLogger(t))
	doc, loadErr := loader.Load("250825")

	assert.Nil(t, doc)
	assert.NotNil(t, loadErr)
	assert.Equal(t, LoadStatePermissionDenied, loadErr.State)
}
