// internal/gemini/client.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ideas-pipeline/internal/common/httpclient"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/models"
)

// GenerationConfig carries the sampling parameters sent with every call.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

// Result is the text of the first candidate plus token accounting.
// Usage is all-zero when the API returned no usage metadata.
type Result struct {
	Text  string
	Usage models.TokenUsage
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
}

// Client talks to the Gemini generateContent REST API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	generation GenerationConfig
	client     *httpclient.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey, model string, generation GenerationConfig, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		generation: generation,
		client:     httpclient.NewClient(timeout),
		logger: log.With(map[string]interface{}{
			"provider": "gemini",
			"model":    model,
		}),
	}
}

// GenerateContent sends a single prompt and returns the raw model text.
// No retries: a failed call is the caller's problem to degrade from.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (*Result, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.generation,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generateContent request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generateContent: status %d: %s", resp.StatusCode, string(snippet))
	}

	var apiResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("response contained no candidates")
	}

	result := &Result{Text: apiResp.Candidates[0].Content.Parts[0].Text}
	if apiResp.UsageMetadata != nil {
		result.Usage = models.TokenUsage{
			InputTokens:  apiResp.UsageMetadata.PromptTokenCount,
			OutputTokens: apiResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  apiResp.UsageMetadata.TotalTokenCount,
		}
		c.logger.Info("token usage", map[string]interface{}{
			"inputTokens":  result.Usage.InputTokens,
			"outputTokens": result.Usage.OutputTokens,
			"totalTokens":  result.Usage.TotalTokens,
		})
	} else {
		c.logger.Warn("no token usage metadata in response", nil)
	}

	return result, nil
}
