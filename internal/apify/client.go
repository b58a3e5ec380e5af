// internal/apify/client.go
package apify

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

const (
	// waitForFinishSeconds is the longest a single poll request blocks
	// server-side before returning the current run state.
	waitForFinishSeconds = 60

	datasetPageLimit = 1000
)

// Run is the actor run record returned by the provider.
type Run struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
	StartedAt        string `json:"startedAt"`
	FinishedAt       string `json:"finishedAt"`
}

// IsTerminal reports whether the run has stopped moving.
func (r *Run) IsTerminal() bool {
	switch r.Status {
	case "SUCCEEDED", "FAILED", "ABORTED", "TIMED-OUT":
		return true
	}
	return false
}

type runEnvelope struct {
	Data Run `json:"data"`
}

// Client talks to the Apify actor-run and dataset APIs.
type Client struct {
	baseURL string
	token   string
	client  *httpclient.Client
	logger  logger.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  httpclient.NewClient(timeout),
		logger:  log.With(map[string]interface{}{"provider": "apify"}),
	}
}

// RunActorSync starts an actor run and blocks until it reaches a
// terminal status, polling the run record between waits.
func (c *Client) RunActorSync(ctx context.Context, actorID string, input map[string]interface{}) (*Run, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	startURL := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s&waitForFinish=%d",
		c.baseURL, url.PathEscape(actorID), url.QueryEscape(c.token), waitForFinishSeconds)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, startURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build actor run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	run, err := c.doRunRequest(req)
	if err != nil {
		return nil, err
	}

	c.logger.Info("actor run started", map[string]interface{}{
		"actorId":   actorID,
		"runId":     run.ID,
		"status":    run.Status,
		"startedAt": run.StartedAt,
	})

	for !run.IsTerminal() {
		pollURL := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s&waitForFinish=%d",
			c.baseURL, url.PathEscape(run.ID), url.QueryEscape(c.token), waitForFinishSeconds)

		pollReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build run poll request: %w", err)
		}
		run, err = c.doRunRequest(pollReq)
		if err != nil {
			return nil, err
		}
	}

	c.logger.Info("actor run finished", map[string]interface{}{
		"runId":      run.ID,
		"status":     run.Status,
		"datasetId":  run.DefaultDatasetID,
		"finishedAt": run.FinishedAt,
	})

	return run, nil
}

func (c *Client) doRunRequest(req *http.Request) (*Run, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("actor run request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("actor run request: status %d: %s", resp.StatusCode, string(snippet))
	}

	var envelope runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode actor run response: %w", err)
	}
	if envelope.Data.ID == "" {
		return nil, fmt.Errorf("actor run response contained no run record")
	}
	return &envelope.Data, nil
}

// DatasetItems drains every item of the run's dataset, paginating until
// a short page signals the end of the stream.
func (c *Client) DatasetItems(ctx context.Context, datasetID string) ([]models.RawPost, error) {
	items := make([]models.RawPost, 0, datasetPageLimit)

	for offset := 0; ; offset += datasetPageLimit {
		pageURL := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json&clean=true&offset=%d&limit=%d",
			c.baseURL, url.PathEscape(datasetID), url.QueryEscape(c.token), offset, datasetPageLimit)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build dataset request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("dataset request: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("dataset request: status %d: %s", resp.StatusCode, string(snippet))
		}

		var page []models.RawPost
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode dataset page: %w", err)
		}

		items = append(items, page...)
		if len(page) < datasetPageLimit {
			break
		}
	}

	c.logger.Info("dataset drained", map[string]interface{}{
		"datasetId": datasetID,
		"items":     len(items),
	})

	return items, nil
}
