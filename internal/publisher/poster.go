package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Submission is the narrow payload handed to the posting collaborator.
type Submission struct {
	Title    string `json:"title"`
	HTMLBody string `json:"html_body"`
	Category string `json:"category"`
}

// Result is the collaborator's verdict on one submission.
type Result struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Poster publishes one post to the blog platform. The gate decision must run
// before this call; its outcome feeds the history the gate reads next time.
type Poster interface {
	Publish(ctx context.Context, sub Submission) (Result, error)
}

// HTTPPoster submits posts to the browser-automation service over HTTP.
type HTTPPoster struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

var _ Poster = (*HTTPPoster)(nil)

func NewHTTPPoster(endpoint, token string) *HTTPPoster {
	return &HTTPPoster{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // browser automation is slow
		},
	}
}

func (p *HTTPPoster) Publish(ctx context.Context, sub Submission) (Result, error) {
	if p.endpoint == "" {
		return Result{}, fmt.Errorf("poster endpoint not configured")
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return Result{}, fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("publish request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("poster returned %d: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
