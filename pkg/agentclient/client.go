// Package agentclient talks to the external agent service (POST /run_agent).
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
)

// Client represents a client for the agent service API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new agent service client
func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError carries the service's error detail.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// doRequest performs an HTTP request and decodes the JSON answer into out
func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		detail := gjson.GetBytes(data, "detail").String()
		if detail == "" {
			detail = fmt.Sprintf("Agent API error: %s", http.StatusText(resp.StatusCode))
		}
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
