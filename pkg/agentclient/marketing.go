package agentclient

import (
	"context"
	"net/http"
	"strings"
)

// MarketingRequest is the input of the marketing research agent.
type MarketingRequest struct {
	BusinessName     string  `json:"business_name"`
	WebsiteURL       string  `json:"website_url"`
	Model            string  `json:"model,omitempty"`
	Temperature      float32 `json:"temperature,omitempty"`
	PreviousResponse string  `json:"previous_response"`
}

// Usage is the token consumption reported by the agent, when it reports one.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type MarketingResponse struct {
	Analysis    string `json:"analysis"`
	SearchQuery string `json:"search_query"`
	ModelUsed   string `json:"model_used"`
	Usage       *Usage `json:"usage,omitempty"`
}

// WithDefaults fills the model and temperature the agent expects.
func (r MarketingRequest) WithDefaults() MarketingRequest {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.WebsiteURL = strings.TrimSpace(r.WebsiteURL)
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

// RunMarketing runs the marketing research agent.
func (c *Client) RunMarketing(ctx context.Context, req MarketingRequest) (*MarketingResponse, error) {
	out := &MarketingResponse{}
	if err := c.doRequest(ctx, http.MethodPost, "/run_agent", req.WithDefaults(), out); err != nil {
		return nil, err
	}
	return out, nil
}
