// Package marketing implements the marketing research agent served by
// cmd/agentapi: a web search about the business followed by an LLM analysis.
package marketing

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
	"mvdan.cc/xurls/v2"

	"github.com/productivity-engines/website/core/types"
	"github.com/productivity-engines/website/pkg/agentclient"
)

const MaxTokens = 2500

//go:embed prompt.tmpl
var promptTemplate string

var prompt = template.Must(template.New("marketing").Funcs(sprig.TxtFuncMap()).Parse(promptTemplate))

type section struct {
	Title string
	Hint  string
}

var sections = []section{
	{"Business Overview", "[Concise summary of the business, its offerings, and target market]"},
	{"Market Positioning", "[Analysis of how the business positions itself in its market]"},
	{"Online Presence", "[Assessment of website, social media, and digital footprint]"},
	{"SWOT Analysis", "- Strengths: [Key strengths identified]\n- Weaknesses: [Areas for improvement]\n- Opportunities: [Potential growth areas]\n- Threats: [Competitive or market challenges]"},
	{"Key Marketing Insights", "[3-5 actionable insights that could help improve their marketing strategy]"},
	{"Sources Analysis", "[Brief assessment of the quality and credibility of sources used]"},
}

type Agent struct {
	llm    *openai.Client
	search Searcher
}

func NewAgent(llm *openai.Client, search Searcher) *Agent {
	return &Agent{llm: llm, search: search}
}

// SearchQuery is what the agent searches for about a business.
func SearchQuery(businessName, websiteURL string) string {
	return fmt.Sprintf("%s company business info marketing strategy %s", businessName, websiteURL)
}

// NormalizeWebsite extracts the URL from the submitted website field.
func NormalizeWebsite(s string) (string, error) {
	u := xurls.Relaxed().FindString(strings.TrimSpace(s))
	if u == "" {
		return "", types.Invalid("website_url must be a valid URL")
	}
	return u, nil
}

// BuildPrompt renders the analysis prompt.
func BuildPrompt(previousResponse, businessName, websiteURL, searchResults string) (string, error) {
	var b strings.Builder
	err := prompt.Execute(&b, map[string]any{
		"PreviousResponse": previousResponse,
		"BusinessName":     businessName,
		"WebsiteURL":       websiteURL,
		"SearchResults":    searchResults,
		"Sections":         sections,
	})
	return b.String(), err
}

// Run analyzes the business. A failing model call is reported inside the
// analysis text, like a search failure is reported inside the results.
func (a *Agent) Run(ctx context.Context, req agentclient.MarketingRequest) (*agentclient.MarketingResponse, error) {
	req = req.WithDefaults()
	if req.BusinessName == "" || req.WebsiteURL == "" {
		return nil, types.Invalid("Business name and website URL are required")
	}
	website, err := NormalizeWebsite(req.WebsiteURL)
	if err != nil {
		return nil, err
	}

	query := SearchQuery(req.BusinessName, website)
	results := a.search.Search(ctx, query)

	text, err := BuildPrompt(req.PreviousResponse, req.BusinessName, website, results.Format())
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	resp, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		if err == nil {
			err = fmt.Errorf("no choices returned")
		}
		xlog.Error("Error generating analysis", "business", req.BusinessName, "error", err)
		return &agentclient.MarketingResponse{
			Analysis:    "Error generating analysis: " + err.Error(),
			SearchQuery: query,
			ModelUsed:   req.Model,
		}, nil
	}

	return &agentclient.MarketingResponse{
		Analysis:    resp.Choices[0].Message.Content,
		SearchQuery: query,
		ModelUsed:   resp.Model,
		Usage: &agentclient.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
