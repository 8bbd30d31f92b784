package marketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mudler/xlog"
)

const DefaultTavilyEndpoint = "https://api.tavily.com/search"

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type SearchResults struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Error   string         `json:"error,omitempty"`
}

// Format renders the results as the numbered source list given to the model.
func (r *SearchResults) Format() string {
	if r.Error != "" {
		return "Error in search: " + r.Error
	}
	if len(r.Results) == 0 {
		return "No search results found."
	}

	var b strings.Builder
	for i, res := range r.Results {
		title, url, content := res.Title, res.URL, res.Content
		if title == "" {
			title = "No title"
		}
		if url == "" {
			url = "No URL"
		}
		if content == "" {
			content = "No content"
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\n%s\n", i+1, title, url, content)
	}
	return b.String()
}

type Searcher interface {
	Search(ctx context.Context, query string) *SearchResults
}

// Tavily searches the web through the Tavily API. Without an API key it
// returns a single placeholder result.
type Tavily struct {
	APIKey     string
	Endpoint   string
	MaxResults int
	HTTPClient *http.Client
}

func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		APIKey:     apiKey,
		Endpoint:   DefaultTavilyEndpoint,
		MaxResults: 5,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search never fails: errors are reported inside the results so the analysis
// can still run.
func (t *Tavily) Search(ctx context.Context, query string) *SearchResults {
	if t.APIKey == "" {
		return &SearchResults{
			Query: query,
			Results: []SearchResult{{
				Title:   "Mock result for: " + query,
				URL:     "https://example.com",
				Content: "This is a placeholder result for the query: " + query + ". Configure a Tavily API key for real search results.",
			}},
		}
	}

	res, err := t.search(ctx, query)
	if err != nil {
		xlog.Error("Error in Tavily search", "error", err)
		return &SearchResults{Query: query, Error: err.Error()}
	}
	return res
}

func (t *Tavily) search(ctx context.Context, query string) (*SearchResults, error) {
	body, err := json.Marshal(map[string]any{
		"query":           query,
		"search_depth":    "advanced",
		"include_domains": []string{},
		"exclude_domains": []string{},
		"max_results":     t.MaxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API returned status code %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	res := &SearchResults{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, err
	}
	if res.Query == "" {
		res.Query = query
	}
	return res, nil
}
