// Package llm builds OpenAI-compatible clients.
package llm

import "github.com/sashabaranov/go-openai"

// NewClient returns a client for the OpenAI API, or for a compatible server
// when URL is set.
func NewClient(APIKey, URL string) *openai.Client {
	if APIKey == "" {
		// local compatible servers accept any key
		APIKey = "sk-xxx"
	}
	config := openai.DefaultConfig(APIKey)
	if URL != "" {
		config.BaseURL = URL
	}
	return openai.NewClientWithConfig(config)
}
