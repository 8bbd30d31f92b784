// Command agentapi serves the marketing research agent on POST /run_agent.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/llm"
	"github.com/productivity-engines/website/pkg/xstrings"
	"github.com/productivity-engines/website/services/marketing"
)

var (
	listenAddr string
	openAIKey  string
	openAIURL  string
	tavilyKey  string
	apiKeys    string
)

func init() {
	// .env is optional
	_ = godotenv.Load()

	listenAddr = os.Getenv("AGENT_LISTEN_ADDR")
	openAIKey = os.Getenv("OPENAI_API_KEY")
	openAIURL = os.Getenv("OPENAI_BASE_URL")
	tavilyKey = os.Getenv("TAVILY_API_KEY")
	apiKeys = os.Getenv("AGENT_API_KEY")

	if listenAddr == "" {
		listenAddr = ":8000"
	}
}

func main() {
	if openAIKey == "" {
		xlog.Warn("OpenAI API key is not set for Marketing Agent.")
	}
	if tavilyKey == "" {
		xlog.Warn("Tavily API key is not set for Marketing Agent. Search functionality will be limited.")
	}

	agent := marketing.NewAgent(llm.NewClient(openAIKey, openAIURL), marketing.NewTavily(tavilyKey))
	app, err := marketing.NewServer(agent, xstrings.SplitList(apiKeys))
	if err != nil {
		xlog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	go func() {
		xlog.Info("Starting Marketing Agent API", "addr", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			xlog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	xlog.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		xlog.Error("Shutdown failed", "error", err)
	}
}
