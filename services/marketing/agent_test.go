package marketing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/productivity-engines/website/llm"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/services/marketing"
)

type staticSearch struct{ queries []string }

func (s *staticSearch) Search(_ context.Context, query string) *marketing.SearchResults {
	s.queries = append(s.queries, query)
	return &marketing.SearchResults{Query: query, Results: []marketing.SearchResult{
		{Title: "Acme", URL: "https://acme.test", Content: "Acme sells anvils"},
	}}
}

var _ = Describe("Search results", func() {
	It("formats numbered sources", func() {
		r := &marketing.SearchResults{Results: []marketing.SearchResult{
			{Title: "A", URL: "https://a", Content: "first"},
			{Content: "second"},
		}}
		Expect(r.Format()).To(Equal("[1] A\nURL: https://a\nfirst\n\n[2] No title\nURL: No URL\nsecond\n"))
		Expect((&marketing.SearchResults{}).Format()).To(Equal("No search results found."))
		Expect((&marketing.SearchResults{Error: "down"}).Format()).To(Equal("Error in search: down"))
	})

	It("returns a placeholder without an API key", func() {
		r := marketing.NewTavily("").Search(context.Background(), "acme")
		Expect(r.Results).To(HaveLen(1))
		Expect(r.Results[0].Title).To(Equal("Mock result for: acme"))
	})

	It("queries Tavily and reports failures in the results", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tv" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"results": []map[string]string{{"title": "T", "url": "https://t", "content": "c"}}})
		}))
		defer server.Close()

		t := marketing.NewTavily("tv")
		t.Endpoint = server.URL
		r := t.Search(context.Background(), "q")
		Expect(r.Query).To(Equal("q"))
		Expect(r.Results).To(HaveLen(1))

		t.APIKey = "wrong"
		r = t.Search(context.Background(), "q")
		Expect(r.Error).To(ContainSubstring("status code 401"))
	})
})

var _ = Describe("Agent", func() {
	It("builds the analysis prompt", func() {
		p, err := marketing.BuildPrompt("earlier", "Acme", "https://acme.test", "[1] result\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(HavePrefix("earlier\n\nYou are an expert marketing"))
		Expect(p).To(ContainSubstring("Analyze and provide valuable insights for the business: 'Acme'"))
		Expect(p).To(ContainSubstring("## SWOT ANALYSIS\n- Strengths"))
		Expect(p).To(ContainSubstring("## SOURCES ANALYSIS"))

		p, err = marketing.BuildPrompt("", "Acme", "https://acme.test", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(HavePrefix("You are an expert marketing"))
	})

	It("validates the website", func() {
		u, err := marketing.NormalizeWebsite(" acme.com ")
		Expect(err).NotTo(HaveOccurred())
		Expect(u).To(Equal("acme.com"))

		_, err = marketing.NormalizeWebsite("not a site")
		Expect(err).To(HaveOccurred())
	})

	Context("with a model server", func() {
		var (
			server *httptest.Server
			fail   bool
			got    map[string]any
		)

		BeforeEach(func() {
			fail = false
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&got)
				if fail {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"x","object":"chat.completion","model":"gpt-4o-mini",
					"choices":[{"index":0,"message":{"role":"assistant","content":"## BUSINESS OVERVIEW\nAnvils"},"finish_reason":"stop"}],
					"usage":{"prompt_tokens":100,"completion_tokens":50,"total_tokens":150}}`))
			}))
		})

		AfterEach(func() {
			server.Close()
		})

		It("searches and asks the model", func() {
			search := &staticSearch{}
			agent := marketing.NewAgent(llm.NewClient("k", server.URL+"/v1"), search)

			res, err := agent.Run(context.Background(), agentclient.MarketingRequest{BusinessName: "Acme", WebsiteURL: "https://acme.test"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Analysis).To(Equal("## BUSINESS OVERVIEW\nAnvils"))
			Expect(res.ModelUsed).To(Equal("gpt-4o-mini"))
			Expect(res.SearchQuery).To(Equal("Acme company business info marketing strategy https://acme.test"))
			Expect(res.Usage.TotalTokens).To(Equal(150))
			Expect(search.queries).To(HaveLen(1))

			Expect(got["model"]).To(Equal("gpt-3.5-turbo"))
			Expect(got["max_tokens"]).To(BeNumerically("==", marketing.MaxTokens))
		})

		It("reports model failures inside the analysis", func() {
			fail = true
			agent := marketing.NewAgent(llm.NewClient("k", server.URL+"/v1"), &staticSearch{})

			res, err := agent.Run(context.Background(), agentclient.MarketingRequest{BusinessName: "Acme", WebsiteURL: "acme.test", Model: "gpt-4"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Analysis).To(HavePrefix("Error generating analysis:"))
			Expect(res.ModelUsed).To(Equal("gpt-4"))
			Expect(res.Usage).To(BeNil())
		})

		It("requires a business name and website", func() {
			agent := marketing.NewAgent(llm.NewClient("k", server.URL+"/v1"), &staticSearch{})
			_, err := agent.Run(context.Background(), agentclient.MarketingRequest{BusinessName: "Acme"})
			Expect(err).To(MatchError("Business name and website URL are required"))
		})
	})
})
