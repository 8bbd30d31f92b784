package webui_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/webui"
)

// agentServer stands in for the marketing agent API.
func agentServer(received *agentclient.MarketingRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run_agent" || r.Header.Get("Authorization") != "Bearer agent-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid API key"}`))
			return
		}
		_ = json.NewDecoder(r.Body).Decode(received)
		if received.BusinessName == "Broken" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"Error running marketing agent: upstream down"}`))
			return
		}
		json.NewEncoder(w).Encode(agentclient.MarketingResponse{
			Analysis:    "## Findings\n\nStrong **local** brand.",
			SearchQuery: received.BusinessName + " " + received.WebsiteURL,
			ModelUsed:   received.Model,
			Usage:       &agentclient.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
		})
	}))
	DeferCleanup(srv.Close)
	return srv
}

var _ = Describe("Dashboard", func() {
	var (
		h     *harness
		token string
	)

	BeforeEach(func() {
		h = newHarness()
		h.seed()
		token = signToken("u1", "ann@example.com")
	})

	It("lists the public agents", func() {
		resp, body := h.do(request{path: "/dashboard", token: token})
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("Marketing Research Agent"))
		Expect(body).To(ContainSubstring("Sales Enablement Assistant"))
		Expect(body).To(ContainSubstring("HR Policy Assistant"))
		Expect(body).To(ContainSubstring(`href="/dashboard/sales-agent"`))
		Expect(body).NotTo(ContainSubstring("Admin Panel"))
		Expect(body).NotTo(ContainSubstring("executing"))
	})

	It("filters by category and search text", func() {
		_, body := h.do(request{path: "/dashboard?category=Sales", token: token})
		Expect(body).To(ContainSubstring("Sales Enablement Assistant"))
		Expect(body).NotTo(ContainSubstring("HR Policy Assistant"))

		_, body = h.do(request{path: "/dashboard?category=HR&category=Research", token: token})
		Expect(body).To(ContainSubstring("HR Policy Assistant"))
		Expect(body).To(ContainSubstring("Marketing Research Agent"))
		Expect(body).NotTo(ContainSubstring("Sales Enablement Assistant"))

		_, body = h.do(request{path: "/dashboard?q=policies", token: token})
		Expect(body).To(ContainSubstring("HR Policy Assistant"))
		Expect(body).NotTo(ContainSubstring("Marketing Research Agent"))

		_, body = h.do(request{path: "/dashboard?q=nothing-matches", token: token})
		Expect(body).To(ContainSubstring("No agents match your filters."))
	})

	It("hides private agents that are not assigned", func() {
		Expect(h.store.CreateAgent(context.Background(), &models.AgentConfig{
			Name: "Internal Finance Bot", Type: "finance-agent", Categories: []string{"Finance"},
		})).To(Succeed())

		_, body := h.do(request{path: "/dashboard", token: token})
		Expect(body).NotTo(ContainSubstring("Internal Finance Bot"))
	})

	It("shows a generic page for other agents and 404 for unknown ones", func() {
		resp, body := h.do(request{path: "/dashboard/hr-agent", token: token})
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("HR Policy Assistant"))

		resp, _ = h.do(request{path: "/dashboard/unknown-agent", token: token})
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	Context("sales agent", func() {
		It("drafts an email and stores the result", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/sales-agent", token: token, form: url.Values{
				"prospect_name": {"Grace"},
				"company":       {"Hopper Labs"},
				"industry":      {"logistics"},
				"goal":          {"introduction"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Hi Grace,"))
			Expect(body).To(ContainSubstring("Hopper Labs"))

			var results []models.AgentResult
			Expect(h.store.DB().Find(&results).Error).To(Succeed())
			Expect(results).To(HaveLen(1))
			Expect(results[0].UserID).To(Equal("u1"))
			Expect(results[0].Status).To(Equal("completed"))
			Expect(results[0].Output["email"]).To(ContainSubstring("Hi Grace,"))
		})

		It("requires the prospect and company", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/sales-agent", token: token, form: url.Values{
				"prospect_name": {"Grace"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("Please fill in all required fields"))
		})
	})

	Context("marketing agent", func() {
		It("reports a missing agent service", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/marketing-agent", token: token, form: url.Values{
				"business_name": {"Acme"},
				"website_url":   {"https://acme.example.com"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(body).To(ContainSubstring("not configured"))
		})

		It("runs the analysis and records token usage", func() {
			var received agentclient.MarketingRequest
			srv := agentServer(&received)
			h = newHarness(webui.WithAgentClient(agentclient.NewClient(srv.URL, "agent-key", 0)))
			h.seed()

			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/marketing-agent", token: token, form: url.Values{
				"business_name": {"Acme"},
				"website_url":   {"https://acme.example.com"},
				"model":         {"gpt-4o"},
				"temperature":   {"0.2"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("<strong>local</strong>"))
			Expect(body).To(ContainSubstring("200 tokens"))
			Expect(body).NotTo(ContainSubstring("executing"))
			Expect(received.Model).To(Equal("gpt-4o"))
			Expect(received.Temperature).To(BeNumerically("~", 0.2, 1e-6))

			var usage []models.TokenUsage
			Expect(h.store.DB().Find(&usage).Error).To(Succeed())
			Expect(usage).To(HaveLen(1))
			Expect(usage[0].TotalTokens).To(Equal(200))
			Expect(usage[0].Model).To(Equal("gpt-4o"))
			Expect(usage[0].RequestID).NotTo(BeEmpty())

			var results []models.AgentResult
			Expect(h.store.DB().Find(&results).Error).To(Succeed())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Output["search_query"]).To(Equal("Acme https://acme.example.com"))
		})

		It("shows the service's error detail", func() {
			var received agentclient.MarketingRequest
			srv := agentServer(&received)
			h = newHarness(webui.WithAgentClient(agentclient.NewClient(srv.URL, "agent-key", 0)))
			h.seed()

			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/marketing-agent", token: token, form: url.Values{
				"business_name": {"Broken"},
				"website_url":   {"https://broken.example.com"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(body).To(ContainSubstring("upstream down"))
		})

		It("validates the form", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/marketing-agent", token: token, form: url.Values{
				"business_name": {"Acme"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("Business name and website URL are required"))
		})
	})
})
