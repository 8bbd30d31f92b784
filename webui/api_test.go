package webui_test

import (
	"context"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/webui"
)

func decode(body string) map[string]any {
	out := map[string]any{}
	Expect(json.Unmarshal([]byte(body), &out)).To(Succeed())
	return out
}

var _ = Describe("API", func() {
	var h *harness

	bearer := map[string]string{"Authorization": "Bearer service-key"}

	BeforeEach(func() {
		h = newHarness()
	})

	Context("maintenance routes", func() {
		DescribeTable("guard with the service role key",
			func(header map[string]string, status int) {
				resp, _ := h.do(request{path: "/api/init-db", header: header})
				Expect(resp.StatusCode).To(Equal(status))
			},
			Entry("no key", map[string]string{}, http.StatusUnauthorized),
			Entry("wrong key", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized),
			Entry("bearer", map[string]string{"Authorization": "Bearer service-key"}, http.StatusOK),
			Entry("x-api-key", map[string]string{"x-api-key": "service-key"}, http.StatusOK),
			Entry("wrong x-api-key", map[string]string{"x-api-key": "nope"}, http.StatusUnauthorized),
		)

		It("fails closed without a configured key", func() {
			h = newHarness(webui.WithServiceRoleKey(""))
			resp, body := h.do(request{path: "/api/init-db", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(decode(body)["error"]).To(Equal("Service role key not configured"))
		})

		It("initializes the base catalog once", func() {
			resp, body := h.do(request{path: "/api/init-db", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decode(body)).To(HaveKeyWithValue("success", true))
			Expect(decode(body)).To(HaveKeyWithValue("message", "Database initialized successfully"))

			h.do(request{path: "/api/init-db", header: bearer})
			agents, err := h.store.ListAgents(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(agents).To(HaveLen(2))
		})

		It("seeds the extended catalog", func() {
			resp, body := h.do(request{path: "/api/seed-data", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decode(body)["message"]).To(Equal("Database seeded successfully"))

			categories, err := h.store.ListCategories(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(6))
		})

		It("grants the admin role", func() {
			resp, body := h.do(request{path: "/api/set-admin", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decode(body)["error"]).To(Equal("Email parameter is required"))

			resp, body = h.do(request{path: "/api/set-admin?email=bob@example.com", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(decode(body)["error"]).To(Equal("No user found with email bob@example.com"))

			Expect(h.store.UpsertUser(context.Background(), &models.User{ID: "u2", Email: "bob@example.com"})).To(Succeed())
			resp, body = h.do(request{path: "/api/set-admin?email=bob@example.com", header: bearer})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decode(body)["message"]).To(ContainSubstring("bob@example.com"))

			isAdmin, err := h.store.HasRole(context.Background(), "u2", models.RoleAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(isAdmin).To(BeTrue())

			_, body = h.do(request{path: "/api/set-admin?email=bob@example.com", header: bearer})
			Expect(decode(body)["message"]).To(Equal("User bob@example.com is already an admin"))
		})
	})

	Context("marketing agent", func() {
		token := ""
		BeforeEach(func() {
			token = signToken("u1", "ann@example.com")
		})

		It("requires a session", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/api/marketing-agent", json: `{}`})
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(decode(body)["error"]).To(Equal("You must be logged in to use this API"))
		})

		It("validates the body", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/api/marketing-agent", json: `{"business_name":"Acme"}`, token: token})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decode(body)["error"]).To(Equal("Business name and website URL are required"))
		})

		It("returns the analysis and records usage", func() {
			var received agentclient.MarketingRequest
			srv := agentServer(&received)
			h = newHarness(webui.WithAgentClient(agentclient.NewClient(srv.URL, "agent-key", 0)))
			h.seed()

			resp, body := h.do(request{
				method: http.MethodPost,
				path:   "/api/marketing-agent",
				json:   `{"business_name":"Acme","website_url":"https://acme.example.com"}`,
				token:  token,
			})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			out := decode(body)
			Expect(out["search_query"]).To(Equal("Acme https://acme.example.com"))
			Expect(out["model_used"]).To(Equal(agentclient.DefaultModel))
			Expect(received.Temperature).To(BeNumerically("~", agentclient.DefaultTemperature, 1e-6))

			marketing, err := h.store.AgentByType(context.Background(), "marketing-agent")
			Expect(err).NotTo(HaveOccurred())

			var usage []models.TokenUsage
			Expect(h.store.DB().Find(&usage).Error).To(Succeed())
			Expect(usage).To(HaveLen(1))
			Expect(usage[0].AgentID).To(Equal(marketing.ID))
			Expect(usage[0].UserID).To(Equal("u1"))
		})

		It("passes the service error through", func() {
			var received agentclient.MarketingRequest
			srv := agentServer(&received)
			h = newHarness(webui.WithAgentClient(agentclient.NewClient(srv.URL, "wrong-key", 0)))

			resp, body := h.do(request{
				method: http.MethodPost,
				path:   "/api/marketing-agent",
				json:   `{"business_name":"Acme","website_url":"https://acme.example.com"}`,
				token:  token,
			})
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(decode(body)["error"]).To(Equal("Invalid API key"))
		})
	})
})
