package webui_test

import (
	"context"
	"net/http"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	models "github.com/productivity-engines/website/dbmodels"
)

var _ = Describe("Admin", func() {
	var (
		h     *harness
		admin string
		ctx   context.Context
	)

	BeforeEach(func() {
		h = newHarness()
		h.seed()
		admin = signToken("admin-1", "admin@example.com")
		ctx = context.Background()
	})

	agentID := func(agentType string) string {
		a, err := h.store.AgentByType(ctx, agentType)
		Expect(err).NotTo(HaveOccurred())
		return a.ID
	}

	It("forbids every admin screen to plain users", func() {
		user := signToken("u1", "ann@example.com")
		for _, path := range []string{
			"/dashboard/admin/agents",
			"/dashboard/admin/assignments",
			"/dashboard/admin/usage",
			"/dashboard/admin/deployments",
		} {
			resp, _ := h.do(request{path: path, token: user})
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden), path)
		}
		resp, _ := h.do(request{method: http.MethodPost, path: "/dashboard/admin/agents", token: user, form: url.Values{"name": {"x"}, "type": {"y"}}})
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})

	Context("agents", func() {
		It("creates an agent owned by the admin", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/agents", token: admin, form: url.Values{
				"name":        {"Finance Analyst"},
				"description": {"Reads the books"},
				"type":        {"finance-agent"},
				"categories":  {"Finance", "Research", "Finance"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Agent created successfully!"))
			Expect(body).To(ContainSubstring(`value="Finance">`))
			Expect(body).NotTo(ContainSubstring(`value="Finance" checked`))

			agent, err := h.store.AgentByType(ctx, "finance-agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(agent.IsPublic).To(BeFalse())
			Expect([]string(agent.Categories)).To(Equal([]string{"Finance", "Research"}))
			Expect(agent.CreatorID).NotTo(BeNil())
			Expect(*agent.CreatorID).To(Equal("admin-1"))
		})

		It("rejects an agent without a type", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/agents", token: admin, form: url.Values{
				"name":       {"Nameless"},
				"categories": {"Finance"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("Agent type is required"))
			Expect(body).To(ContainSubstring(`value="Nameless"`))
			Expect(body).To(ContainSubstring(`value="Finance" checked`))
		})

		It("adds a category", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/categories", token: admin, form: url.Values{
				"category_name":        {"Legal"},
				"category_description": {"Contracts"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Category added successfully!"))

			_, err := h.store.CategoryByName(ctx, "Legal")
			Expect(err).NotTo(HaveOccurred())

			resp, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/categories", token: admin, form: url.Values{}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("Category name is required"))
		})
	})

	Context("assignments", func() {
		It("assigns a private agent to a user and removes it again", func() {
			private := &models.AgentConfig{Name: "Private Helper", Type: "private-agent", Categories: []string{}}
			Expect(h.store.CreateAgent(ctx, private)).To(Succeed())

			user := signToken("u1", "ann@example.com")
			_, body := h.do(request{path: "/dashboard", token: user})
			Expect(body).NotTo(ContainSubstring("Private Helper"))

			assign := url.Values{"agent_id": {private.ID}, "assign_type": {"user"}, "user_id": {"u1"}}
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/assignments", token: admin, form: assign})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Agent assigned successfully!"))

			_, body = h.do(request{path: "/dashboard", token: user})
			Expect(body).To(ContainSubstring("Private Helper"))

			resp, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/assignments", token: admin, form: assign})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("This agent is already assigned to this user/company"))

			rows, err := h.store.ListAssignments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].AssignedBy).To(Equal("admin-1"))

			resp, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/assignments/" + rows[0].ID + "/delete", token: admin})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Assignment removed successfully!"))

			resp, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/assignments/" + rows[0].ID + "/delete", token: admin})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(body).To(ContainSubstring("assignment not found"))
		})

		It("requires a target", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/assignments", token: admin, form: url.Values{
				"agent_id":    {agentID("sales-agent")},
				"assign_type": {"company"},
			}})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("Please select a company"))
		})
	})

	Context("usage", func() {
		It("summarizes usage in the selected range", func() {
			marketing := agentID("marketing-agent")
			Expect(h.store.CreateUsage(ctx, &models.TokenUsage{
				UserID: "u1", AgentID: marketing, RequestID: "r1",
				PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "gpt-4", Cost: 1.25,
			})).To(Succeed())
			Expect(h.store.CreateUsage(ctx, &models.TokenUsage{
				UserID: "u1", AgentID: marketing, RequestID: "r2",
				TotalTokens: 50, Model: "gpt-4", Cost: 0.25,
				CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
			})).To(Succeed())

			resp, body := h.do(request{path: "/dashboard/admin/usage", token: admin})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).NotTo(ContainSubstring("executing"))
			Expect(body).To(ContainSubstring(`<p class="stat" id="total-tokens">150</p>`))
			Expect(body).To(ContainSubstring(`<p class="stat" id="total-requests">1</p>`))
			Expect(body).To(ContainSubstring("$1.25"))
			Expect(body).To(ContainSubstring("100.0%"))

			_, body = h.do(request{path: "/dashboard/admin/usage?range=all", token: admin})
			Expect(body).To(ContainSubstring(`<p class="stat" id="total-tokens">200</p>`))
			Expect(body).To(ContainSubstring("$1.50"))
		})

		It("shows the empty state", func() {
			_, body := h.do(request{path: "/dashboard/admin/usage?range=24h", token: admin})
			Expect(body).To(ContainSubstring("No usage data found"))
		})
	})

	Context("deployments", func() {
		It("creates a pending deployment, then stops and restarts it", func() {
			sales := agentID("sales-agent")
			form := url.Values{
				"agent_id":   {sales},
				"subdomain":  {"sales-assistant"},
				"replit_url": {"https://replit.com/@pe/sales"},
			}
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments", token: admin, form: form})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Deployment created successfully! Processing will complete shortly."))

			d, err := h.store.DeploymentByAgent(ctx, sales)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(models.DeploymentPending))
			Expect(d.Version).To(Equal("1.0.0"))
			Expect(d.Config["replitUrl"]).To(Equal("https://replit.com/@pe/sales"))
			Expect(body).To(ContainSubstring(`data-id="` + d.ID + `"`))

			form.Set("version", "1.1.0")
			_, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments", token: admin, form: form})
			Expect(body).To(ContainSubstring("Deployment updated successfully!"))

			resp, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments/" + d.ID + "/stop", token: admin})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring("Deployment stopped successfully!"))
			d, err = h.store.DeploymentByID(ctx, d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(models.DeploymentStopped))
			Expect(d.Version).To(Equal("1.1.0"))

			_, body = h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments/" + d.ID + "/restart", token: admin})
			Expect(body).To(ContainSubstring("Deployment restart initiated!"))
			d, err = h.store.DeploymentByID(ctx, d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(models.DeploymentPending))
		})

		It("rejects a subdomain used by another agent", func() {
			form := url.Values{
				"agent_id":   {agentID("sales-agent")},
				"subdomain":  {"shared"},
				"replit_url": {"https://replit.com/@pe/a"},
			}
			h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments", token: admin, form: form})

			form.Set("agent_id", agentID("marketing-agent"))
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments", token: admin, form: form})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring("This subdomain is already in use by another agent"))
		})

		It("answers 404 for an unknown deployment", func() {
			resp, body := h.do(request{method: http.MethodPost, path: "/dashboard/admin/deployments/missing/stop", token: admin})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(body).To(ContainSubstring("deployment not found"))
		})
	})
})
