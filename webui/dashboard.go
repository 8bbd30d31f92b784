package webui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/catalog"
	"github.com/productivity-engines/website/core/store"
	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/config"
	"github.com/productivity-engines/website/services/sales"
)

const (
	marketingAgentType = "marketing-agent"
	salesAgentType     = "sales-agent"
)

// Dashboard lists the agents visible to the user, filtered by the selected
// categories and the search query.
func (a *App) Dashboard() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := authState(c).User
		data := fiber.Map{
			"Title": "Dashboard - Productivity Engines",
			"Tab":   "catalog",
			"Query": c.Query("q"),
		}

		agents, err := a.catalog.VisibleAgents(c.UserContext(), user.ID)
		if err != nil {
			xlog.Error("Error fetching agents", "user", user.ID, "error", err)
			data["Error"] = "Failed to load agents. Please try refreshing the page."
			return a.render(c, fiber.StatusOK, "dashboard", data)
		}

		categories := catalog.Categories(agents)
		selected := queryList(c, "category")
		data["Categories"] = categories
		data["Selected"] = selectedSet(categories, selected)
		data["Agents"] = catalog.Filter(agents, selected, c.Query("q"))
		data["Total"] = len(agents)
		return a.render(c, fiber.StatusOK, "dashboard", data)
	}
}

// queryList returns every value of a repeated query parameter.
func queryList(c *fiber.Ctx, key string) []string {
	values := []string{}
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			values = append(values, s)
		}
	}
	return values
}

// selectedSet marks the checked categories; none selected means all are.
func selectedSet(categories, selected []string) map[string]bool {
	set := map[string]bool{}
	if len(selected) == 0 {
		for _, c := range categories {
			set[c] = true
		}
		return set
	}
	for _, s := range selected {
		set[s] = true
	}
	return set
}

// AgentPage renders /dashboard/:type. The marketing and sales agents get
// their own forms; other agents show their catalog entry.
func (a *App) AgentPage() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		agentType := c.Params("type")
		agent, err := a.catalog.ByType(c.UserContext(), agentType)
		if errors.Is(err, store.ErrNotFound) {
			return fiber.ErrNotFound
		}
		if err != nil {
			return err
		}

		switch agentType {
		case marketingAgentType:
			return a.renderMarketing(c, fiber.StatusOK, agent, defaultValues(marketingFields), fiber.Map{})
		case salesAgentType:
			return a.renderSales(c, fiber.StatusOK, agent, defaultValues(salesFields), fiber.Map{})
		}
		return a.render(c, fiber.StatusOK, "agent", fiber.Map{
			"Title": agent.Name + " - Productivity Engines",
			"Agent": agent,
		})
	}
}

func (a *App) renderMarketing(c *fiber.Ctx, status int, agent *models.AgentConfig, values map[string]string, data fiber.Map) error {
	data["Title"] = "Marketing Research Agent - Productivity Engines"
	data["Agent"] = agent
	data["Fields"] = marketingFields
	data["Values"] = values
	return a.render(c, status, "marketing_agent", data)
}

func (a *App) renderSales(c *fiber.Ctx, status int, agent *models.AgentConfig, values map[string]string, data fiber.Map) error {
	data["Title"] = "Sales Enablement Agent - Productivity Engines"
	data["Agent"] = agent
	data["Fields"] = salesFields
	data["Values"] = values
	return a.render(c, status, "sales_agent", data)
}

// RunMarketing submits the marketing form to the agent service and shows
// the analysis.
func (a *App) RunMarketing() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := authState(c).User
		values := formValues(marketingFields, func(k string) string { return strings.TrimSpace(c.FormValue(k)) })

		agent, err := a.catalog.ByType(ctx, marketingAgentType)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.ErrNotFound
			}
			return err
		}

		if err := config.Validate(marketingFields, values); err != nil {
			return a.renderMarketing(c, fiber.StatusBadRequest, agent, values, fiber.Map{"Error": flashFor(err, "")})
		}
		if a.config.AgentClient == nil {
			return a.renderMarketing(c, fiber.StatusServiceUnavailable, agent, values, fiber.Map{"Error": "The marketing agent service is not configured."})
		}

		req := marketingRequest(values)
		res, err := a.runMarketingAgent(c, user.ID, agent.ID, req)
		if err != nil {
			return a.renderMarketing(c, fiber.StatusBadGateway, agent, values, fiber.Map{"Error": err.Error()})
		}
		return a.renderMarketing(c, fiber.StatusOK, agent, values, fiber.Map{"Result": res})
	}
}

func marketingRequest(values map[string]string) agentclient.MarketingRequest {
	req := agentclient.MarketingRequest{
		BusinessName:     values["business_name"],
		WebsiteURL:       values["website_url"],
		Model:            values["model"],
		PreviousResponse: values["previous_response"],
	}
	if t, err := strconv.ParseFloat(values["temperature"], 32); err == nil {
		req.Temperature = float32(t)
	}
	return req.WithDefaults()
}

// runMarketingAgent calls the agent service and records the run and its
// token usage. Recording failures are logged, never returned.
func (a *App) runMarketingAgent(c *fiber.Ctx, userID, agentID string, req agentclient.MarketingRequest) (*agentclient.MarketingResponse, error) {
	ctx := c.UserContext()
	start := time.Now()
	res, err := a.config.AgentClient.RunMarketing(ctx, req)
	if err != nil {
		xlog.Error("Marketing agent failed", "user", userID, "business", req.BusinessName, "error", err)
		return nil, err
	}
	elapsed := time.Since(start).Milliseconds()

	result := &models.AgentResult{
		UserID:  userID,
		AgentID: agentID,
		Input: map[string]any{
			"business_name": req.BusinessName,
			"website_url":   req.WebsiteURL,
		},
		Output: map[string]any{
			"analysis":     res.Analysis,
			"search_query": res.SearchQuery,
		},
		Status:        "completed",
		ExecutionTime: &elapsed,
	}
	if err := a.config.Store.CreateResult(ctx, result); err != nil {
		xlog.Error("Error saving agent result", "user", userID, "error", err)
	}

	if res.Usage != nil {
		row := &models.TokenUsage{
			UserID:           userID,
			AgentID:          agentID,
			RequestID:        requestID(c),
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
			Model:            res.ModelUsed,
		}
		if err := a.usage.Record(ctx, row); err != nil {
			xlog.Error("Error recording token usage", "user", userID, "error", err)
		}
	}
	return res, nil
}

// DraftSales renders an outreach email and stores it as a result of the
// sales agent.
func (a *App) DraftSales() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		user := authState(c).User
		values := formValues(salesFields, func(k string) string { return strings.TrimSpace(c.FormValue(k)) })

		agent, err := a.catalog.ByType(ctx, salesAgentType)
		if errors.Is(err, store.ErrNotFound) {
			return a.render(c, fiber.StatusNotFound, "error", fiber.Map{
				"Code":    fiber.StatusNotFound,
				"Message": "Sales agent configuration not found",
			})
		}
		if err != nil {
			return err
		}

		req := sales.Request{
			ProspectName:         values["prospect_name"],
			Company:              values["company"],
			Industry:             values["industry"],
			PainPoints:           values["pain_points"],
			PreviousInteractions: values["previous_interactions"],
			Goal:                 values["goal"],
		}
		start := time.Now()
		draft, err := sales.Draft(req)
		if err != nil {
			return a.renderSales(c, fiber.StatusBadRequest, agent, values, fiber.Map{"Error": flashFor(err, "Failed to generate email. Please try again.")})
		}
		elapsed := time.Since(start).Milliseconds()

		result := &models.AgentResult{
			UserID:  user.ID,
			AgentID: agent.ID,
			Input: map[string]any{
				"prospect_name":         req.ProspectName,
				"company":               req.Company,
				"industry":              req.Industry,
				"pain_points":           req.PainPoints,
				"previous_interactions": req.PreviousInteractions,
				"goal":                  req.Goal,
			},
			Output:        map[string]any{"email": draft},
			Status:        "completed",
			ExecutionTime: &elapsed,
		}
		if err := a.config.Store.CreateResult(ctx, result); err != nil {
			xlog.Error("Error saving sales draft", "user", user.ID, "error", err)
		}
		return a.renderSales(c, fiber.StatusOK, agent, values, fiber.Map{"Draft": draft})
	}
}
