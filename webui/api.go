package webui

import (
	"errors"
	"strings"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/sse"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/types"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/apikey"
)

// serviceKeyAuth guards the maintenance routes with the service role key.
func (a *App) serviceKeyAuth() (func(c *fiber.Ctx) error, error) {
	if a.config.ServiceRoleKey == "" {
		return func(c *fiber.Ctx) error {
			return errorJSONMessage(c, fiber.StatusInternalServerError, "Service role key not configured")
		}, nil
	}
	return apikey.New([]string{a.config.ServiceRoleKey}, func(c *fiber.Ctx) error {
		c.Set("WWW-Authenticate", "Bearer")
		return errorJSONMessage(c, fiber.StatusUnauthorized, "Invalid or missing service role key")
	})
}

func (a *App) InitDB() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		res, err := a.seeder.InitDB(c.UserContext())
		if err != nil {
			xlog.Error("Database initialization error", "error", err)
			return errorJSONMessage(c, fiber.StatusInternalServerError, "Failed to initialize database")
		}
		xlog.Info("Database initialized", "categories", res.Categories, "agents", res.Agents)
		return statusJSONMessage(c, "Database initialized successfully")
	}
}

func (a *App) SeedData() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		res, err := a.seeder.SeedData(c.UserContext())
		if err != nil {
			xlog.Error("Seeding error", "error", err)
			return errorJSONMessage(c, fiber.StatusInternalServerError, "Failed to seed database")
		}
		xlog.Info("Database seeded", "categories", res.Categories, "agents", res.Agents)
		return statusJSONMessage(c, "Database seeded successfully")
	}
}

func (a *App) SetAdmin() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		msg, err := a.roles.SetAdmin(c.UserContext(), c.Query("email"))
		if errors.Is(err, store.ErrNotFound) {
			return errorJSONMessage(c, fiber.StatusNotFound, err.Error())
		}
		if msg, ok := types.AsValidation(err); ok {
			return errorJSONMessage(c, fiber.StatusBadRequest, msg)
		}
		if err != nil {
			xlog.Error("Error setting admin role", "error", err)
			return errorJSONMessage(c, fiber.StatusInternalServerError, "Failed to set admin role")
		}
		return statusJSONMessage(c, msg)
	}
}

type marketingAPIRequest struct {
	BusinessName     string  `json:"business_name"`
	WebsiteURL       string  `json:"website_url"`
	Model            string  `json:"model"`
	Temperature      float32 `json:"temperature"`
	PreviousResponse string  `json:"previous_response"`
}

// MarketingAgentAPI proxies a JSON request to the marketing agent service
// on behalf of the signed-in user.
func (a *App) MarketingAgentAPI() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		state := authState(c)
		if !state.SignedIn() {
			return errorJSONMessage(c, fiber.StatusUnauthorized, "You must be logged in to use this API")
		}

		payload := marketingAPIRequest{}
		if err := c.BodyParser(&payload); err != nil {
			return errorJSONMessage(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(payload.BusinessName) == "" || strings.TrimSpace(payload.WebsiteURL) == "" {
			return errorJSONMessage(c, fiber.StatusBadRequest, "Business name and website URL are required")
		}
		if a.config.AgentClient == nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, "The marketing agent service is not configured")
		}

		agentID := marketingAgentType
		if agent, err := a.catalog.ByType(c.UserContext(), marketingAgentType); err == nil {
			agentID = agent.ID
		}

		req := agentclient.MarketingRequest{
			BusinessName:     strings.TrimSpace(payload.BusinessName),
			WebsiteURL:       strings.TrimSpace(payload.WebsiteURL),
			Model:            payload.Model,
			Temperature:      payload.Temperature,
			PreviousResponse: payload.PreviousResponse,
		}.WithDefaults()

		res, err := a.runMarketingAgent(c, state.User.ID, agentID, req)
		if err != nil {
			return errorJSONMessage(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	}
}

// DeploymentEvents streams deployment changes to admins.
func (a *App) DeploymentEvents() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if a.config.Events == nil {
			return fiber.ErrNotFound
		}
		a.config.Events.Handle(c, sse.NewClient(uuid.NewString()))
		return nil
	}
}
