package marketing

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/types"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/apikey"
)

const Version = "1.0.0"

// NewServer exposes the agent over HTTP. When apiKeys is empty the agent
// endpoints are open.
func NewServer(agent *Agent, apiKeys []string) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "Marketing Agent API",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Marketing Agent API is running"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "agent": "marketing", "version": Version})
	})

	protected := app.Group("/")
	if len(apiKeys) > 0 {
		mw, err := apikey.New(apiKeys, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid or missing API key"})
		})
		if err != nil {
			return nil, err
		}
		protected.Use(mw)
	}

	protected.Get("/agents", func(c *fiber.Ctx) error {
		return c.JSON([]fiber.Map{{
			"id":          "marketing",
			"name":        "Marketing Research Agent",
			"description": "Analyzes businesses and provides marketing insights",
			"version":     Version,
		}})
	})
	protected.Post("/run_agent", run(agent))
	protected.Post("/agents/marketing", run(agent))

	return app, nil
}

func run(agent *Agent) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := agentclient.MarketingRequest{}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
		}

		start := time.Now()
		res, err := agent.Run(c.UserContext(), req)
		if err != nil {
			return err
		}
		xlog.Info("Marketing analysis done", "business", req.BusinessName, "model", res.ModelUsed, "duration", time.Since(start))
		return c.JSON(res)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	if msg, ok := types.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msg})
	}
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	xlog.Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(code).JSON(fiber.Map{"detail": "Error running marketing agent: " + err.Error()})
}
