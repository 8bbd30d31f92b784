package webui

import (
	"embed"
	"net/http"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

//go:embed static/*
var staticfs embed.FS

func (app *App) registerRoutes(webapp *fiber.App) error {
	webapp.Use(recover.New())
	webapp.Use(requestLogger())

	webapp.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(staticfs),
		PathPrefix: "static",
	}))

	webapp.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	serviceKey, err := app.serviceKeyAuth()
	if err != nil {
		return err
	}
	api := webapp.Group("/api")
	api.Get("/init-db", serviceKey, app.InitDB())
	api.Get("/seed-data", serviceKey, app.SeedData())
	api.Get("/set-admin", serviceKey, app.SetAdmin())

	webapp.Use(app.LoadSession())

	for _, p := range marketingPages {
		webapp.Get(p.path, app.StaticPage(p))
	}
	webapp.Get("/contact", app.ContactPage())
	webapp.Post("/contact", contactLimiter(app.config.ContactLimit), app.Contact())

	webapp.Get("/login", app.LoginPage())
	webapp.Post("/login", app.Login())
	webapp.Get("/auth/callback", app.OAuthCallback())
	webapp.Get("/auth/:provider", app.OAuthStart())
	webapp.Post("/logout", app.Logout())
	webapp.Get("/logout", app.Logout())

	api.Post("/marketing-agent", app.MarketingAgentAPI())

	// Group middleware matches by string prefix, so the guards are
	// registered as routes to keep /dashboardx out of them.
	guard(webapp, "/dashboard", app.RequireSession())
	guard(webapp, "/dashboard/admin", app.RequireAdmin())

	dashboard := webapp.Group("/dashboard")
	dashboard.Get("/", app.Dashboard())

	admin := dashboard.Group("/admin")
	admin.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard/admin/agents")
	})
	admin.Get("/agents", app.AdminAgents())
	admin.Post("/agents", app.CreateAgent())
	admin.Post("/categories", app.AddCategory())
	admin.Get("/assignments", app.AdminAssignments())
	admin.Post("/assignments", app.Assign())
	admin.Post("/assignments/:id/delete", app.RemoveAssignment())
	admin.Get("/usage", app.AdminUsage())
	admin.Get("/deployments", app.AdminDeployments())
	admin.Post("/deployments", app.Deploy())
	admin.Post("/deployments/:id/stop", app.DeploymentAction("stop"))
	admin.Post("/deployments/:id/restart", app.DeploymentAction("restart"))

	dashboard.Get("/:type", app.AgentPage())
	dashboard.Post("/"+marketingAgentType, app.RunMarketing())
	dashboard.Post("/"+salesAgentType, app.DraftSales())

	webapp.Get("/sse/deployments", app.RequireSession(), app.RequireAdmin(), app.DeploymentEvents())

	webapp.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return nil
}

func guard(r fiber.Router, prefix string, handler fiber.Handler) {
	r.All(prefix, handler)
	r.All(prefix+"/*", handler)
}
