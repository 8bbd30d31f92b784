package webui

import (
	"embed"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/assignment"
	"github.com/productivity-engines/website/core/catalog"
	"github.com/productivity-engines/website/core/deploy"
	"github.com/productivity-engines/website/core/roles"
	"github.com/productivity-engines/website/core/seed"
	"github.com/productivity-engines/website/core/types"
	"github.com/productivity-engines/website/core/usage"
)

//go:embed views/*.html views/layouts/*.html views/partials/*.html
var viewsfs embed.FS

const layout = "views/layouts/main"

type (
	App struct {
		config      *Config
		catalog     *catalog.Catalog
		roles       *roles.Roles
		assignments *assignment.Service
		usage       *usage.Service
		deploy      *deploy.Service
		seeder      *seed.Seeder
		*fiber.App
	}
)

func NewApp(opts ...Option) (*App, error) {
	config := NewConfig(opts...)
	if config.Store == nil {
		return nil, errors.New("webui: a store is required")
	}

	defaults, err := seed.LoadDefaults()
	if err != nil {
		return nil, err
	}

	engine := html.NewFileSystem(http.FS(viewsfs), ".html")
	engine.AddFuncMap(sprig.FuncMap())
	engine.AddFuncMap(map[string]any{
		"badge":      statusBadge,
		"flash":      flashBox,
		"usageBar":   usageBar,
		"visibility": visibilityBadge,
		"markdown":   renderMarkdown,
	})

	webapp := fiber.New(fiber.Config{
		Views:        engine,
		AppName:      "Productivity Engines",
		ErrorHandler: errorHandler,
	})

	deployments := config.Deploy
	if deployments == nil {
		dopts := []deploy.Option{}
		if config.Events != nil {
			dopts = append(dopts, deploy.WithPublisher(config.Events))
		}
		deployments = deploy.New(config.Store, dopts...)
	}

	a := &App{
		config:      config,
		catalog:     catalog.New(config.Store),
		roles:       roles.New(config.Store, config.AdminEmails),
		assignments: assignment.New(config.Store),
		usage:       usage.New(config.Store),
		deploy:      deployments,
		seeder:      seed.New(config.Store, defaults),
		App:         webapp,
	}

	if config.Auth != nil {
		config.Auth.OnAuthStateChange(a.mirrorSession)
	}

	if err := a.registerRoutes(webapp); err != nil {
		return nil, err
	}
	return a, nil
}

// render executes a view inside the site layout with the request's auth state.
func (a *App) render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Auth"] = authState(c)
	data["Path"] = c.Path()
	data["Year"] = a.config.Now().Year()
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Productivity Engines"
	}
	return c.Status(status).Render("views/"+view, data, layout)
}

func errorJSONMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(struct {
		Error string `json:"error"`
	}{Error: message})
}

func statusJSONMessage(c *fiber.Ctx, message string) error {
	return c.JSON(struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: true, Message: message})
}

// flashFor turns an error into the message shown to the user. Validation
// errors are shown verbatim; anything else is logged and replaced by fallback.
func flashFor(err error, fallback string) string {
	if msg, ok := types.AsValidation(err); ok {
		return msg
	}
	xlog.Error(fallback, "error", err)
	return fallback
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		xlog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return errorJSONMessage(c, code, err.Error())
	}

	message := "An unexpected error occurred"
	if code == fiber.StatusNotFound {
		message = "Page not found"
	}
	return c.Status(code).Render("views/error", fiber.Map{
		"Title":   "Error - Productivity Engines",
		"Code":    code,
		"Message": message,
		"Auth":    authState(c),
		"Path":    c.Path(),
		"Year":    time.Now().Year(),
	}, layout)
}
