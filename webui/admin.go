package webui

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/productivity-engines/website/core/assignment"
	"github.com/productivity-engines/website/core/catalog"
	"github.com/productivity-engines/website/core/deploy"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/usage"
)

// adminData are the keys every admin tab passes to its view.
func adminData(tab, title string) fiber.Map {
	return fiber.Map{
		"Title": title + " - Productivity Engines",
		"Tab":   tab,
	}
}

func (a *App) AdminAgents() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return a.renderAdminAgents(c, fiber.StatusOK, defaultValues(agentFields), nil, "", "")
	}
}

func (a *App) renderAdminAgents(c *fiber.Ctx, status int, values map[string]string, checked []string, flashErr, flashOK string) error {
	data := adminData("agents", "Admin Panel")
	data["AgentFields"] = agentFields
	data["CategoryFields"] = categoryFields
	data["Values"] = values
	data["Error"] = flashErr
	data["Success"] = flashOK

	ctx := c.UserContext()
	categories, err := a.catalog.ListCategories(ctx)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load categories")
	}
	agents, err := a.catalog.ListAgents(ctx)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load agents")
	}
	data["Categories"] = categories
	data["Agents"] = agents
	data["Checked"] = selectedSet(nil, checked)
	return a.render(c, status, "admin_agents", data)
}

// queryListForm returns every value of a repeated form field.
func queryListForm(c *fiber.Ctx, key string) []string {
	values := []string{}
	for _, v := range c.Context().PostArgs().PeekMulti(key) {
		values = append(values, string(v))
	}
	return values
}

func (a *App) CreateAgent() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		values := formValues(agentFields, func(k string) string { return c.FormValue(k) })
		in := catalog.AgentInput{
			Name:        values["name"],
			Description: values["description"],
			Type:        values["type"],
			Icon:        values["icon"],
			Categories:  queryListForm(c, "categories"),
			IsPublic:    values["is_public"] != "",
		}

		if _, err := a.catalog.CreateAgent(c.UserContext(), in, authState(c).User.ID); err != nil {
			return a.renderAdminAgents(c, fiber.StatusBadRequest, values, in.Categories, flashFor(err, "Failed to create agent. Please try again."), "")
		}
		return a.renderAdminAgents(c, fiber.StatusOK, defaultValues(agentFields), nil, "", "Agent created successfully!")
	}
}

func (a *App) AddCategory() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		_, err := a.catalog.AddCategory(c.UserContext(), c.FormValue("category_name"), c.FormValue("category_description"))
		if err != nil {
			return a.renderAdminAgents(c, fiber.StatusBadRequest, defaultValues(agentFields), nil, flashFor(err, "Failed to add category. Please try again."), "")
		}
		return a.renderAdminAgents(c, fiber.StatusOK, defaultValues(agentFields), nil, "", "Category added successfully!")
	}
}

func (a *App) AdminAssignments() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return a.renderAssignments(c, fiber.StatusOK, assignment.Form{AssignType: assignment.TargetUser}, "", "")
	}
}

func (a *App) renderAssignments(c *fiber.Ctx, status int, form assignment.Form, flashErr, flashOK string) error {
	data := adminData("assignments", "Agent Assignments")
	data["Form"] = form
	data["Error"] = flashErr
	data["Success"] = flashOK

	ctx := c.UserContext()
	opts, err := a.assignments.Options(ctx)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load data. Please try again.")
		return a.render(c, status, "admin_assignments", data)
	}
	rows, err := a.assignments.List(ctx, opts)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load data. Please try again.")
	}
	data["Options"] = opts
	data["Assignments"] = rows
	return a.render(c, status, "admin_assignments", data)
}

func (a *App) Assign() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		form := assignment.Form{
			AgentID:    c.FormValue("agent_id"),
			AssignType: c.FormValue("assign_type", assignment.TargetUser),
			UserID:     c.FormValue("user_id"),
			CompanyID:  c.FormValue("company_id"),
		}
		if _, err := a.assignments.Assign(c.UserContext(), form, authState(c).User.ID); err != nil {
			return a.renderAssignments(c, fiber.StatusBadRequest, form, flashFor(err, "Failed to assign agent"), "")
		}
		return a.renderAssignments(c, fiber.StatusOK, assignment.Form{AssignType: form.AssignType}, "", "Agent assigned successfully!")
	}
}

func (a *App) RemoveAssignment() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		empty := assignment.Form{AssignType: assignment.TargetUser}
		err := a.assignments.Remove(c.UserContext(), c.Params("id"))
		if errors.Is(err, store.ErrNotFound) {
			return a.renderAssignments(c, fiber.StatusNotFound, empty, "Failed to remove assignment: assignment not found", "")
		}
		if err != nil {
			return a.renderAssignments(c, fiber.StatusInternalServerError, empty, flashFor(err, "Failed to remove assignment"), "")
		}
		return a.renderAssignments(c, fiber.StatusOK, empty, "", "Assignment removed successfully!")
	}
}

func (a *App) AdminUsage() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		data := adminData("usage", "Token Usage")
		r := usage.ParseRange(c.Query("range"))
		data["Range"] = string(r)
		data["Ranges"] = rangeOptions()

		report, err := a.usage.Report(c.UserContext(), r, a.config.Now())
		if err != nil {
			data["Error"] = flashFor(err, "Failed to load token usage data. Please try again.")
			return a.render(c, fiber.StatusOK, "admin_usage", data)
		}
		data["Report"] = report
		return a.render(c, fiber.StatusOK, "admin_usage", data)
	}
}

func (a *App) AdminDeployments() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return a.renderDeployments(c, fiber.StatusOK, deploy.Form{}, "", "")
	}
}

func (a *App) renderDeployments(c *fiber.Ctx, status int, form deploy.Form, flashErr, flashOK string) error {
	data := adminData("deployments", "Agent Deployment")
	data["Fields"] = deployFields
	data["Form"] = form
	data["Values"] = map[string]string{
		"subdomain":  form.Subdomain,
		"version":    form.Version,
		"replit_url": form.ReplitURL,
	}
	data["Error"] = flashErr
	data["Success"] = flashOK

	ctx := c.UserContext()
	agents, err := a.catalog.ListAgents(ctx)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load data. Please try again.")
	}
	rows, err := a.deploy.List(ctx)
	if err != nil {
		data["Error"] = flashFor(err, "Failed to load data. Please try again.")
	}
	suggestions := map[string]string{}
	for _, ag := range agents {
		suggestions[ag.ID] = deploy.SuggestSubdomain(ag.Name)
	}
	data["Agents"] = agents
	data["Suggestions"] = suggestions
	data["Deployments"] = rows
	return a.render(c, status, "admin_deployments", data)
}

func (a *App) Deploy() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		form := deploy.Form{
			AgentID:   c.FormValue("agent_id"),
			Subdomain: c.FormValue("subdomain"),
			Version:   c.FormValue("version"),
			ReplitURL: c.FormValue("replit_url"),
		}
		_, operation, err := a.deploy.Deploy(c.UserContext(), form)
		if err != nil {
			return a.renderDeployments(c, fiber.StatusBadRequest, form, flashFor(err, "Failed to deploy agent"), "")
		}
		return a.renderDeployments(c, fiber.StatusOK, deploy.Form{}, "",
			fmt.Sprintf("Deployment %s successfully! Processing will complete shortly.", operation))
	}
}

// DeploymentAction stops or restarts a deployment.
func (a *App) DeploymentAction(action string) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := c.Params("id")

		var err error
		var ok, failed string
		switch action {
		case "stop":
			err = a.deploy.Stop(ctx, id)
			ok, failed = "Deployment stopped successfully!", "Failed to stop deployment"
		case "restart":
			err = a.deploy.Restart(ctx, id)
			ok, failed = "Deployment restart initiated!", "Failed to restart deployment"
		default:
			return fiber.ErrNotFound
		}

		if errors.Is(err, store.ErrNotFound) {
			return a.renderDeployments(c, fiber.StatusNotFound, deploy.Form{}, failed+": deployment not found", "")
		}
		if err != nil {
			return a.renderDeployments(c, fiber.StatusInternalServerError, deploy.Form{}, flashFor(err, failed), "")
		}
		return a.renderDeployments(c, fiber.StatusOK, deploy.Form{}, "", ok)
	}
}
