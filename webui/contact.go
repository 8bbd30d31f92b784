package webui

import (
	"errors"
	"strings"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/pkg/config"
	"github.com/productivity-engines/website/pkg/mailer"
)

// honeypotField is hidden from people; bots filling it are dropped silently.
const honeypotField = "_gotcha"

func (a *App) ContactPage() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return a.renderContact(c, fiber.StatusOK, map[string]string{}, "")
	}
}

func (a *App) renderContact(c *fiber.Ctx, status int, values map[string]string, flash string) error {
	return a.render(c, status, "contact", fiber.Map{
		"Title":      "Contact Us - Productivity Engines",
		"Fields":     contactFields,
		"Values":     values,
		"Flash":      flash,
		"Configured": a.config.Mailer != nil,
	})
}

// Contact validates the form and relays it by email.
func (a *App) Contact() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		values := formValues(contactFields, func(k string) string { return strings.TrimSpace(c.FormValue(k)) })

		if c.FormValue(honeypotField) != "" {
			xlog.Info("Dropped contact submission", "ip", c.IP())
			return c.Redirect("/contact/thank-you")
		}

		if err := config.Validate(contactFields, values); err != nil {
			return a.renderContact(c, fiber.StatusBadRequest, values, flashFor(err, ""))
		}

		if a.config.Mailer == nil {
			return a.renderContact(c, fiber.StatusServiceUnavailable, values, "The contact form is not configured. Please email us directly.")
		}

		msg := mailer.Message{
			Name:     values["name"],
			Email:    values["email"],
			Company:  values["company"],
			Phone:    values["phone"],
			Position: values["position"],
			Message:  values["message"],
		}
		if err := a.config.Mailer.Send(c.UserContext(), msg); err != nil {
			if errors.Is(err, mailer.ErrNotConfigured) {
				return a.renderContact(c, fiber.StatusServiceUnavailable, values, "The contact form is not configured. Please email us directly.")
			}
			xlog.Error("Failed to send contact message", "email", msg.Email, "error", err)
			return a.renderContact(c, fiber.StatusBadGateway, values, "Failed to send your message. Please try again later.")
		}

		xlog.Info("Contact message sent", "email", msg.Email, "company", msg.Company)
		return c.Redirect("/contact/thank-you")
	}
}
