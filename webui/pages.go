package webui

import (
	fiber "github.com/gofiber/fiber/v2"
)

type page struct {
	path  string
	view  string
	title string
}

var marketingPages = []page{
	{"/", "home", "Productivity Engines - Scalable Automation"},
	{"/about", "about", "About Us - Productivity Engines"},
	{"/services", "services", "Solutions - Productivity Engines"},
	{"/services/private-ai", "private_ai", "Private & Secure AI - Productivity Engines"},
	{"/case-studies", "case_studies", "Case Studies - Productivity Engines"},
	{"/why-now", "why_now", "Why Now - Productivity Engines"},
	{"/privacy", "privacy", "Privacy Policy - Productivity Engines"},
	{"/contact/thank-you", "thank_you", "Thank You - Productivity Engines"},
}

// StaticPage renders one of the content pages.
func (a *App) StaticPage(p page) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return a.render(c, fiber.StatusOK, p.view, fiber.Map{"Title": p.title})
	}
}
