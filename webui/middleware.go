package webui

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/mudler/xlog"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an id and logs it once served.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("requestID", id)
		c.Set(requestIDHeader, id)

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		xlog.Debug("HTTP request",
			"id", id,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start))
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestID").(string); ok {
		return id
	}
	return uuid.NewString()
}

// contactLimiter throttles form submissions per client IP.
func contactLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			xlog.Warn("Contact form rate limited", "ip", c.IP())
			return c.Status(fiber.StatusTooManyRequests).Render("views/contact", fiber.Map{
				"Title":  "Contact Us - Productivity Engines",
				"Fields": contactFields,
				"Values": map[string]string{},
				"Flash":  "Too many requests. Please try again in a minute.",
				"Auth":   authState(c),
				"Path":   c.Path(),
				"Year":   time.Now().Year(),
			}, layout)
		},
	})
}
