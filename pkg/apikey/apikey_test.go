package apikey_test

import (
	"net/http/httptest"

	fiber "github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/productivity-engines/website/pkg/apikey"
)

var _ = Describe("Middleware", func() {
	var app *fiber.App

	BeforeEach(func() {
		mw, err := apikey.New([]string{"s3cret"}, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API key"})
		})
		Expect(err).NotTo(HaveOccurred())

		app = fiber.New()
		app.Get("/ok", mw, func(c *fiber.Ctx) error { return c.SendString("ok") })
	})

	It("requires keys", func() {
		_, err := apikey.New(nil, nil)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("key sources",
		func(header, value string, status int) {
			req := httptest.NewRequest("GET", "/ok", nil)
			if header != "" {
				req.Header.Set(header, value)
			}
			resp, err := app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(status))
		},
		Entry("bearer", "Authorization", "Bearer s3cret", 200),
		Entry("wrong key", "Authorization", "Bearer nope", 401),
		Entry("x-api-key", "x-api-key", "s3cret", 200),
		Entry("apikey", "apikey", "s3cret", 200),
		Entry("wrong x-api-key", "x-api-key", "nope", 401),
		Entry("bearer scheme on x-api-key", "x-api-key", "Bearer s3cret", 401),
		Entry("missing", "", "", 401),
	)
})
