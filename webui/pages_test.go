package webui_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Marketing pages", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness()
	})

	DescribeTable("renders every content page",
		func(path, text string) {
			resp, body := h.do(request{path: path})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(text))
			Expect(body).To(ContainSubstring("Productivity Engines. All rights reserved."))
		},
		Entry("home", "/", "Scalable Automation"),
		Entry("about", "/about", "Building intelligent automation solutions since 2020"),
		Entry("services", "/services", "Scalable Integration"),
		Entry("private ai", "/services/private-ai", "Knowledge Collection"),
		Entry("case studies", "/case-studies", "Real Results for Real Businesses"),
		Entry("why now", "/why-now", "The Time Is Now"),
		Entry("privacy", "/privacy", "Privacy Policy"),
		Entry("contact", "/contact", "Schedule Your Free Consultation"),
		Entry("thank you", "/contact/thank-you", "within 1 business day"),
	)

	It("shows the login link to anonymous visitors and the dashboard link to users", func() {
		_, body := h.do(request{path: "/"})
		Expect(body).To(ContainSubstring(`href="/login"`))

		_, body = h.do(request{path: "/", token: signToken("u1", "ann@example.com")})
		Expect(body).To(ContainSubstring(`href="/dashboard"`))
		Expect(body).To(ContainSubstring("Sign out"))
	})

	It("answers unknown paths with a 404 page", func() {
		resp, body := h.do(request{path: "/nope"})
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(body).To(ContainSubstring("Page not found"))
	})

	It("serves the stylesheet", func() {
		resp, body := h.do(request{path: "/static/site.css"})
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(".button"))
	})
})
