package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/productivity-engines/website/core/types"
	"github.com/productivity-engines/website/pkg/config"
)

var _ = Describe("Validate", func() {
	fields := []config.Field{
		{Name: "name", Label: "Full Name", Required: true},
		{Name: "phone", Label: "Phone Number"},
		{Name: "type", Label: "Agent Type", Required: true, RequiredMessage: "Agent type is required"},
	}

	It("accepts forms with every required field", func() {
		Expect(config.Validate(fields, map[string]string{"name": "Ada", "type": "x"})).To(Succeed())
	})

	It("reports the first missing field by label", func() {
		err := config.Validate(fields, map[string]string{"name": "   ", "type": "x"})
		Expect(err).To(MatchError("Full Name is required"))
		msg, ok := types.AsValidation(err)
		Expect(ok).To(BeTrue())
		Expect(msg).To(Equal("Full Name is required"))
	})

	It("uses the custom message when set", func() {
		err := config.Validate(fields, map[string]string{"name": "Ada"})
		Expect(err).To(MatchError("Agent type is required"))
	})
})
