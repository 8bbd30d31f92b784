package seed_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/productivity-engines/website/core/seed"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/store/storetest"
)

var _ = Describe("Seeder", func() {
	var (
		ctx    context.Context
		s      *store.Store
		seeder *seed.Seeder
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		s, err = storetest.New(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		defaults, err := seed.LoadDefaults()
		Expect(err).NotTo(HaveOccurred())
		seeder = seed.New(s, defaults)
	})

	It("ships both seed sets", func() {
		defaults, err := seed.LoadDefaults()
		Expect(err).NotTo(HaveOccurred())
		Expect(defaults.Base.Categories).To(HaveLen(4))
		Expect(defaults.Base.Agents).To(HaveLen(2))
		Expect(defaults.Extended.Categories).To(HaveLen(6))
		Expect(defaults.Extended.Agents).To(HaveLen(3))
	})

	It("is idempotent", func() {
		res, err := seeder.InitDB(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*res).To(Equal(seed.Result{Categories: 4, Agents: 2}))

		res, err = seeder.InitDB(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*res).To(Equal(seed.Result{}))

		res, err = seeder.SeedData(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*res).To(Equal(seed.Result{Categories: 2, Agents: 1}))

		res, err = seeder.SeedData(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*res).To(Equal(seed.Result{}))

		agents, err := s.ListAgents(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(agents).To(HaveLen(3))

		// existing rows are not overwritten
		marketing, err := s.AgentByType(ctx, "marketing-agent")
		Expect(err).NotTo(HaveOccurred())
		Expect(marketing.Description).To(Equal("Research businesses and generate marketing insights"))
		Expect(marketing.IsPublic).To(BeTrue())
	})

	It("rejects malformed defaults", func() {
		_, err := seed.ParseDefaults([]byte("base: ["))
		Expect(err).To(HaveOccurred())
	})
})
