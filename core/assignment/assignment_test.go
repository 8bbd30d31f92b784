package assignment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/productivity-engines/website/core/assignment"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/store/storetest"
	models "github.com/productivity-engines/website/dbmodels"
)

var _ = Describe("Assignment", func() {
	var (
		ctx     context.Context
		s       *store.Store
		svc     *assignment.Service
		agent   *models.AgentConfig
		company *models.Company
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		s, err = storetest.New(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		svc = assignment.New(s)

		agent = &models.AgentConfig{Name: "Sales Agent", Type: "sales-agent"}
		Expect(s.CreateAgent(ctx, agent)).To(Succeed())
		Expect(s.UpsertUser(ctx, &models.User{ID: "u1", Email: "u1@example.com"})).To(Succeed())
		company = &models.Company{Name: "Acme", OwnerID: "u1"}
		Expect(s.CreateCompany(ctx, company)).To(Succeed())
	})

	It("validates the form", func() {
		_, err := svc.Assign(ctx, assignment.Form{}, "admin")
		Expect(err).To(MatchError("Please select an agent"))

		_, err = svc.Assign(ctx, assignment.Form{AgentID: agent.ID, AssignType: assignment.TargetUser}, "admin")
		Expect(err).To(MatchError("Please select a user"))

		_, err = svc.Assign(ctx, assignment.Form{AgentID: agent.ID, AssignType: assignment.TargetCompany}, "admin")
		Expect(err).To(MatchError("Please select a company"))
	})

	It("assigns to users and companies and rejects duplicates", func() {
		a, err := svc.Assign(ctx, assignment.Form{AgentID: agent.ID, AssignType: assignment.TargetUser, UserID: "u1"}, "admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Status).To(Equal(models.AssignmentActive))
		Expect(a.CompanyID).To(BeNil())

		_, err = svc.Assign(ctx, assignment.Form{AgentID: agent.ID, AssignType: assignment.TargetUser, UserID: "u1"}, "admin")
		Expect(err).To(MatchError("This agent is already assigned to this user/company"))

		_, err = svc.Assign(ctx, assignment.Form{AgentID: agent.ID, AssignType: assignment.TargetCompany, CompanyID: company.ID}, "admin")
		Expect(err).NotTo(HaveOccurred())

		opts, err := svc.Options(ctx)
		Expect(err).NotTo(HaveOccurred())
		rows, err := svc.List(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		targets := []string{rows[0].TargetName, rows[1].TargetName}
		Expect(targets).To(ConsistOf("u1@example.com", "Acme"))
		Expect(rows[0].AgentName).To(Equal("Sales Agent"))
	})

	It("removes assignments from the list and the table", func() {
		a, err := svc.Assign(ctx, assignment.Form{AgentID: agent.ID, UserID: "u1"}, "admin")
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.Remove(ctx, a.ID)).To(Succeed())

		opts, err := svc.Options(ctx)
		Expect(err).NotTo(HaveOccurred())
		rows, err := svc.List(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())

		Expect(svc.Remove(ctx, a.ID)).To(MatchError(store.ErrNotFound))
	})
})
