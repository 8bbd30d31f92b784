// Package assignment grants catalog agents to users or companies.
package assignment

import (
	"context"
	"fmt"
	"strings"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/types"
	models "github.com/productivity-engines/website/dbmodels"
)

const (
	TargetUser    = "user"
	TargetCompany = "company"
)

// Form is the submitted assignment form. AssignType selects which of
// UserID and CompanyID is used.
type Form struct {
	AgentID    string
	AssignType string
	UserID     string
	CompanyID  string
}

// Row is an assignment joined with the display names of what it references.
type Row struct {
	models.UserAgentAssignment
	AgentName  string
	TargetName string
	TargetType string
}

// Options are the choices offered by the assignment form.
type Options struct {
	Agents    []models.AgentConfig
	Users     []models.User
	Companies []models.Company
}

type Service struct {
	store *store.Store
}

func New(s *store.Store) *Service {
	return &Service{store: s}
}

func (f Form) validate() error {
	if strings.TrimSpace(f.AgentID) == "" {
		return types.Invalid("Please select an agent")
	}
	if f.AssignType == TargetCompany {
		if strings.TrimSpace(f.CompanyID) == "" {
			return types.Invalid("Please select a company")
		}
		return nil
	}
	if strings.TrimSpace(f.UserID) == "" {
		return types.Invalid("Please select a user")
	}
	return nil
}

// Assign creates an active assignment unless the agent is already assigned
// to the same user or company.
func (s *Service) Assign(ctx context.Context, f Form, assignedBy string) (*models.UserAgentAssignment, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	a := &models.UserAgentAssignment{
		AgentID:    strings.TrimSpace(f.AgentID),
		AssignedBy: assignedBy,
		Status:     models.AssignmentActive,
	}
	if f.AssignType == TargetCompany {
		id := strings.TrimSpace(f.CompanyID)
		a.CompanyID = &id
	} else {
		id := strings.TrimSpace(f.UserID)
		a.UserID = &id
	}

	exists, err := s.store.AssignmentExists(ctx, a.AgentID, a.UserID, a.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign agent: %w", err)
	}
	if exists {
		return nil, types.Invalid("This agent is already assigned to this user/company")
	}

	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to assign agent: %w", err)
	}
	return a, nil
}

// Remove deletes an assignment; store.ErrNotFound when it does not exist.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
	}
	return nil
}

func (s *Service) Options(ctx context.Context) (*Options, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return &Options{Agents: agents, Users: users, Companies: companies}, nil
}

// List returns every assignment, newest first, resolved against opts.
func (s *Service) List(ctx context.Context, opts *Options) ([]Row, error) {
	assignments, err := s.store.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	agentNames := map[string]string{}
	for _, a := range opts.Agents {
		agentNames[a.ID] = a.Name
	}
	userEmails := map[string]string{}
	for _, u := range opts.Users {
		userEmails[u.ID] = u.Email
	}
	companyNames := map[string]string{}
	for _, c := range opts.Companies {
		companyNames[c.ID] = c.Name
	}

	rows := make([]Row, 0, len(assignments))
	for _, a := range assignments {
		row := Row{UserAgentAssignment: a, AgentName: agentNames[a.AgentID]}
		switch {
		case a.CompanyID != nil:
			row.TargetType = TargetCompany
			row.TargetName = orID(companyNames[*a.CompanyID], *a.CompanyID)
		case a.UserID != nil:
			row.TargetType = TargetUser
			row.TargetName = orID(userEmails[*a.UserID], *a.UserID)
		}
		if row.AgentName == "" {
			row.AgentName = a.AgentID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func orID(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
