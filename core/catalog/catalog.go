// Package catalog holds the agent catalog operations behind the dashboard
// and the "add agent" admin screen.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/types"
	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/xstrings"
)

type Catalog struct {
	store *store.Store
}

func New(s *store.Store) *Catalog {
	return &Catalog{store: s}
}

// AgentInput is the submitted "add agent" form.
type AgentInput struct {
	Name        string
	Description string
	Type        string
	Icon        string
	Categories  []string
	IsPublic    bool
}

// CreateAgent validates the form and inserts one agent with empty config objects.
func (c *Catalog) CreateAgent(ctx context.Context, in AgentInput, creatorID string) (*models.AgentConfig, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Invalid("Agent name is required")
	}
	agentType := strings.TrimSpace(in.Type)
	if agentType == "" {
		return nil, types.Invalid("Agent type is required")
	}

	agent := &models.AgentConfig{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Type:        agentType,
		Categories:  xstrings.UniqueSlice(in.Categories),
		IsPublic:    in.IsPublic,
	}
	if agent.Categories == nil {
		agent.Categories = []string{}
	}
	if icon := strings.TrimSpace(in.Icon); icon != "" {
		agent.Icon = &icon
	}
	if creatorID != "" {
		agent.CreatorID = &creatorID
	}

	if err := c.store.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return agent, nil
}

func (c *Catalog) AddCategory(ctx context.Context, name, description string) (*models.AgentCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.Invalid("Category name is required")
	}

	category := &models.AgentCategory{Name: name, Description: strings.TrimSpace(description)}
	if err := c.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to add category: %w", err)
	}
	return category, nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]models.AgentCategory, error) {
	return c.store.ListCategories(ctx)
}

func (c *Catalog) ListAgents(ctx context.Context) ([]models.AgentConfig, error) {
	return c.store.ListAgents(ctx)
}

// VisibleAgents lists the agents the user may see on the dashboard.
func (c *Catalog) VisibleAgents(ctx context.Context, userID string) ([]models.AgentConfig, error) {
	return c.store.AgentsVisibleTo(ctx, userID)
}

// ByType finds the agent whose page lives at /dashboard/<type>.
func (c *Catalog) ByType(ctx context.Context, agentType string) (*models.AgentConfig, error) {
	return c.store.AgentByType(ctx, agentType)
}
