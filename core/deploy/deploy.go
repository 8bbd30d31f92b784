// Package deploy simulates the hosting lifecycle of catalog agents. A
// deployment is created pending and flipped to active by the Activator once
// its activation time has passed.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mudler/xlog"
	"gorm.io/datatypes"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/types"
	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/xstrings"
)

const (
	DefaultVersion = "1.0.0"
	DefaultDelay   = 3 * time.Second

	OperationCreated = "created"
	OperationUpdated = "updated"

	// EventName is the SSE event carrying deployment changes.
	EventName = "deployment"
)

// Publisher receives every deployment change.
type Publisher interface {
	Publish(event string, data any)
}

// Form is the submitted deploy form.
type Form struct {
	AgentID   string
	Subdomain string
	Version   string
	ReplitURL string
}

// Row is a deployment joined with its agent name.
type Row struct {
	models.AgentDeployment
	AgentName string
	ReplitURL string
}

// Event is the payload published on every status change.
type Event struct {
	ID          string  `json:"id"`
	AgentID     string  `json:"agent_id"`
	Subdomain   string  `json:"subdomain"`
	Status      string  `json:"status"`
	ContainerID *string `json:"container_id"`
}

type Service struct {
	store     *store.Store
	delay     time.Duration
	now       func() time.Time
	publisher Publisher
}

type Option func(*Service)

func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(s *store.Store, opts ...Option) *Service {
	svc := &Service{
		store: s,
		delay: DefaultDelay,
		now:   time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// SuggestSubdomain derives a subdomain from an agent name.
func SuggestSubdomain(name string) string {
	return xstrings.Slugify(name)
}

// ContainerID is the label given to a deployment on first activation.
func ContainerID(deploymentID string) string {
	if len(deploymentID) > 8 {
		deploymentID = deploymentID[:8]
	}
	return "container-" + deploymentID
}

func (f Form) validate() error {
	if strings.TrimSpace(f.AgentID) == "" {
		return types.Invalid("Please select an agent")
	}
	subdomain := strings.TrimSpace(f.Subdomain)
	if subdomain == "" {
		return types.Invalid("Please enter a subdomain")
	}
	if strings.TrimSpace(f.ReplitURL) == "" {
		return types.Invalid("Please enter the Replit URL")
	}
	if !xstrings.IsSlug(subdomain) {
		return types.Invalid("Subdomain may only contain lowercase letters, numbers and hyphens")
	}
	return nil
}

func (s *Service) activationTime() time.Time {
	return s.now().Add(s.delay).UTC()
}

// Deploy creates the agent's deployment or redeploys the existing one. Either
// way the deployment goes back to pending. It returns the row and whether it
// was created or updated.
func (s *Service) Deploy(ctx context.Context, f Form) (*models.AgentDeployment, string, error) {
	if err := f.validate(); err != nil {
		return nil, "", err
	}
	agentID := strings.TrimSpace(f.AgentID)
	subdomain := strings.TrimSpace(f.Subdomain)
	version := strings.TrimSpace(f.Version)
	if version == "" {
		version = DefaultVersion
	}

	if _, err := s.store.AgentByID(ctx, agentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", types.Invalid("Please select an agent")
		}
		return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
	}

	taken, err := s.store.DeploymentBySubdomain(ctx, subdomain)
	switch {
	case err == nil && taken.AgentID != agentID:
		return nil, "", types.Invalid("This subdomain is already in use by another agent")
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
	}

	activateAt := s.activationTime()
	config := datatypes.JSONMap{"replitUrl": strings.TrimSpace(f.ReplitURL)}

	existing, err := s.store.DeploymentByAgent(ctx, agentID)
	switch {
	case err == nil:
		if err := s.store.UpdateDeployment(ctx, existing.ID, map[string]any{
			"subdomain":   subdomain,
			"version":     version,
			"config":      config,
			"status":      models.DeploymentPending,
			"activate_at": activateAt,
		}); err != nil {
			return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
		}
		d, err := s.store.DeploymentByID(ctx, existing.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
		}
		s.publish(d)
		return d, OperationUpdated, nil
	case errors.Is(err, store.ErrNotFound):
		d := &models.AgentDeployment{
			AgentID:    agentID,
			Subdomain:  subdomain,
			Version:    version,
			Config:     config,
			Status:     models.DeploymentPending,
			ActivateAt: &activateAt,
		}
		if err := s.store.CreateDeployment(ctx, d); err != nil {
			return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
		}
		s.publish(d)
		return d, OperationCreated, nil
	default:
		return nil, "", fmt.Errorf("failed to deploy agent: %w", err)
	}
}

// Stop marks the deployment stopped and cancels any pending activation.
func (s *Service) Stop(ctx context.Context, id string) error {
	if err := s.store.UpdateDeployment(ctx, id, map[string]any{
		"status":      models.DeploymentStopped,
		"activate_at": nil,
	}); err != nil {
		return fmt.Errorf("failed to stop deployment: %w", err)
	}
	s.publishID(ctx, id)
	return nil
}

// Restart puts the deployment back to pending with a fresh activation time.
func (s *Service) Restart(ctx context.Context, id string) error {
	if err := s.store.UpdateDeployment(ctx, id, map[string]any{
		"status":      models.DeploymentPending,
		"activate_at": s.activationTime(),
	}); err != nil {
		return fmt.Errorf("failed to restart deployment: %w", err)
	}
	s.publishID(ctx, id)
	return nil
}

// ActivateDue flips every pending deployment whose activation time has
// passed and returns how many were activated.
func (s *Service) ActivateDue(ctx context.Context) (int, error) {
	due, err := s.store.DueDeployments(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to load due deployments: %w", err)
	}

	activated := 0
	for _, d := range due {
		err := s.store.ActivateDeployment(ctx, d.ID, ContainerID(d.ID))
		if errors.Is(err, store.ErrNotFound) {
			// stopped or deleted meanwhile
			continue
		}
		if err != nil {
			xlog.Error("Error updating deployment status", "deployment", d.ID, "error", err)
			continue
		}
		activated++
		xlog.Info("Deployment active", "deployment", d.ID, "subdomain", d.Subdomain)
		s.publishID(ctx, d.ID)
	}
	return activated, nil
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	deployments, err := s.store.ListDeployments(ctx)
	if err != nil {
		return nil, err
	}
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(agents))
	for _, a := range agents {
		names[a.ID] = a.Name
	}

	rows := make([]Row, 0, len(deployments))
	for _, d := range deployments {
		row := Row{AgentDeployment: d, AgentName: names[d.AgentID]}
		if row.AgentName == "" {
			row.AgentName = d.AgentID
		}
		if u, ok := d.Config["replitUrl"].(string); ok {
			row.ReplitURL = u
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) publishID(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	d, err := s.store.DeploymentByID(ctx, id)
	if err != nil {
		xlog.Warn("Could not load deployment for event", "deployment", id, "error", err)
		return
	}
	s.publish(d)
}

func (s *Service) publish(d *models.AgentDeployment) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(EventName, Event{
		ID:          d.ID,
		AgentID:     d.AgentID,
		Subdomain:   d.Subdomain,
		Status:      d.Status,
		ContainerID: d.ContainerID,
	})
}
