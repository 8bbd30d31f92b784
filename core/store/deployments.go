package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	models "github.com/productivity-engines/website/dbmodels"
)

func (s *Store) ListDeployments(ctx context.Context) ([]models.AgentDeployment, error) {
	var deployments []models.AgentDeployment
	err := s.db.WithContext(ctx).Order("created_at").Find(&deployments).Error
	return deployments, err
}

func (s *Store) DeploymentByID(ctx context.Context, id string) (*models.AgentDeployment, error) {
	var d models.AgentDeployment
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) DeploymentByAgent(ctx context.Context, agentID string) (*models.AgentDeployment, error) {
	var d models.AgentDeployment
	if err := s.db.WithContext(ctx).First(&d, "agent_id = ?", agentID).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) DeploymentBySubdomain(ctx context.Context, subdomain string) (*models.AgentDeployment, error) {
	var d models.AgentDeployment
	if err := s.db.WithContext(ctx).First(&d, "subdomain = ?", subdomain).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) CreateDeployment(ctx context.Context, d *models.AgentDeployment) error {
	return s.db.WithContext(ctx).Create(d).Error
}

// UpdateDeployment applies column updates to one deployment row.
func (s *Store) UpdateDeployment(ctx context.Context, id string, fields map[string]any) error {
	return affected(s.db.WithContext(ctx).
		Model(&models.AgentDeployment{}).
		Where("id = ?", id).
		Updates(fields))
}

// DueDeployments returns pending deployments whose activation time has passed.
func (s *Store) DueDeployments(ctx context.Context, now time.Time) ([]models.AgentDeployment, error) {
	var deployments []models.AgentDeployment
	err := s.db.WithContext(ctx).
		Where("status = ? AND activate_at IS NOT NULL AND activate_at <= ?", models.DeploymentPending, now.UTC()).
		Find(&deployments).Error
	return deployments, err
}

// ActivateDeployment flips a pending deployment to active and labels it with
// containerID unless it already has one. ErrNotFound means the row is gone or
// no longer pending.
func (s *Store) ActivateDeployment(ctx context.Context, id, containerID string) error {
	return affected(s.db.WithContext(ctx).
		Model(&models.AgentDeployment{}).
		Where("id = ? AND status = ?", id, models.DeploymentPending).
		Updates(map[string]any{
			"status":       models.DeploymentActive,
			"activate_at":  nil,
			"container_id": gorm.Expr("COALESCE(container_id, ?)", containerID),
		}))
}
