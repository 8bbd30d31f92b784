package store

import (
	"context"

	models "github.com/productivity-engines/website/dbmodels"
)

func (s *Store) CreateAgent(ctx context.Context, a *models.AgentConfig) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) ListAgents(ctx context.Context) ([]models.AgentConfig, error) {
	var agents []models.AgentConfig
	err := s.db.WithContext(ctx).Order("name").Find(&agents).Error
	return agents, err
}

func (s *Store) AgentByID(ctx context.Context, id string) (*models.AgentConfig, error) {
	var a models.AgentConfig
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) AgentByType(ctx context.Context, agentType string) (*models.AgentConfig, error) {
	var a models.AgentConfig
	if err := s.db.WithContext(ctx).First(&a, "type = ?", agentType).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// AgentsVisibleTo returns public agents, agents created by the user and
// agents actively assigned to the user or to one of the user's companies.
func (s *Store) AgentsVisibleTo(ctx context.Context, userID string) ([]models.AgentConfig, error) {
	companies := s.db.Model(&models.CompanyMember{}).
		Select("company_id").
		Where("user_id = ?", userID)

	assigned := s.db.Model(&models.UserAgentAssignment{}).
		Select("agent_id").
		Where("status = ?", models.AssignmentActive).
		Where(s.db.Where("user_id = ?", userID).Or("company_id IN (?)", companies))

	var agents []models.AgentConfig
	err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Or("creator_id = ?", userID).
		Or("id IN (?)", assigned).
		Order("name").
		Find(&agents).Error
	return agents, err
}

func (s *Store) ListCategories(ctx context.Context) ([]models.AgentCategory, error) {
	var categories []models.AgentCategory
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *Store) CategoryByName(ctx context.Context, name string) (*models.AgentCategory, error) {
	var c models.AgentCategory
	if err := s.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.AgentCategory) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) CreateResult(ctx context.Context, r *models.AgentResult) error {
	return s.db.WithContext(ctx).Create(r).Error
}
