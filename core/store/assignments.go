package store

import (
	"context"

	models "github.com/productivity-engines/website/dbmodels"
)

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := s.db.WithContext(ctx).Order("name").Find(&companies).Error
	return companies, err
}

func (s *Store) CreateCompany(ctx context.Context, c *models.Company) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) AddCompanyMember(ctx context.Context, m *models.CompanyMember) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) ListAssignments(ctx context.Context) ([]models.UserAgentAssignment, error) {
	var assignments []models.UserAgentAssignment
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

// AssignmentExists checks for an assignment of the agent to the user or, when
// companyID is set, to the company.
func (s *Store) AssignmentExists(ctx context.Context, agentID string, userID, companyID *string) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.UserAgentAssignment{}).Where("agent_id = ?", agentID)
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
	} else if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateAssignment(ctx context.Context, a *models.UserAgentAssignment) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.UserAgentAssignment{}, "id = ?", id))
}
