package store

import (
	"context"
	"time"

	models "github.com/productivity-engines/website/dbmodels"
)

func (s *Store) CreateUsage(ctx context.Context, u *models.TokenUsage) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// UsageSince returns usage rows created at or after since; a nil since returns every row.
func (s *Store) UsageSince(ctx context.Context, since *time.Time) ([]models.TokenUsage, error) {
	q := s.db.WithContext(ctx).Order("created_at")
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}

	var rows []models.TokenUsage
	err := q.Find(&rows).Error
	return rows, err
}
