package store

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	models "github.com/productivity-engines/website/dbmodels"
)

// UpsertUser mirrors an authenticated account, refreshing its email.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
	}).Create(u).Error
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("email").Find(&users).Error
	return users, err
}

// HasRole reports whether the user holds the given role.
func (s *Store) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

// CountRoles returns how many role rows exist for the user.
func (s *Store) CountRoles(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *Store) AddRole(ctx context.Context, userID, role string) error {
	return s.db.WithContext(ctx).Create(&models.UserRole{UserID: userID, Role: role}).Error
}
