package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or a targeted update/delete matches no row.
var ErrNotFound = errors.New("record not found")

// Store is the table-level data access layer shared by every screen.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
