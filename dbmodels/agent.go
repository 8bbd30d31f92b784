package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AgentConfig is a catalog entry for an automation agent offered to users.
// Type doubles as the URL slug of the agent page (/dashboard/<type>).
type AgentConfig struct {
	ID          string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Type        string                      `gorm:"type:varchar(100);uniqueIndex;not null" json:"type"`
	Config      datatypes.JSONMap           `gorm:"not null" json:"config"`
	UIConfig    datatypes.JSONMap           `gorm:"column:ui_config;not null" json:"ui_config"`
	Categories  datatypes.JSONSlice[string] `json:"categories"`
	IsPublic    bool                        `gorm:"not null" json:"is_public"`
	CreatorID   *string                     `gorm:"type:varchar(36);index" json:"creator_id"`
	Icon        *string                     `gorm:"type:varchar(512)" json:"icon"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (a *AgentConfig) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Config == nil {
		a.Config = datatypes.JSONMap{}
	}
	if a.UIConfig == nil {
		a.UIConfig = datatypes.JSONMap{}
	}
	return
}

// HasCategory reports whether the agent is tagged with one of the given categories.
func (a *AgentConfig) HasCategory(categories ...string) bool {
	for _, have := range a.Categories {
		for _, want := range categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

type AgentCategory struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *AgentCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}

// AgentResult records one run of an agent on behalf of a user.
type AgentResult struct {
	ID            string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string            `gorm:"type:varchar(36);index;not null" json:"user_id"`
	AgentID       string            `gorm:"type:varchar(36);index;not null" json:"agent_id"`
	Input         datatypes.JSONMap `json:"input"`
	Output        datatypes.JSONMap `json:"output"`
	Status        string            `gorm:"type:varchar(50);not null" json:"status"`
	ExecutionTime *int64            `json:"execution_time"` // milliseconds
	CreatedAt     time.Time         `json:"created_at"`
}

func (r *AgentResult) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return
}
