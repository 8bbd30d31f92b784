package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *UserRole) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}

func (m *CompanyMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return
}

func (a *UserAgentAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}

func (u *TokenUsage) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return
}

func (d *AgentDeployment) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return
}

// All lists every table owned by the application, in migration order.
func All() []any {
	return []any{
		&User{},
		&UserRole{},
		&AgentCategory{},
		&AgentConfig{},
		&AgentResult{},
		&Company{},
		&CompanyMember{},
		&UserAgentAssignment{},
		&TokenUsage{},
		&AgentDeployment{},
	}
}
