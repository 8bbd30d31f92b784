package models

import (
	"time"
)

type Company struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     string    `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

type CompanyMember struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string    `gorm:"type:varchar(36);index;not null" json:"company_id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);default:member;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Company Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

const (
	AssignmentActive   = "active"
	AssignmentInactive = "inactive"
	AssignmentPending  = "pending"
)

// UserAgentAssignment grants an agent to either a user or a company.
type UserAgentAssignment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AgentID    string    `gorm:"type:varchar(36);index;not null" json:"agent_id"`
	UserID     *string   `gorm:"type:varchar(36);index" json:"user_id"`
	CompanyID  *string   `gorm:"type:varchar(36);index" json:"company_id"`
	AssignedBy string    `gorm:"type:varchar(36);not null" json:"assigned_by"`
	Status     string    `gorm:"type:varchar(20);default:active;not null" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Agent AgentConfig `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
