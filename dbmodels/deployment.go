package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DeploymentPending = "pending"
	DeploymentActive  = "active"
	DeploymentFailed  = "failed"
	DeploymentStopped = "stopped"
)

// AgentDeployment tracks the hosted instance of an agent. ContainerID is a
// label generated on activation, not a reference to a real container.
type AgentDeployment struct {
	ID          string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	AgentID     string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"agent_id"`
	Subdomain   string            `gorm:"type:varchar(100);uniqueIndex;not null" json:"subdomain"`
	ContainerID *string           `gorm:"type:varchar(100)" json:"container_id"`
	Status      string            `gorm:"type:varchar(20);default:pending;not null" json:"status"`
	Version     string            `gorm:"type:varchar(50);not null" json:"version"`
	Config      datatypes.JSONMap `json:"config"`
	ActivateAt  *time.Time        `gorm:"index" json:"activate_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Agent AgentConfig `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
