package models

import (
	"time"
)

type TokenUsage struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	AgentID          string    `gorm:"type:varchar(36);index;not null" json:"agent_id"`
	CompanyID        *string   `gorm:"type:varchar(36)" json:"company_id"`
	RequestID        string    `gorm:"type:varchar(100);not null" json:"request_id"`
	PromptTokens     int       `gorm:"not null" json:"prompt_tokens"`
	CompletionTokens int       `gorm:"not null" json:"completion_tokens"`
	TotalTokens      int       `gorm:"not null" json:"total_tokens"`
	Model            string    `gorm:"type:varchar(100);not null" json:"model"`
	Cost             float64   `gorm:"type:decimal(10,6);not null" json:"cost"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (TokenUsage) TableName() string {
	return "token_usage"
}
