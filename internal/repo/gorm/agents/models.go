package agents

import "gorm.io/gorm"

// Agent is the DB model for a locally created agent.
// Name is indexed but deliberately not unique: uniqueness is a pre-check in the service.
type Agent struct {
	gorm.Model
	Name            string `gorm:"size:128;index;not null"`
	AgentID         string `gorm:"size:128;not null"`
	Prompt          string `gorm:"type:text"`
	Description     string `gorm:"type:text"`
	AvatarStorageID string `gorm:"size:255"`
	SpriteStorageID string `gorm:"size:255"`
	Status          string `gorm:"size:32"`
	Visibility      string `gorm:"size:32"`
	Level           int    `gorm:"default:1"`
}

func (Agent) TableName() string { return "agents" }
