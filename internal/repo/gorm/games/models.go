package games

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// singletonID is the fixed primary key of the only game row.
const singletonID uint = 1

// Game is the DB model for the bootstrapped remote game.
type Game struct {
	ID       uint   `gorm:"primaryKey;autoIncrement:false"`
	GameID   string `gorm:"size:128;not null"`
	GameName string `gorm:"size:255"`
	// AgentResources stores the per-level agent defaults (JSON array)
	AgentResources datatypes.JSON `gorm:"type:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Game) TableName() string { return "games" }

// Helpers to encode/decode Game.AgentResources
func (g *Game) GetAgentResources(v any) error {
	if len(g.AgentResources) == 0 {
		return nil
	}
	return json.Unmarshal(g.AgentResources, v)
}

func (g *Game) SetAgentResources(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	g.AgentResources = b
	return nil
}
