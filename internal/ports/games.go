package ports

import (
	"context"
	"time"
)

// Game is the locally known mirror of the single remote game instance.
// It mirrors the DB model but avoids GORM tags.
type Game struct {
	GameID         string
	GameName       string
	AgentResources []AgentResource
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AgentResource holds the per-level agent defaults uploaded during bootstrap.
type AgentResource struct {
	Level                int         `json:"level"`
	AgentConfig          AgentConfig `json:"agentConfig"`
	AgentAvatarStorageID string      `json:"agentAvatarStorageId"`
	AgentSpriteStorageID string      `json:"agentSpriteStorageId"`
}

// AgentConfig is the profile template for one level. Storage ids are local refs.
type AgentConfig struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	AvatarStorageID string `json:"avatarStorageId"`
	SpriteStorageID string `json:"spriteStorageId"`
	Status          string `json:"status"`
	Visibility      string `json:"visibility"`
}

// ResourceForLevel returns the defaults for level, or nil.
func (g *Game) ResourceForLevel(level int) *AgentResource {
	if g == nil {
		return nil
	}
	for i := range g.AgentResources {
		if g.AgentResources[i].Level == level {
			return &g.AgentResources[i]
		}
	}
	return nil
}

// GamesRepository persists the singleton game record.
type GamesRepository interface {
	// Get returns (nil, nil) when no game has been bootstrapped yet.
	Get(ctx context.Context) (*Game, error)
	// Save upserts the singleton row.
	Save(ctx context.Context, g *Game) error
}
