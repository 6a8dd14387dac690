package ports

import (
	"context"
	"time"
)

// Agent is a locally created agent and its remote identifier.
type Agent struct {
	ID              uint
	Name            string
	AgentID         string
	Prompt          string
	Description     string
	AvatarStorageID string
	SpriteStorageID string
	Status          string
	Visibility      string
	Level           int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AgentsRepository defines persistence for the local agent roster.
// Lookups return (nil, nil) when nothing matches.
type AgentsRepository interface {
	Get(ctx context.Context, id uint) (*Agent, error)
	GetByName(ctx context.Context, name string) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
	// Save inserts when a.ID is zero and patches the existing row otherwise.
	Save(ctx context.Context, a *Agent) error
}
