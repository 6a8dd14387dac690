package changefeed

import "time"

// Tables that emit change events.
const (
	TableGames  = "games"
	TableAgents = "agents"
)

// Event announces that a record changed so readers can re-fetch it.
type Event struct {
	Table string    `json:"table"`
	ID    string    `json:"id"`
	Op    string    `json:"op"`
	At    time.Time `json:"at"`
}

// Publisher defines a minimal interface to publish change events.
// Implementations can be backed by Kafka, Redis Streams, or a no-op for dev.
type Publisher interface {
	Publish(evt Event) error
	Close() error
}
