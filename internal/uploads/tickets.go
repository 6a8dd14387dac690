package uploads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTicket is returned when a ticket is unknown, expired or already used.
var ErrInvalidTicket = errors.New("invalid or expired upload ticket")

// Tickets issues one-time upload tickets.
type Tickets interface {
	Issue(ctx context.Context) (string, error)
	// Check reports ErrInvalidTicket for an unknown ticket without consuming it.
	Check(ctx context.Context, ticket string) error
	// Redeem consumes the ticket; a second call with the same ticket fails.
	Redeem(ctx context.Context, ticket string) error
	Close() error
}

type Config struct {
	Store    string        `json:",default=memory,options=memory|redis"`
	RedisURL string        `json:",optional"`
	TTL      time.Duration `json:",default=1h"`
}

// New builds the ticket store selected by c.Store.
func New(c Config) (Tickets, error) {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	switch strings.ToLower(c.Store) {
	case "redis":
		return NewRedis(c.RedisURL, ttl)
	default:
		return NewMemory(ttl)
	}
}

func newTicket() string { return uuid.NewString() }
