package uploads

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/collection"
)

type memoryTickets struct {
	mu    sync.Mutex
	cache *collection.Cache
}

func NewMemory(ttl time.Duration) (Tickets, error) {
	c, err := collection.NewCache(ttl, collection.WithName("upload-tickets"))
	if err != nil {
		return nil, err
	}
	return &memoryTickets{cache: c}, nil
}

func (m *memoryTickets) Issue(context.Context) (string, error) {
	t := newTicket()
	m.cache.Set(t, struct{}{})
	return t, nil
}

func (m *memoryTickets) Check(_ context.Context, ticket string) error {
	if _, ok := m.cache.Get(ticket); !ok {
		return ErrInvalidTicket
	}
	return nil
}

func (m *memoryTickets) Close() error { return nil }

func (m *memoryTickets) Redeem(_ context.Context, ticket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cache.Get(ticket); !ok {
		return ErrInvalidTicket
	}
	m.cache.Del(ticket)
	return nil
}
