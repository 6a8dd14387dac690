package uploads

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "agentdeck:upload-ticket:"

type redisTickets struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedis(url string, ttl time.Duration) (Tickets, error) {
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &redisTickets{cli: redis.NewClient(opt), ttl: ttl}, nil
}

func (r *redisTickets) Issue(ctx context.Context) (string, error) {
	t := newTicket()
	if err := r.cli.Set(ctx, redisKeyPrefix+t, 1, r.ttl).Err(); err != nil {
		return "", err
	}
	return t, nil
}

func (r *redisTickets) Check(ctx context.Context, ticket string) error {
	n, err := r.cli.Exists(ctx, redisKeyPrefix+ticket).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTicket
	}
	return nil
}

func (r *redisTickets) Close() error { return r.cli.Close() }

func (r *redisTickets) Redeem(ctx context.Context, ticket string) error {
	n, err := r.cli.Del(ctx, redisKeyPrefix+ticket).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidTicket
		}
		return err
	}
	if n == 0 {
		return ErrInvalidTicket
	}
	return nil
}
