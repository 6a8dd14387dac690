package changefeed

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

type redisPublisher struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

func NewRedis(url, stream string, maxLen int64) Publisher {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logx.Errorf("[changefeed] redis parse url: %v", err)
		return NewNoop()
	}
	if stream == "" {
		stream = "agentdeck:changes"
	}
	return &redisPublisher{cli: redis.NewClient(opt), stream: stream, maxLen: maxLen}
}

func (p *redisPublisher) Close() error { return p.cli.Close() }

func (p *redisPublisher) Publish(evt Event) error {
	// Store as single field 'data' with JSON body for schema flexibility
	b, _ := json.Marshal(evt)
	args := &redis.XAddArgs{Stream: p.stream, Values: map[string]any{"data": string(b)}}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.cli.XAdd(ctx, args).Err()
}
