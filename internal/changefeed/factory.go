package changefeed

import (
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

type Config struct {
	Type     string   `json:",default=noop,options=noop|redis|kafka"`
	RedisURL string   `json:",optional"`
	Stream   string   `json:",optional"`
	MaxLen   int64    `json:",default=100000"`
	Brokers  []string `json:",optional"`
	Topic    string   `json:",optional"`
}

// New builds a Publisher based on c.Type: redis|kafka|noop (default).
func New(c Config) Publisher {
	switch strings.ToLower(c.Type) {
	case "redis":
		url := c.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		logx.Infof("[changefeed] redis stream enabled: stream=%s", c.Stream)
		return NewRedis(url, c.Stream, c.MaxLen)
	case "kafka":
		logx.Infof("[changefeed] kafka publisher enabled: brokers=%s topic=%s", strings.Join(c.Brokers, ","), c.Topic)
		return NewKafka(c.Brokers, c.Topic)
	case "", "noop":
		return NewNoop()
	default:
		logx.Errorf("[changefeed] unsupported type %q; using noop", c.Type)
		return NewNoop()
	}
}
