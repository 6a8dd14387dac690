package changefeed

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type kafkaPublisher struct {
	w *kafka.Writer
}

func NewKafka(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NewNoop()
	}
	if topic == "" {
		topic = "agentdeck.changes"
	}
	// Writers are safe for concurrent use
	w := &kafka.Writer{Addr: kafka.TCP(brokers...), Topic: topic, RequiredAcks: kafka.RequireOne, Balancer: &kafka.Hash{}, BatchTimeout: 50 * time.Millisecond}
	return &kafkaPublisher{w: w}
}

func (p *kafkaPublisher) Close() error { return p.w.Close() }

func (p *kafkaPublisher) Publish(evt Event) error {
	b, _ := json.Marshal(evt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// keyed by table so events of one table stay ordered within a partition
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(evt.Table), Value: b})
}
