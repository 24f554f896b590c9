package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishActivity streams one activity event keyed by its entity so events for
// the same record stay ordered.
func (p *Producer) PublishActivity(ctx context.Context, event models.ActivityEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.Logger.LogKafka("PUBLISH", p.Topic, fmt.Sprintf("%s %s/%d", event.Type, event.Entity, event.EntityID))

	return p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(fmt.Sprintf("%s-%d", event.Entity, event.EntityID)),
			Value: msgBytes,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(event.Type)},
			},
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
