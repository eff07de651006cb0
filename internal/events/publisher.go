package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	"artstore/internal/repos"
)

// Publisher delivers one outbox event downstream.
type Publisher interface {
	Publish(ctx context.Context, evt repos.OutboxEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}}
}

// Publish keys messages by order id so one order's events stay on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, evt repos.OutboxEvent) error {
	return p.writer.WriteMessages(ctx, message(evt))
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

func message(evt repos.OutboxEvent) kafka.Message {
	return kafka.Message{
		Key:   []byte(evt.AggregateID),
		Value: evt.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "event_id", Value: []byte(evt.ID)},
		},
	}
}
