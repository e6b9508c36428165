package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"messaging_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter subset of *kafka.Writer used for publishing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publish events keyed by chat id, keeping per-chat order on one partition
type KafkaPublisher struct {
	writer KafkaWriter
}

// NewKafkaPublisher create KafkaPublisher
func NewKafkaPublisher(w KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish write one kafka message per event
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ChatID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	})
}
