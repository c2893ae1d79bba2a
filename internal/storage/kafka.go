package storage

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"verified-reviews/internal/domain"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishReview(ctx context.Context, evt domain.ReviewEvent) error {
	payload, _ := json.Marshal(evt)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.RestaurantID),
		Value: payload,
	})
}
