package repository

import (
	"context"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	pkgkafka "SteelPulse/pkg/kafka"
	"SteelPulse/pkg/util"
)

// KafkaPublisher emits derived change events to a Kafka topic so downstream
// consumers (alerting, warehousing) see the same annotations the dashboard
// renders.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates the publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{
			Key: []byte(e.Key()),
			Value: map[string]interface{}{
				"date":      util.FormatDate(e.Date),
				"label":     e.Label,
				"category":  string(e.Category),
				"rationale": e.Rationale,
				"source":    string(e.Source),
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
