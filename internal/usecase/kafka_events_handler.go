package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	pkgkafka "SteelPulse/pkg/kafka"
	"SteelPulse/pkg/util"
)

// KafkaEventsHandler consumes manual event upserts from the ingest topic.
// Other systems (curation tooling, batch backfills) publish events there
// instead of going through the HTTP API.
type KafkaEventsHandler struct {
	topic   string
	store   domrepo.EventStore
	metrics domrepo.Metrics
}

func NewKafkaEventsHandler(topic string, store domrepo.EventStore, metrics domrepo.Metrics) *KafkaEventsHandler {
	return &KafkaEventsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

// incoming message schema: {date, label, category, rationale, op}
// op defaults to "upsert"; "delete" removes the event instead.
func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Date      string `json:"date"`
		Label     string `json:"label"`
		Category  string `json:"category"`
		Rationale string `json:"rationale"`
		Op        string `json:"op"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	date, ok := util.ParseDate(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("event ingest: bad date: %q", m.Date)
	}
	date = util.DateOnly(date)

	start := time.Now()
	var err error
	if m.Op == "delete" {
		err = h.store.Delete(ctx, date, m.Label)
	} else {
		err = h.store.Upsert(ctx, &models.Event{
			Date:      date,
			Label:     m.Label,
			Category:  models.Category(m.Category),
			Rationale: m.Rationale,
			Source:    models.SourceManual,
		})
	}
	h.metrics.RecordLatency("event_ingest_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)
