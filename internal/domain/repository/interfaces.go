package repository

import (
	"context"
	"time"

	"SteelPulse/internal/domain/models"
)

// SeriesSource fetches a close-price time series for a symbol over a lookback.
// Implementations resolve their own caching and rate limiting; callers always
// receive an ascending, already-resolved series.
type SeriesSource interface {
	Fetch(ctx context.Context, symbol string, lb Lookback) ([]models.TimePoint, error)
}

// ReferenceSource fetches the reference level series used for change
// detection (e.g. a policy-rate series).
type ReferenceSource interface {
	FetchReference(ctx context.Context, since time.Time) ([]models.TimePoint, error)
}

// EventStore persists manual events. Derived events are never stored.
type EventStore interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, e *models.Event) error
	List(ctx context.Context, from, to time.Time) ([]models.Event, error)
	Delete(ctx context.Context, date time.Time, label string) error
	Health(ctx context.Context) error
	Close() error
}

// SeriesArchive stores fetched series snapshots for history and audit.
type SeriesArchive interface {
	StoreBatch(ctx context.Context, source string, pts []models.TimePoint) error
	Query(ctx context.Context, source string, from, to time.Time, limit int) ([]models.TimePoint, error)
}

// Publisher emits derived change events to downstream consumers.
type Publisher interface {
	PublishEvents(ctx context.Context, events []models.Event) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordFetch(source string, ok bool)
	RecordSeriesPoints(source string, n int)
	RecordCacheResult(source string, hit bool)
	RecordOverlayEvents(n int)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
