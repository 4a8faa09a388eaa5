package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	pkgch "SteelPulse/pkg/clickhouse"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/util"
)

const eventsTable = "steel_events"

// CHEventStore implements EventStore backed by ClickHouse. The table is a
// ReplacingMergeTree keyed by (date, label): re-upserting the same event
// replaces the previous version on merge, and reads query FINAL so callers
// never see both versions.
type CHEventStore struct {
	db *sql.DB
	l  *applogger.Logger
}

// NewCHEventStore creates the store.
func NewCHEventStore(ch *pkgch.Client) *CHEventStore {
	return &CHEventStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHEventStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHEventStore) Init(ctx context.Context) error {
	const q = `
        CREATE TABLE IF NOT EXISTS ` + eventsTable + ` (
            date        Date,
            label       String,
            category    LowCardinality(String),
            rationale   String,
            source      LowCardinality(String),
            updated_at  DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(updated_at)
        ORDER BY (date, label)
    `
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init events table: %w", err)
	}
	return nil
}

func (s *CHEventStore) Upsert(ctx context.Context, e *models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	const q = `INSERT INTO ` + eventsTable + ` (date, label, category, rationale, source) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		e.Date,
		e.Label,
		string(e.Category),
		e.Rationale,
		string(e.Source),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse upsert event error",
				applogger.String("key", e.Key()),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (s *CHEventStore) List(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	start := time.Now()
	const q = `
        SELECT date, label, category, rationale, source
        FROM ` + eventsTable + ` FINAL
        WHERE date >= ? AND date <= ?
        ORDER BY date ASC, label ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list events query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]models.Event, 0, 32)
	for rows.Next() {
		var e models.Event
		var cat, src string
		if err := rows.Scan(&e.Date, &e.Label, &cat, &e.Rationale, &src); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Date = util.DateOnly(e.Date)
		e.Category = models.Category(cat)
		e.Source = models.EventSource(src)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse list events ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHEventStore) Delete(ctx context.Context, date time.Time, label string) error {
	const q = `ALTER TABLE ` + eventsTable + ` DELETE WHERE date = ? AND label = ?`
	if _, err := s.db.ExecContext(ctx, q, date, label); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *CHEventStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHEventStore) Close() error {
	return nil // connection owned by pkg client
}

var _ domrepo.EventStore = (*CHEventStore)(nil)
