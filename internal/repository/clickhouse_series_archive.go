package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	pkgch "SteelPulse/pkg/clickhouse"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/util"
)

const seriesTable = "steel_series"

// CHSeriesArchive stores fetched series snapshots in ClickHouse so refreshes
// leave an auditable history of what each upstream reported.
type CHSeriesArchive struct {
	db *sql.DB
	l  *applogger.Logger
}

// NewCHSeriesArchive creates the archive.
func NewCHSeriesArchive(ch *pkgch.Client) *CHSeriesArchive {
	return &CHSeriesArchive{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (a *CHSeriesArchive) SetLogger(l *applogger.Logger) { a.l = l }

// Init creates the archive table.
func (a *CHSeriesArchive) Init(ctx context.Context) error {
	const q = `
        CREATE TABLE IF NOT EXISTS ` + seriesTable + ` (
            source      LowCardinality(String),
            date        Date,
            value       Float64,
            ingested_at DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(ingested_at)
        ORDER BY (source, date)
    `
	if _, err := a.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init series table: %w", err)
	}
	return nil
}

func (a *CHSeriesArchive) StoreBatch(ctx context.Context, source string, pts []models.TimePoint) error {
	if len(pts) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(pts); start += chunkSize {
		end := start + chunkSize
		if end > len(pts) {
			end = len(pts)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*3)
		for _, p := range pts[start:end] {
			values = append(values, "(?, ?, ?)")
			args = append(args, source, p.Date, p.Value)
		}
		q := fmt.Sprintf("INSERT INTO %s (source, date, value) VALUES %s",
			seriesTable, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			if a.l != nil {
				a.l.Error("clickhouse series store error",
					applogger.String("source", source),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store series batch: %w", err)
		}
	}
	if a.l != nil {
		a.l.Debug("clickhouse series store ok",
			applogger.String("source", source),
			applogger.Int("rows", len(pts)),
		)
	}
	return nil
}

func (a *CHSeriesArchive) Query(ctx context.Context, source string, from, to time.Time, limit int) ([]models.TimePoint, error) {
	q := fmt.Sprintf(`
        SELECT date, value
        FROM %s FINAL
        WHERE source = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
        LIMIT ?
    `, seriesTable)
	rows, err := a.db.QueryContext(ctx, q, source, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	out := make([]models.TimePoint, 0, 256)
	for rows.Next() {
		var p models.TimePoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		p.Date = util.DateOnly(p.Date)
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ domrepo.SeriesArchive = (*CHSeriesArchive)(nil)
