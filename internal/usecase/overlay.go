package usecase

import (
	"context"
	"fmt"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	"SteelPulse/internal/service/annotate"
	xhttp "SteelPulse/pkg/http"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/util"
)

// OverlayBuilder composes the annotated primary-series view: the plotted
// ticker series, manual events from the store, and derived events recomputed
// from the reference series on every build. Derived events are never
// persisted; only manual ones are.
type OverlayBuilder struct {
	source  domrepo.SeriesSource
	events  domrepo.EventStore
	ref     domrepo.ReferenceSource
	metrics domrepo.Metrics
	l       *applogger.Logger

	defaultTicker string
}

// NewOverlayBuilder creates the usecase.
func NewOverlayBuilder(
	source domrepo.SeriesSource,
	events domrepo.EventStore,
	ref domrepo.ReferenceSource,
	metrics domrepo.Metrics,
	defaultTicker string,
) *OverlayBuilder {
	return &OverlayBuilder{
		source:        source,
		events:        events,
		ref:           ref,
		metrics:       metrics,
		defaultTicker: defaultTicker,
	}
}

// SetLogger injects a structured logger.
func (b *OverlayBuilder) SetLogger(l *applogger.Logger) { b.l = l }

// Build fetches the ticker series over the lookback and overlays it with
// manual and (optionally) derived events, filtered to the plotted range.
func (b *OverlayBuilder) Build(ctx context.Context, req *models.OverlayRequest) (*models.Overlay, error) {
	start := time.Now()

	ticker := req.Ticker
	if ticker == "" {
		ticker = b.defaultTicker
	}
	lb := domrepo.NormalizeLookback(req.Lookback)

	pts, err := b.source.Fetch(ctx, ticker, lb)
	if err != nil {
		if b.metrics != nil {
			b.metrics.RecordError("overlay_fetch")
		}
		return nil, fmt.Errorf("overlay: %w", err)
	}

	series := models.Series{Name: ticker, Points: pts}
	rangeStart, rangeEnd, ok := series.Range()
	if !ok {
		// nothing plotted: empty overlay, no events
		return &models.Overlay{Ticker: ticker, Lookback: string(lb), Series: series}, nil
	}

	manual, err := b.events.List(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("overlay list events: %w", err)
	}

	var derived []models.Event
	if req.IncludeDerived == nil || *req.IncludeDerived {
		since := rangeStart
		if req.Since != "" {
			s, ok := util.ParseDate(req.Since)
			if !ok {
				return nil, xhttp.BadRequestErrorf("bad since date: %q", req.Since)
			}
			since = s
		}
		derived, err = b.deriveEvents(ctx, since)
		if err != nil {
			// derived annotations are best effort; keep the manual overlay
			if b.l != nil {
				b.l.Warn("overlay derived events unavailable", applogger.Error(err))
			}
			if b.metrics != nil {
				b.metrics.RecordError("overlay_derive")
			}
			derived = nil
		}
	}

	overlay := &models.Overlay{
		Ticker:     ticker,
		Lookback:   string(lb),
		Series:     series,
		Events:     annotate.MergeAndFilter(manual, derived, rangeStart, rangeEnd),
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	}

	if b.metrics != nil {
		b.metrics.RecordOverlayEvents(len(overlay.Events))
		b.metrics.RecordLatency("overlay_build_seconds", time.Since(start).Seconds())
	}
	if b.l != nil {
		b.l.Debug("overlay built",
			applogger.String("ticker", ticker),
			applogger.Int("points", len(pts)),
			applogger.Int("events", len(overlay.Events)),
		)
	}
	return overlay, nil
}

// Window returns the sub-window of the ticker series centered on an event
// date, center ± radius days inclusive.
func (b *OverlayBuilder) Window(ctx context.Context, req *models.WindowRequest) (*models.WindowView, error) {
	ticker := req.Ticker
	if ticker == "" {
		ticker = b.defaultTicker
	}
	lb := domrepo.NormalizeLookback(req.Lookback)

	center, ok := util.ParseDate(req.Center)
	if !ok {
		return nil, xhttp.BadRequestErrorf("bad center date: %q", req.Center)
	}

	pts, err := b.source.Fetch(ctx, ticker, lb)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	win, err := annotate.Window(pts, center, req.RadiusDays)
	if err != nil {
		return nil, err
	}
	return &models.WindowView{
		Ticker:     ticker,
		Center:     center,
		RadiusDays: req.RadiusDays,
		Points:     win,
	}, nil
}

// deriveEvents recomputes change events from the reference series.
func (b *OverlayBuilder) deriveEvents(ctx context.Context, since time.Time) ([]models.Event, error) {
	if b.ref == nil {
		return nil, nil
	}
	ref, err := b.ref.FetchReference(ctx, since)
	if err != nil {
		return nil, err
	}
	return annotate.DetectChanges(ref, since)
}

// ListEvents returns manual events in [from, to].
func (b *OverlayBuilder) ListEvents(ctx context.Context, req *models.ListEventsRequest) ([]models.Event, error) {
	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	if req.From != "" {
		f, ok := util.ParseDate(req.From)
		if !ok {
			return nil, xhttp.BadRequestErrorf("bad from date: %q", req.From)
		}
		from = f
	}
	if req.To != "" {
		t, ok := util.ParseDate(req.To)
		if !ok {
			return nil, xhttp.BadRequestErrorf("bad to date: %q", req.To)
		}
		to = t
	}
	return b.events.List(ctx, from, to)
}

// UpsertEvent stores a manual event. The (date, label) pair is the identity;
// upserting an existing pair replaces it.
func (b *OverlayBuilder) UpsertEvent(ctx context.Context, req *models.UpsertEventRequest) (*models.Event, error) {
	date, ok := util.ParseDate(req.Date)
	if !ok {
		return nil, xhttp.BadRequestErrorf("bad event date: %q", req.Date)
	}
	e := &models.Event{
		Date:      util.DateOnly(date),
		Label:     req.Label,
		Category:  models.Category(req.Category),
		Rationale: req.Rationale,
		Source:    models.SourceManual,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := b.events.Upsert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEvent removes a manual event by identity.
func (b *OverlayBuilder) DeleteEvent(ctx context.Context, req *models.DeleteEventRequest) error {
	date, ok := util.ParseDate(req.Date)
	if !ok {
		return xhttp.BadRequestErrorf("bad event date: %q", req.Date)
	}
	return b.events.Delete(ctx, util.DateOnly(date), req.Label)
}
