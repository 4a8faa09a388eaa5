package usecase

import (
	"context"
	"fmt"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	"SteelPulse/internal/service/annotate"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/queue"
)

// Refresh sources. Each maps to one upstream fetch.
const (
	RefreshSourceMarkets   = "markets"
	RefreshSourceOil       = "oil"
	RefreshSourceReference = "reference"
)

// RefreshPayload is the queue message for one refresh unit of work.
type RefreshPayload struct {
	Source string `json:"source"`
	Symbol string `json:"symbol,omitempty"`
}

// Enqueuer is the queue side the scheduler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// Broadcaster notifies connected dashboard clients after a refresh lands.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Refresher periodically enqueues refresh jobs so upstream data is pulled
// on a schedule instead of only on request. Actual fetching happens in
// RefreshJob workers pulled off the queue.
type Refresher struct {
	q        Enqueuer
	interval time.Duration
	symbols  []string
	l        *applogger.Logger
	cancel   context.CancelFunc
}

// NewRefresher creates the scheduler. symbols is the set of market tickers
// to refresh each cycle.
func NewRefresher(q Enqueuer, interval time.Duration, symbols []string) *Refresher {
	return &Refresher{q: q, interval: interval, symbols: symbols}
}

// SetLogger injects a structured logger.
func (r *Refresher) SetLogger(l *applogger.Logger) { r.l = l }

// Start launches the schedule loop. The first cycle fires immediately.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	go func() {
		r.enqueueCycle(ctx)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.enqueueCycle(ctx)
			}
		}
	}()
}

// Stop halts the schedule loop. In-flight jobs finish on the queue side.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Refresher) enqueueCycle(ctx context.Context) {
	for _, sym := range r.symbols {
		r.enqueue(ctx, RefreshPayload{Source: RefreshSourceMarkets, Symbol: sym})
	}
	r.enqueue(ctx, RefreshPayload{Source: RefreshSourceOil})
	r.enqueue(ctx, RefreshPayload{Source: RefreshSourceReference})
}

func (r *Refresher) enqueue(ctx context.Context, p RefreshPayload) {
	if err := r.q.Enqueue(ctx, "refresh", p); err != nil && r.l != nil {
		r.l.Warn("refresh enqueue failed",
			applogger.String("source", p.Source),
			applogger.Error(err),
		)
	}
}

// OilSource is the EIA fetch the refresh job needs.
type OilSource interface {
	FetchProduction(ctx context.Context) ([]models.TimePoint, error)
}

// RefreshJob executes one refresh unit: fetch the upstream, archive the
// snapshot, and for the reference series re-derive change events and publish
// them to Kafka. Implements queue.Job.
type RefreshJob struct {
	markets domrepo.SeriesSource
	oil     OilSource
	ref     domrepo.ReferenceSource
	archive domrepo.SeriesArchive
	pub     domrepo.Publisher
	bcast   Broadcaster
	metrics domrepo.Metrics
	l       *applogger.Logger

	lookback domrepo.Lookback
	refSince time.Time
}

// NewRefreshJob creates the job handler.
func NewRefreshJob(
	markets domrepo.SeriesSource,
	oil OilSource,
	ref domrepo.ReferenceSource,
	archive domrepo.SeriesArchive,
	pub domrepo.Publisher,
	bcast Broadcaster,
	metrics domrepo.Metrics,
	lookback domrepo.Lookback,
	refSince time.Time,
) *RefreshJob {
	return &RefreshJob{
		markets:  markets,
		oil:      oil,
		ref:      ref,
		archive:  archive,
		pub:      pub,
		bcast:    bcast,
		metrics:  metrics,
		lookback: domrepo.NormalizeLookback(string(lookback)),
		refSince: refSince,
	}
}

// SetLogger injects a structured logger.
func (j *RefreshJob) SetLogger(l *applogger.Logger) { j.l = l }

func (j *RefreshJob) Name() string { return "refresh" }
func (j *RefreshJob) Type() string { return "refresh" }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("refresh payload: %w", err)
	}

	start := time.Now()
	switch p.Source {
	case RefreshSourceMarkets:
		err = j.refreshMarkets(ctx, p.Symbol)
	case RefreshSourceOil:
		err = j.refreshOil(ctx)
	case RefreshSourceReference:
		err = j.refreshReference(ctx)
	default:
		return fmt.Errorf("unknown refresh source: %s", p.Source)
	}
	if j.metrics != nil {
		j.metrics.RecordLatency("refresh_seconds", time.Since(start).Seconds())
	}
	if err != nil {
		if j.metrics != nil {
			j.metrics.RecordError("refresh_" + p.Source)
		}
		return err
	}

	if j.bcast != nil {
		j.bcast.Broadcast(map[string]string{
			"type":   "refresh",
			"source": p.Source,
			"symbol": p.Symbol,
		})
	}
	return nil
}

func (j *RefreshJob) refreshMarkets(ctx context.Context, symbol string) error {
	pts, err := j.markets.Fetch(ctx, symbol, j.lookback)
	if err != nil {
		return fmt.Errorf("refresh markets %s: %w", symbol, err)
	}
	return j.archive.StoreBatch(ctx, "markets:"+symbol, pts)
}

func (j *RefreshJob) refreshOil(ctx context.Context) error {
	if j.oil == nil {
		return nil
	}
	pts, err := j.oil.FetchProduction(ctx)
	if err != nil {
		return fmt.Errorf("refresh oil: %w", err)
	}
	return j.archive.StoreBatch(ctx, "oil", pts)
}

func (j *RefreshJob) refreshReference(ctx context.Context) error {
	if j.ref == nil {
		return nil
	}
	pts, err := j.ref.FetchReference(ctx, j.refSince)
	if err != nil {
		return fmt.Errorf("refresh reference: %w", err)
	}
	if err := j.archive.StoreBatch(ctx, "reference", pts); err != nil {
		return err
	}

	events, err := annotate.DetectChanges(pts, j.refSince)
	if err != nil {
		return fmt.Errorf("detect reference changes: %w", err)
	}
	if j.l != nil {
		j.l.Info("reference refresh",
			applogger.Int("points", len(pts)),
			applogger.Int("derived_events", len(events)),
		)
	}
	if j.pub != nil && len(events) > 0 {
		if err := j.pub.PublishEvents(ctx, events); err != nil {
			return fmt.Errorf("publish derived events: %w", err)
		}
	}
	return nil
}

var _ queue.Job = (*RefreshJob)(nil)
