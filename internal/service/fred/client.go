// Package fred fetches reference level series from the FRED graph CSV
// endpoint. The dashboard uses the federal funds target upper bound as the
// reference for deriving rate-change annotations.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	icache "SteelPulse/internal/service/cache"
	"SteelPulse/internal/service/ratelimit"
	xhttp "SteelPulse/pkg/http"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/util"
)

const defaultGraphURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"

// Client fetches a single FRED series as daily observations.
type Client struct {
	http     *xhttp.Client
	graphURL string
	seriesID string
	ttl      time.Duration
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

// New creates a FRED series client for the given series id.
func New(graphURL, seriesID string, timeout, ttl time.Duration, c icache.BytesCache, m domrepo.Metrics) *Client {
	if graphURL == "" {
		graphURL = defaultGraphURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		graphURL: graphURL,
		seriesID: seriesID,
		ttl:      ttl,
		cache:    c,
		rl:       ratelimit.New(),
		metrics:  m,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// FetchReference returns the reference series at or after since, ascending.
// Implements repository.ReferenceSource.
func (c *Client) FetchReference(ctx context.Context, since time.Time) ([]models.TimePoint, error) {
	key := fmt.Sprintf("fred:%s:%s", c.seriesID, util.FormatDate(since))
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(key); err == nil && ok {
			var pts []models.TimePoint
			if err := json.Unmarshal(b, &pts); err == nil {
				if c.metrics != nil {
					c.metrics.RecordCacheResult("fred", true)
				}
				return pts, nil
			}
		}
		if c.metrics != nil {
			c.metrics.RecordCacheResult("fred", false)
		}
	}

	if !c.rl.Allow("fred", 2, 1) {
		return nil, fmt.Errorf("fred fetch %s: upstream rate limit", c.seriesID)
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.graphURL,
		QueryParams: map[string][]string{
			"id":   {c.seriesID},
			"cosd": {util.FormatDate(since)},
		},
		Headers: map[string]string{"User-Agent": "steelpulse/1.0"},
	}, &body)
	if c.metrics != nil {
		c.metrics.RecordFetch("fred", err == nil)
	}
	if err != nil {
		return nil, xhttp.UpstreamError("fred", fmt.Errorf("fetch %s: %w", c.seriesID, err))
	}

	pts, err := ParseCSV(body, since)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError("fred_parse")
		}
		return nil, fmt.Errorf("fred fetch %s: %w", c.seriesID, err)
	}

	if c.metrics != nil {
		c.metrics.RecordSeriesPoints("fred", len(pts))
	}
	if c.l != nil {
		c.l.Debug("fred fetch ok",
			applogger.String("series", c.seriesID),
			applogger.Int("points", len(pts)),
		)
	}

	if c.cache != nil {
		if b, err := json.Marshal(pts); err == nil {
			_ = c.cache.SetBytes(key, b, c.ttl)
		}
	}
	return pts, nil
}
