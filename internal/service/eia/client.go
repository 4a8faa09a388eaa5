package eia

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
)

const defaultHistoryURL = "https://www.eia.gov/dnav/pet/hist/LeafHandler.ashx"

const cacheKey = "eia:crude-production"

// Client fetches the weekly U.S. crude oil field production history page
// and parses it into a series in million bbl/day.
type Client struct {
	http    *xhttp.Client
	url     string
	ttl     time.Duration
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
	metrics domrepo.Metrics
	l       *applogger.Logger
}

// New creates an EIA crude production client.
func New(url string, timeout, ttl time.Duration, c icache.BytesCache, m domrepo.Metrics) *Client {
	if url == "" {
		url = defaultHistoryURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		url:     url,
		ttl:     ttl,
		cache:   c,
		rl:      ratelimit.New(),
		metrics: m,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// FetchProduction returns the weekly production series in million bbl/day,
// ascending by week end date.
func (c *Client) FetchProduction(ctx context.Context) ([]models.TimePoint, error) {
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(cacheKey); err == nil && ok {
			var pts []models.TimePoint
			if err := json.Unmarshal(b, &pts); err == nil {
				if c.metrics != nil {
					c.metrics.RecordCacheResult("eia", true)
				}
				return pts, nil
			}
		}
		if c.metrics != nil {
			c.metrics.RecordCacheResult("eia", false)
		}
	}

	if !c.rl.Allow("eia", 2, 1) {
		return nil, fmt.Errorf("eia fetch: upstream rate limit")
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
		QueryParams: map[string][]string{
			"n": {"PET"},
			"s": {"WCRFPUS2"},
			"f": {"W"},
		},
		Headers: map[string]string{"User-Agent": "steelpulse/1.0"},
	}, &body)
	if c.metrics != nil {
		c.metrics.RecordFetch("eia", err == nil)
	}
	if err != nil {
		return nil, xhttp.UpstreamError("eia", err)
	}

	raw, err := ParseGrid(body)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError("eia_parse")
		}
		return nil, fmt.Errorf("eia fetch: %w", err)
	}
	pts := ToMillionBblPerDay(raw)

	if c.metrics != nil {
		c.metrics.RecordSeriesPoints("eia", len(pts))
	}
	if c.l != nil {
		c.l.Debug("eia fetch ok", applogger.Int("points", len(pts)))
	}

	if c.cache != nil {
		if b, err := json.Marshal(pts); err == nil {
			_ = c.cache.SetBytes(cacheKey, b, c.ttl)
		}
	}
	return pts, nil
}
