package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	icache "SteelPulse/internal/service/cache"
	"SteelPulse/internal/service/ratelimit"
	xhttp "SteelPulse/pkg/http"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/util"
)

const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client fetches daily close series from the Yahoo Finance chart API.
// Responses are cached with a TTL so repeated dashboard renders within the
// cache window never re-hit the upstream.
type Client struct {
	http     *xhttp.Client
	chartURL string
	ttl      time.Duration
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

// New creates a market series client.
func New(chartURL string, timeout, ttl time.Duration, c icache.BytesCache, m domrepo.Metrics) *Client {
	if chartURL == "" {
		chartURL = defaultChartURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		chartURL: chartURL,
		ttl:      ttl,
		cache:    c,
		rl:       ratelimit.New(),
		metrics:  m,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// chart API response, trimmed to the fields we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the daily close series for symbol over the lookback,
// ascending by day, nulls dropped. Implements repository.SeriesSource.
func (c *Client) Fetch(ctx context.Context, symbol string, lb domrepo.Lookback) ([]models.TimePoint, error) {
	key := fmt.Sprintf("chart:%s:%s", symbol, lb)
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(key); err == nil && ok {
			var pts []models.TimePoint
			if err := json.Unmarshal(b, &pts); err == nil {
				if c.metrics != nil {
					c.metrics.RecordCacheResult("markets", true)
				}
				return pts, nil
			}
		}
		if c.metrics != nil {
			c.metrics.RecordCacheResult("markets", false)
		}
	}

	if !c.rl.Allow("yahoo", 4, 2) {
		return nil, fmt.Errorf("markets fetch %s: upstream rate limit", symbol)
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", c.chartURL, symbol),
		QueryParams: map[string][]string{
			"range":    {string(lb)},
			"interval": {"1d"},
			"events":   {"history"},
		},
		Headers: map[string]string{"User-Agent": "steelpulse/1.0"},
	}, &resp)
	if c.metrics != nil {
		c.metrics.RecordFetch("markets", err == nil)
	}
	if err != nil {
		return nil, xhttp.UpstreamError("markets", fmt.Errorf("fetch %s: %w", symbol, err))
	}
	if resp.Chart.Error != nil {
		return nil, xhttp.UpstreamError("markets", fmt.Errorf("fetch %s: %s: %s",
			symbol, resp.Chart.Error.Code, resp.Chart.Error.Description))
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("markets fetch %s: empty result", symbol)
	}

	pts := pointsFromChart(&resp)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	if c.metrics != nil {
		c.metrics.RecordSeriesPoints("markets", len(pts))
	}
	if c.l != nil {
		c.l.Debug("markets fetch ok",
			applogger.String("symbol", symbol),
			applogger.String("lookback", string(lb)),
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

func pointsFromChart(resp *chartResponse) []models.TimePoint {
	r := resp.Chart.Result[0]

	// Prefer adjusted closes when present (matches auto-adjusted downloads).
	var closes []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp) {
		closes = r.Indicators.AdjClose[0].AdjClose
	} else if len(r.Indicators.Quote) > 0 {
		closes = r.Indicators.Quote[0].Close
	}

	pts := make([]models.TimePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		pts = append(pts, models.TimePoint{
			Date:  util.DateOnly(time.Unix(ts, 0)),
			Value: *closes[i],
		})
	}
	return pts
}

// FetchAll fetches every configured proxy and returns named series, ordered
// by display name for deterministic output.
func (c *Client) FetchAll(ctx context.Context, proxies map[string]string, lb domrepo.Lookback) ([]models.Series, error) {
	names := make([]string, 0, len(proxies))
	for name := range proxies {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.Series, 0, len(names))
	for _, name := range names {
		pts, err := c.Fetch(ctx, proxies[name], lb)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Series{Name: name, Points: pts})
	}
	return out, nil
}
