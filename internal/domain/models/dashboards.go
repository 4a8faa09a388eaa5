package models

import "time"

// RouteProduction is one country's primary steelmaking output by route,
// in Mtpa after unit conversion.
type RouteProduction struct {
	Country string   `json:"country"`
	BFBOF   *float64 `json:"bf_bof,omitempty"` // pig iron route; nil = unknown
	DRIEAF  *float64 `json:"dri_eaf,omitempty"`
}

// RouteMix is the cleaned routes dataset plus global totals.
type RouteMix struct {
	Rows        []RouteProduction `json:"rows"`
	TotalBFBOF  float64           `json:"total_bf_bof"`
	TotalDRIEAF float64           `json:"total_dri_eaf"`
	Unit        string            `json:"unit"` // "Mtpa"
}

// MarketSnapshot is a set of proxy close series over a lookback, optionally
// normalized to 100 at the first observation, with an optional rolling
// correlation series.
type MarketSnapshot struct {
	Lookback    string   `json:"lookback"`
	Normalized  bool     `json:"normalized"`
	Series      []Series `json:"series"`
	Correlation *Series  `json:"correlation,omitempty"`
}

// Overlay is the annotated primary-series view: the plotted series and the
// range-filtered, sorted overlay set of events.
type Overlay struct {
	Ticker     string      `json:"ticker"`
	Lookback   string      `json:"lookback"`
	Series     Series      `json:"series"`
	Events     []Event     `json:"events"`
	RangeStart time.Time   `json:"range_start"`
	RangeEnd   time.Time   `json:"range_end"`
}

// WindowView is the zoomed sub-window around a chosen event.
type WindowView struct {
	Ticker     string      `json:"ticker"`
	Center     time.Time   `json:"center"`
	RadiusDays int         `json:"radius_days"`
	Points     []TimePoint `json:"points"`
}
