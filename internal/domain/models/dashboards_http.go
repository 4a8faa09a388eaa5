package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type MarketsRequest struct {
	Lookback   string `query:"lookback" json:"lookback" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
	Normalize  *bool  `query:"normalize" json:"normalize" default:"true"`
	ShowCorr   bool   `query:"corr" json:"corr"`
	CorrWindow int    `query:"corr_window" json:"corr_window" default:"60" validate:"gte=20,lte=120"`
}

type OverlayRequest struct {
	Ticker         string `query:"ticker" json:"ticker" default:"SLX" validate:"required"`
	Lookback       string `query:"lookback" json:"lookback" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
	Since          string `query:"since" json:"since"` // YYYY-MM-DD; defaults to lookback start
	IncludeDerived *bool  `query:"derived" json:"derived" default:"true"`
}

type WindowRequest struct {
	Ticker     string `query:"ticker" json:"ticker" default:"SLX" validate:"required"`
	Lookback   string `query:"lookback" json:"lookback" default:"5y" validate:"oneof=6mo 1y 2y 5y"`
	Center     string `query:"center" json:"center" validate:"required"` // YYYY-MM-DD
	RadiusDays int    `query:"radius_days" json:"radius_days" default:"30" validate:"gte=0,lte=365"`
}

type UpsertEventRequest struct {
	Date      string `json:"date" validate:"required"`
	Label     string `json:"label" validate:"required,min=1,max=200"`
	Category  string `json:"category" default:"Other" validate:"oneof=Policy Geopolitics Macro MonetaryPolicy Other"`
	Rationale string `json:"rationale" validate:"max=2000"`
}

type DeleteEventRequest struct {
	Date  string `query:"date" json:"date" validate:"required"`
	Label string `query:"label" json:"label" validate:"required"`
}

type ListEventsRequest struct {
	From string `query:"from" json:"from"`
	To   string `query:"to" json:"to"`
}
