package usecase

import (
	"context"
	"fmt"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
	"SteelPulse/internal/service/markets"
)

// ProxyFetcher fetches all configured proxy series at once.
type ProxyFetcher interface {
	FetchAll(ctx context.Context, proxies map[string]string, lb domrepo.Lookback) ([]models.Series, error)
}

// MarketsViewer builds the steel-market proxies snapshot: every configured
// proxy series over a lookback, normalized to 100 at the first observation
// so different price levels plot on one axis, plus an optional rolling
// correlation between the first two proxies.
type MarketsViewer struct {
	fetcher ProxyFetcher
	proxies map[string]string
}

// NewMarketsViewer creates the usecase.
func NewMarketsViewer(fetcher ProxyFetcher, proxies map[string]string) *MarketsViewer {
	return &MarketsViewer{fetcher: fetcher, proxies: proxies}
}

// Snapshot fetches and shapes the proxy view.
func (v *MarketsViewer) Snapshot(ctx context.Context, req *models.MarketsRequest) (*models.MarketSnapshot, error) {
	lb := domrepo.NormalizeLookback(req.Lookback)

	series, err := v.fetcher.FetchAll(ctx, v.proxies, lb)
	if err != nil {
		return nil, fmt.Errorf("markets snapshot: %w", err)
	}

	snap := &models.MarketSnapshot{
		Lookback:   string(lb),
		Normalized: req.Normalize == nil || *req.Normalize,
		Series:     series,
	}

	if snap.Normalized {
		for i := range snap.Series {
			snap.Series[i].Points = markets.NormalizeTo100(snap.Series[i].Points)
		}
	}

	if req.ShowCorr && len(series) >= 2 {
		a, b := series[0], series[1]
		if corr := markets.RollingCorrelation(a, b, req.CorrWindow); corr != nil {
			corr.Name = fmt.Sprintf("corr(%s, %s, %dd)", a.Name, b.Name, req.CorrWindow)
			snap.Correlation = corr
		}
	}
	return snap, nil
}
