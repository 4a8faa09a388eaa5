package markets

import (
	"math"

	"SteelPulse/internal/domain/models"
)

// NormalizeTo100 rescales a series so its first observation reads 100.
// Series with no points or a zero first value are returned unchanged.
func NormalizeTo100(pts []models.TimePoint) []models.TimePoint {
	if len(pts) == 0 || pts[0].Value == 0 {
		return pts
	}
	base := pts[0].Value
	out := make([]models.TimePoint, len(pts))
	for i, p := range pts {
		out[i] = models.TimePoint{Date: p.Date, Value: p.Value / base * 100.0}
	}
	return out
}

// PctChange returns day-over-day fractional returns; the output has one
// fewer element than the input.
func PctChange(pts []models.TimePoint) []float64 {
	if len(pts) < 2 {
		return nil
	}
	out := make([]float64, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		prev := pts[i-1].Value
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, pts[i].Value/prev-1)
	}
	return out
}

// RollingCorrelation computes the rolling Pearson correlation of daily
// returns between two series over the given window, joined on shared dates.
// The result is dated at each window's last day. Windows shorter than the
// requested size are skipped, so the first window-1 returns produce nothing.
func RollingCorrelation(a, b models.Series, window int) *models.Series {
	if window < 2 {
		return nil
	}

	// inner join on date
	bByDate := make(map[int64]float64, len(b.Points))
	for _, p := range b.Points {
		bByDate[p.Date.Unix()] = p.Value
	}
	var ja, jb []models.TimePoint
	for _, p := range a.Points {
		if v, ok := bByDate[p.Date.Unix()]; ok {
			ja = append(ja, p)
			jb = append(jb, models.TimePoint{Date: p.Date, Value: v})
		}
	}

	ra := PctChange(ja)
	rb := PctChange(jb)
	if len(ra) < window {
		return nil
	}

	out := &models.Series{Name: a.Name + " vs " + b.Name}
	for i := window; i <= len(ra); i++ {
		c, ok := pearson(ra[i-window:i], rb[i-window:i])
		if !ok {
			continue
		}
		// returns are offset by one against the joined points
		out.Points = append(out.Points, models.TimePoint{Date: ja[i].Date, Value: c})
	}
	if len(out.Points) == 0 {
		return nil
	}
	return out
}

func pearson(x, y []float64) (float64, bool) {
	n := float64(len(x))
	if n == 0 {
		return 0, false
	}
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}
