package annotate

import (
	"time"

	"SteelPulse/internal/domain/models"
)

// Window returns every point with timestamp inside
// [center - radiusDays, center + radiusDays] inclusive. An empty window is a
// valid result; callers must short-circuit rendering on it rather than treat
// it as a failure. A negative radius fails fast.
func Window(series []models.TimePoint, center time.Time, radiusDays int) ([]models.TimePoint, error) {
	if radiusDays < 0 {
		return nil, ErrNegativeRadius
	}

	lo := center.AddDate(0, 0, -radiusDays)
	hi := center.AddDate(0, 0, radiusDays)

	out := make([]models.TimePoint, 0, 16)
	for _, p := range series {
		if inRange(p.Date, lo, hi) {
			out = append(out, p)
		}
	}
	return out, nil
}
