package annotate

import (
	"sort"
	"time"

	"SteelPulse/internal/domain/models"
)

// MergeAndFilter concatenates manual and derived events, keeps only those
// dated inside [start, end] inclusive, and sorts ascending by date. The sort
// is stable and manual events are appended first, so a manual event always
// precedes a derived event sharing the same date. Events are not deduplicated
// across sources; overlapping markers are the renderer's concern.
func MergeAndFilter(manual, derived []models.Event, start, end time.Time) []models.Event {
	merged := make([]models.Event, 0, len(manual)+len(derived))
	for _, e := range manual {
		if inRange(e.Date, start, end) {
			merged = append(merged, e)
		}
	}
	for _, e := range derived {
		if inRange(e.Date, start, end) {
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
