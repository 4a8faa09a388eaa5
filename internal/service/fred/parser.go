package fred

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"SteelPulse/internal/domain/models"
)

// ParseCSV decodes fredgraph CSV output (DATE,VALUE header then one row per
// observation). Missing observations are published as "." and are dropped.
// Rows before since are dropped; the result is sorted ascending.
func ParseCSV(data []byte, since time.Time) ([]models.TimePoint, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("fred: csv has no observations")
	}

	var pts []models.TimePoint
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		d, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}
		if row[1] == "." || row[1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		d = d.UTC()
		if d.Before(since) {
			continue
		}
		pts = append(pts, models.TimePoint{Date: d, Value: v})
	}

	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	return pts, nil
}
