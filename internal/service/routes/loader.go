// Package routes loads the steelmaking route-mix dataset (BF-BOF vs DRI-EAF
// capacity per country) from a CSV export. The export is messy: it may be
// Windows-1252 encoded, lines can carry a trailing semicolon, numbers use
// thousands separators and unknown capacities are spelled out as "unknown".
package routes

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"SteelPulse/internal/domain/models"
	pkgcache "SteelPulse/pkg/cache"
)

const cacheKey = "routes:mix"

// Loader reads and cleans the routes CSV. The parsed result can be cached:
// the file only changes on redeploy, so a long TTL is fine.
type Loader struct {
	path  string
	cache pkgcache.Service
	ttl   time.Duration
}

// NewLoader creates a loader for the CSV at path.
func NewLoader(path string) *Loader { return &Loader{path: path, ttl: time.Hour} }

// SetCache enables caching of the parsed route mix.
func (l *Loader) SetCache(c pkgcache.Service) { l.cache = c }

// Load reads the CSV, cleans it and returns the route mix in Mtpa.
// The aggregate "Global" row is dropped; totals are recomputed from the
// country rows so they stay consistent with what is shown.
func (l *Loader) Load(ctx context.Context) (*models.RouteMix, error) {
	if l.cache != nil {
		var mix models.RouteMix
		if err := l.cache.Get(ctx, cacheKey, &mix); err == nil && len(mix.Rows) > 0 {
			return &mix, nil
		}
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read routes csv: %w", err)
	}
	mix, err := Clean(raw)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		_ = l.cache.Set(ctx, cacheKey, mix, l.ttl)
	}
	return mix, nil
}

// Clean parses raw CSV bytes into a RouteMix.
func Clean(raw []byte) (*models.RouteMix, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	rows, err := parseRows(text)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("routes csv: no data rows")
	}

	countryCol, bfCol, driCol, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	mix := &models.RouteMix{Unit: "Mtpa"}
	for _, row := range rows[1:] {
		if countryCol >= len(row) {
			continue
		}
		country := strings.TrimSpace(row[countryCol])
		if country == "" || strings.EqualFold(country, "Global") {
			continue
		}

		rp := models.RouteProduction{Country: country}
		if bfCol < len(row) {
			rp.BFBOF = parseCapacity(row[bfCol])
		}
		if driCol < len(row) {
			rp.DRIEAF = parseCapacity(row[driCol])
		}
		if rp.BFBOF != nil {
			mix.TotalBFBOF += *rp.BFBOF
		}
		if rp.DRIEAF != nil {
			mix.TotalDRIEAF += *rp.DRIEAF
		}
		mix.Rows = append(mix.Rows, rp)
	}
	if len(mix.Rows) == 0 {
		return nil, fmt.Errorf("routes csv: all rows filtered out")
	}

	sort.Slice(mix.Rows, func(i, j int) bool {
		return mix.Rows[i].Country < mix.Rows[j].Country
	})
	return mix, nil
}

// decode returns the file as UTF-8 text, falling back to Windows-1252 when
// the bytes are not valid UTF-8.
func decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode routes csv: %w", err)
	}
	return string(out), nil
}

// parseRows splits the text into CSV records, stripping trailing semicolons
// and detecting whether the export uses ';' or ',' as delimiter.
func parseRows(text string) ([][]string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimRight(strings.TrimSpace(line), ";")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("routes csv: empty file")
	}

	r := csv.NewReader(strings.NewReader(strings.Join(cleaned, "\n")))
	r.FieldsPerRecord = -1
	if strings.Count(cleaned[0], ";") > strings.Count(cleaned[0], ",") {
		r.Comma = ';'
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("routes csv: %w", err)
	}
	return rows, nil
}

func locateColumns(header []string) (country, bf, dri int, err error) {
	country, bf, dri = -1, -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(h, "country"):
			country = i
		case strings.Contains(h, "bf") || strings.Contains(h, "bof"):
			bf = i
		case strings.Contains(h, "dri") || strings.Contains(h, "eaf"):
			dri = i
		}
	}
	if country < 0 || bf < 0 || dri < 0 {
		return 0, 0, 0, fmt.Errorf("routes csv: header missing expected columns: %v", header)
	}
	return country, bf, dri, nil
}

// parseCapacity converts a raw ttpa cell to Mtpa. Returns nil for unknown
// or unparsable values.
func parseCapacity(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") || strings.EqualFold(s, "na") {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v /= 1000.0 // ttpa -> Mtpa
	return &v
}
