// Package eia fetches and parses the EIA weekly U.S. crude oil field
// production series from the DNAV history page. EIA publishes the grid as an
// HTML table of "Year-Month" rows with repeating End Date / Value column
// pairs; the parser reshapes it into a flat ascending time series.
package eia

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"SteelPulse/internal/domain/models"
)

// ParseGrid extracts (date, thousand bbl/day) observations from the DNAV
// history page HTML. Duplicate dates keep the first occurrence; the result
// is sorted ascending. An empty grid is an error: the page layout changed.
func ParseGrid(page []byte) ([]models.TimePoint, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findDataTable(doc)
	if table == nil {
		return nil, fmt.Errorf("eia: no End Date grid found in page")
	}

	seen := make(map[int64]bool)
	var pts []models.TimePoint
	for _, row := range tableRows(table) {
		// first cell is the Year-Month label; the rest alternate date/value
		for i := 1; i+1 < len(row); i += 2 {
			d, ok := parseEndDate(row[i])
			if !ok {
				continue
			}
			v, ok := parseValue(row[i+1])
			if !ok {
				continue
			}
			if seen[d.Unix()] {
				continue
			}
			seen[d.Unix()] = true
			pts = append(pts, models.TimePoint{Date: d, Value: v})
		}
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("eia: grid parsed but produced no observations")
	}

	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	return pts, nil
}

// ToMillionBblPerDay converts a thousand-bbl/day series to million bbl/day.
func ToMillionBblPerDay(pts []models.TimePoint) []models.TimePoint {
	out := make([]models.TimePoint, len(pts))
	for i, p := range pts {
		out[i] = models.TimePoint{Date: p.Date, Value: p.Value / 1000.0}
	}
	return out
}

// findDataTable returns the first table whose header cells mention "End Date".
func findDataTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, row := range tableRows(n) {
			for _, cell := range row {
				if strings.Contains(cell, "End Date") {
					return n
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findDataTable(c); t != nil {
			return t
		}
	}
	return nil
}

// tableRows flattens a table node into rows of trimmed cell text.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, strings.TrimSpace(nodeText(c)))
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func parseEndDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"01/02/2006", "1/2/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseValue(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "NA" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
