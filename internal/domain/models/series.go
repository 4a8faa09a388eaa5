package models

import "time"

// TimePoint is one observation of a time series: a timestamp and a value.
// Series are ordered ascending by timestamp with unique timestamps.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a named ordered sequence of observations.
type Series struct {
	Name   string      `json:"name"`
	Points []TimePoint `json:"points"`
}

// Range returns the first and last timestamps, and false if the series is empty.
func (s *Series) Range() (time.Time, time.Time, bool) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Points[0].Date, s.Points[len(s.Points)-1].Date, true
}

// IsSorted reports whether points are in strictly non-decreasing time order.
func IsSorted(pts []TimePoint) bool {
	for i := 1; i < len(pts); i++ {
		if pts[i].Date.Before(pts[i-1].Date) {
			return false
		}
	}
	return true
}
