package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseDate(t *testing.T) {
    got, ok := ParseDate("2022-03-01")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected date %v", got)
    }
}

func TestParseDateFromTimestamp(t *testing.T) {
    got, ok := ParseDate("2022-03-01T15:04:05Z")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("expected truncation to midnight, got %v", got)
    }
}

func TestParseDateDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    got := ParseDateDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestDateOnly(t *testing.T) {
    in := time.Date(2024, 10, 10, 23, 59, 59, 0, time.UTC)
    got := DateOnly(in)
    if got.Hour() != 0 || got.Day() != 10 {
        t.Fatalf("unexpected %v", got)
    }
}
