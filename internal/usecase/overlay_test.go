package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
)

type fakeSource struct {
	pts []models.TimePoint
	err error
}

func (f *fakeSource) Fetch(_ context.Context, _ string, _ domrepo.Lookback) ([]models.TimePoint, error) {
	return f.pts, f.err
}

type fakeEventStore struct {
	events   []models.Event
	upserted []models.Event
	deleted  []string
}

func (f *fakeEventStore) Init(context.Context) error { return nil }

func (f *fakeEventStore) Upsert(_ context.Context, e *models.Event) error {
	f.upserted = append(f.upserted, *e)
	return nil
}

func (f *fakeEventStore) List(_ context.Context, from, to time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Delete(_ context.Context, date time.Time, label string) error {
	f.deleted = append(f.deleted, date.Format("2006-01-02")+"|"+label)
	return nil
}

func (f *fakeEventStore) Health(context.Context) error { return nil }
func (f *fakeEventStore) Close() error                 { return nil }

type fakeReference struct {
	pts []models.TimePoint
	err error
}

func (f *fakeReference) FetchReference(_ context.Context, _ time.Time) ([]models.TimePoint, error) {
	return f.pts, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func boolp(b bool) *bool { return &b }

func TestOverlayBuildMergesManualAndDerived(t *testing.T) {
	source := &fakeSource{pts: []models.TimePoint{
		{Date: day(2022, 1, 3), Value: 40},
		{Date: day(2022, 6, 1), Value: 45},
		{Date: day(2022, 12, 30), Value: 50},
	}}
	store := &fakeEventStore{events: []models.Event{
		{Date: day(2022, 3, 1), Label: "export quota announced", Category: models.CategoryPolicy, Source: models.SourceManual},
		{Date: day(2021, 1, 1), Label: "too early", Category: models.CategoryPolicy, Source: models.SourceManual},
	}}
	ref := &fakeReference{pts: []models.TimePoint{
		{Date: day(2022, 2, 1), Value: 0.25},
		{Date: day(2022, 5, 1), Value: 0.5},
	}}

	b := NewOverlayBuilder(source, store, ref, nil, "SLX")
	got, err := b.Build(context.Background(), &models.OverlayRequest{Lookback: "1y"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got.Ticker != "SLX" {
		t.Errorf("ticker = %q, want default SLX", got.Ticker)
	}
	if !got.RangeStart.Equal(day(2022, 1, 3)) || !got.RangeEnd.Equal(day(2022, 12, 30)) {
		t.Errorf("range = %v..%v", got.RangeStart, got.RangeEnd)
	}

	// manual out-of-range dropped; one in-range manual + two derived
	if len(got.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(got.Events))
	}
	if got.Events[0].Label != "value set to 0.25" || got.Events[0].Source != models.SourceDerived {
		t.Errorf("events[0] = %+v", got.Events[0])
	}
	if got.Events[1].Label != "export quota announced" {
		t.Errorf("events[1] = %+v", got.Events[1])
	}
	if got.Events[2].Label != "value ↑ to 0.5" {
		t.Errorf("events[2] = %+v", got.Events[2])
	}
}

func TestOverlayBuildDerivedDisabled(t *testing.T) {
	source := &fakeSource{pts: []models.TimePoint{{Date: day(2022, 1, 3), Value: 40}}}
	store := &fakeEventStore{}
	ref := &fakeReference{pts: []models.TimePoint{{Date: day(2022, 1, 4), Value: 1}}}

	b := NewOverlayBuilder(source, store, ref, nil, "SLX")
	got, err := b.Build(context.Background(), &models.OverlayRequest{IncludeDerived: boolp(false)})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(got.Events) != 0 {
		t.Errorf("events = %d, want 0 with derived disabled", len(got.Events))
	}
}

func TestOverlayBuildReferenceFailureKeepsManual(t *testing.T) {
	source := &fakeSource{pts: []models.TimePoint{{Date: day(2022, 1, 3), Value: 40}}}
	store := &fakeEventStore{events: []models.Event{
		{Date: day(2022, 1, 3), Label: "kept", Category: models.CategoryOther, Source: models.SourceManual},
	}}
	ref := &fakeReference{err: errors.New("upstream down")}

	b := NewOverlayBuilder(source, store, ref, nil, "SLX")
	got, err := b.Build(context.Background(), &models.OverlayRequest{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(got.Events) != 1 || got.Events[0].Label != "kept" {
		t.Errorf("events = %+v, want only manual", got.Events)
	}
}

func TestOverlayBuildEmptySeries(t *testing.T) {
	b := NewOverlayBuilder(&fakeSource{}, &fakeEventStore{}, &fakeReference{}, nil, "SLX")
	got, err := b.Build(context.Background(), &models.OverlayRequest{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(got.Series.Points) != 0 || len(got.Events) != 0 {
		t.Errorf("expected empty overlay, got %+v", got)
	}
}

func TestOverlayWindow(t *testing.T) {
	source := &fakeSource{pts: []models.TimePoint{
		{Date: day(2021, 5, 15), Value: 1},
		{Date: day(2021, 6, 15), Value: 2},
		{Date: day(2021, 7, 16), Value: 3},
	}}
	b := NewOverlayBuilder(source, &fakeEventStore{}, nil, nil, "SLX")

	got, err := b.Window(context.Background(), &models.WindowRequest{
		Center:     "2021-06-15",
		RadiusDays: 30,
	})
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	// 2021-05-16 .. 2021-07-15 inclusive
	if len(got.Points) != 1 || !got.Points[0].Date.Equal(day(2021, 6, 15)) {
		t.Errorf("points = %+v", got.Points)
	}
}

func TestOverlayWindowBadCenter(t *testing.T) {
	b := NewOverlayBuilder(&fakeSource{}, &fakeEventStore{}, nil, nil, "SLX")
	if _, err := b.Window(context.Background(), &models.WindowRequest{Center: "june"}); err == nil {
		t.Fatal("expected error for unparsable center")
	}
}

func TestUpsertEventNormalizesAndStores(t *testing.T) {
	store := &fakeEventStore{}
	b := NewOverlayBuilder(&fakeSource{}, store, nil, nil, "SLX")

	e, err := b.UpsertEvent(context.Background(), &models.UpsertEventRequest{
		Date:     "2022-03-01",
		Label:    "tariff change",
		Category: "Policy",
	})
	if err != nil {
		t.Fatalf("UpsertEvent() error = %v", err)
	}
	if e.Source != models.SourceManual {
		t.Errorf("source = %q, want manual", e.Source)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("upserted = %d, want 1", len(store.upserted))
	}
	if store.upserted[0].Key() != "2022-03-01|tariff change" {
		t.Errorf("key = %q", store.upserted[0].Key())
	}
}

func TestDeleteEvent(t *testing.T) {
	store := &fakeEventStore{}
	b := NewOverlayBuilder(&fakeSource{}, store, nil, nil, "SLX")

	if err := b.DeleteEvent(context.Background(), &models.DeleteEventRequest{
		Date:  "2022-03-01",
		Label: "tariff change",
	}); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "2022-03-01|tariff change" {
		t.Errorf("deleted = %v", store.deleted)
	}
}
