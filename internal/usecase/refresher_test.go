package usecase

import (
	"context"
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
	domrepo "SteelPulse/internal/domain/repository"
)

type fakeArchive struct {
	batches map[string]int
}

func (f *fakeArchive) StoreBatch(_ context.Context, source string, pts []models.TimePoint) error {
	if f.batches == nil {
		f.batches = map[string]int{}
	}
	f.batches[source] += len(pts)
	return nil
}

func (f *fakeArchive) Query(context.Context, string, time.Time, time.Time, int) ([]models.TimePoint, error) {
	return nil, nil
}

type fakePublisher struct {
	published []models.Event
}

func (f *fakePublisher) PublishEvents(_ context.Context, events []models.Event) error {
	f.published = append(f.published, events...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeBroadcaster struct {
	frames []interface{}
}

func (f *fakeBroadcaster) Broadcast(v interface{}) { f.frames = append(f.frames, v) }

type fakeOil struct {
	pts []models.TimePoint
}

func (f *fakeOil) FetchProduction(context.Context) ([]models.TimePoint, error) {
	return f.pts, nil
}

func TestRefreshJobMarkets(t *testing.T) {
	source := &fakeSource{pts: []models.TimePoint{
		{Date: day(2022, 1, 3), Value: 40},
		{Date: day(2022, 1, 4), Value: 41},
	}}
	archive := &fakeArchive{}
	bcast := &fakeBroadcaster{}

	job := NewRefreshJob(source, nil, nil, archive, nil, bcast, nil, domrepo.LB5y, time.Time{})
	err := job.Handle(context.Background(), RefreshPayload{Source: RefreshSourceMarkets, Symbol: "SLX"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if archive.batches["markets:SLX"] != 2 {
		t.Errorf("archived rows = %d, want 2", archive.batches["markets:SLX"])
	}
	if len(bcast.frames) != 1 {
		t.Errorf("broadcast frames = %d, want 1", len(bcast.frames))
	}
}

func TestRefreshJobReferencePublishesDerivedEvents(t *testing.T) {
	ref := &fakeReference{pts: []models.TimePoint{
		{Date: day(2022, 3, 16), Value: 0.25},
		{Date: day(2022, 5, 4), Value: 0.5},
		{Date: day(2022, 5, 5), Value: 0.5},
	}}
	archive := &fakeArchive{}
	pub := &fakePublisher{}

	job := NewRefreshJob(&fakeSource{}, nil, ref, archive, pub, nil, nil, domrepo.LB5y, time.Time{})
	err := job.Handle(context.Background(), RefreshPayload{Source: RefreshSourceReference})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if archive.batches["reference"] != 3 {
		t.Errorf("archived rows = %d, want 3", archive.batches["reference"])
	}
	// one run start per constant run: 0.25, then 0.5
	if len(pub.published) != 2 {
		t.Fatalf("published = %d, want 2", len(pub.published))
	}
	if pub.published[1].Label != "value ↑ to 0.5" {
		t.Errorf("published[1].Label = %q", pub.published[1].Label)
	}
}

func TestRefreshJobOil(t *testing.T) {
	oil := &fakeOil{pts: []models.TimePoint{{Date: day(2023, 1, 6), Value: 12.2}}}
	archive := &fakeArchive{}

	job := NewRefreshJob(&fakeSource{}, oil, nil, archive, nil, nil, nil, domrepo.LB5y, time.Time{})
	err := job.Handle(context.Background(), RefreshPayload{Source: RefreshSourceOil})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if archive.batches["oil"] != 1 {
		t.Errorf("archived rows = %d, want 1", archive.batches["oil"])
	}
}

func TestRefreshJobUnknownSource(t *testing.T) {
	job := NewRefreshJob(&fakeSource{}, nil, nil, &fakeArchive{}, nil, nil, nil, domrepo.LB5y, time.Time{})
	if err := job.Handle(context.Background(), RefreshPayload{Source: "weather"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
