package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
)

type stubSource struct {
	trips []models.RawTrip
	err   error
	calls int
}

func (s *stubSource) LoadTrips(ctx context.Context, period models.Period, sampleSize int) ([]models.RawTrip, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.trips, nil
}

type stubStore struct {
	saved  *models.Dataset
	loaded *models.Dataset
}

func (s *stubStore) Save(ctx context.Context, ds *models.Dataset) error {
	s.saved = ds
	return nil
}

func (s *stubStore) Load(ctx context.Context, version string) (*models.Dataset, error) {
	return s.loaded, nil
}

func rawRow(pickup time.Time) models.RawTrip {
	return models.RawTrip{
		PickupAt:       pickup,
		DropoffAt:      pickup.Add(20 * time.Minute),
		PULocationID:   161,
		DOLocationID:   237,
		PassengerCount: 1,
		TripDistance:   3,
		FareAmount:     15,
		PaymentCode:    1,
	}
}

func testConfig() Config {
	return Config{
		Period:     models.Period{Year: 2024, Month: time.January},
		SampleSize: 1000,
	}
}

func testLog() logger.Logger {
	return logger.InitLogger("dataset-test", "error")
}

func TestCache_SnapshotBeforeLoad(t *testing.T) {
	c := NewCache(testConfig(), &stubSource{}, nil, nil, StaticZones{}, testLog())

	_, err := c.Snapshot(context.Background())
	if !errors.Is(err, types.ErrDatasetNotReady) {
		t.Fatalf("err = %v, want ErrDatasetNotReady", err)
	}
}

func TestCache_LoadAndSnapshot(t *testing.T) {
	src := &stubSource{trips: []models.RawTrip{
		rawRow(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
		rawRow(time.Date(2024, 1, 20, 18, 0, 0, 0, time.UTC)),
	}}
	c := NewCache(testConfig(), src, nil, nil, StaticZones{}, testLog())

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ds, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(ds.Trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(ds.Trips))
	}
	if ds.Version != c.Version() {
		t.Errorf("dataset version %q != configured version %q", ds.Version, c.Version())
	}
	if ds.MinDate.Day() != 5 || ds.MaxDate.Day() != 20 {
		t.Errorf("bounds %v..%v, want days 5..20", ds.MinDate, ds.MaxDate)
	}
	if ds.Trips[0].PickupBorough != types.BoroughManhattan {
		t.Errorf("zone 161 resolved to %v, want Manhattan", ds.Trips[0].PickupBorough)
	}
}

func TestCache_LoadFailsWhenSourceDown(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	c := NewCache(testConfig(), src, nil, nil, StaticZones{}, testLog())

	err := c.Load(context.Background())
	if !errors.Is(err, types.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestCache_StaleServesOnRefreshFailure(t *testing.T) {
	src := &stubSource{trips: []models.RawTrip{
		rawRow(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
	}}
	cfg := testConfig()
	cfg.TTL = time.Nanosecond // every snapshot sees an expired dataset
	c := NewCache(cfg, src, nil, nil, StaticZones{}, testLog())

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	src.err = errors.New("source went away")
	time.Sleep(time.Millisecond)

	ds, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot after failed refresh: %v", err)
	}
	if len(ds.Trips) != 1 {
		t.Fatalf("stale dataset lost: %d trips", len(ds.Trips))
	}
}

func TestCache_ExplicitRefreshError(t *testing.T) {
	src := &stubSource{err: errors.New("boom")}
	c := NewCache(testConfig(), src, nil, nil, StaticZones{}, testLog())

	_, err := c.Refresh(context.Background(), true)
	if !errors.Is(err, types.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestCache_WarmStoreSkipsIngestion(t *testing.T) {
	warm := &models.Dataset{
		Version:  "warm",
		Period:   models.Period{Year: 2024, Month: time.January},
		Trips:    []models.Trip{{FareAmount: 15}},
		LoadedAt: time.Now(),
	}
	src := &stubSource{}
	store := &stubStore{loaded: warm}
	c := NewCache(testConfig(), src, store, nil, StaticZones{}, testLog())

	ds, err := c.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if src.calls != 0 {
		t.Errorf("warm hit still called the source %d times", src.calls)
	}
	if ds.Version != "warm" {
		t.Errorf("got version %q, want warm dataset", ds.Version)
	}
}

func TestCache_ForceBypassesStore(t *testing.T) {
	store := &stubStore{loaded: &models.Dataset{Version: "warm"}}
	src := &stubSource{trips: []models.RawTrip{
		rawRow(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
	}}
	c := NewCache(testConfig(), src, store, nil, StaticZones{}, testLog())

	ds, err := c.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("forced refresh made %d source calls, want 1", src.calls)
	}
	if store.saved == nil {
		t.Error("forced refresh did not persist the rebuilt dataset")
	}
	if ds.Version == "warm" {
		t.Error("forced refresh returned the persisted dataset")
	}
}

func TestCache_RefreshCallback(t *testing.T) {
	src := &stubSource{trips: []models.RawTrip{
		rawRow(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
	}}
	c := NewCache(testConfig(), src, nil, nil, StaticZones{}, testLog())

	var got []models.RefreshEvent
	c.OnRefreshed(func(e models.RefreshEvent) { got = append(got, e) })

	if _, err := c.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(got))
	}
	if got[0].Records != 1 || got[0].Version != c.Version() {
		t.Errorf("unexpected event: %+v", got[0])
	}
}

func TestCache_VersionStableAndSensitive(t *testing.T) {
	c1 := NewCache(testConfig(), &stubSource{}, nil, nil, StaticZones{}, testLog())
	c2 := NewCache(testConfig(), &stubSource{}, nil, nil, StaticZones{}, testLog())
	if c1.Version() != c2.Version() {
		t.Error("same config produced different versions")
	}

	cfg := testConfig()
	cfg.SampleSize = 2000
	c3 := NewCache(cfg, &stubSource{}, nil, nil, StaticZones{}, testLog())
	if c3.Version() == c1.Version() {
		t.Error("different sample size produced the same version")
	}
}

func TestCache_Status(t *testing.T) {
	src := &stubSource{trips: []models.RawTrip{
		rawRow(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
		{PickupAt: time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)}, // dropped: no dropoff
	}}
	c := NewCache(testConfig(), src, nil, nil, StaticZones{}, testLog())

	if s := c.Status(); s.Ready {
		t.Error("status ready before load")
	}

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := c.Status()
	if !s.Ready || s.Records != 1 || s.Dropped.Total() != 1 {
		t.Errorf("unexpected status: %+v", s)
	}
	if s.Period != "2024-01" {
		t.Errorf("period = %q, want 2024-01", s.Period)
	}
}
