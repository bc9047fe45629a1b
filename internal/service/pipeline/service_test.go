package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
)

type stubProvider struct {
	ds  *models.Dataset
	err error
}

func (p *stubProvider) Snapshot(ctx context.Context) (*models.Dataset, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.ds, nil
}

func testDataset(trips []models.Trip) *models.Dataset {
	return &models.Dataset{
		Version:  "test-version",
		Period:   models.Period{Year: 2024, Month: time.January},
		Trips:    trips,
		MinDate:  date(1),
		MaxDate:  date(31),
		LoadedAt: time.Now(),
	}
}

func newTestService(ds *models.Dataset) *Service {
	return New(&stubProvider{ds: ds}, logger.InitLogger("pipeline-test", "error"))
}

func TestService_View(t *testing.T) {
	svc := newTestService(testDataset([]models.Trip{
		trip(10, 9, types.PaymentCash, types.WeatherClear),
		trip(13, 20, types.PaymentCreditCard, types.WeatherRainy),
	}))

	view, err := svc.View(context.Background(), openFilter())
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	if view.KPIs.TripCount != 2 {
		t.Errorf("TripCount = %d, want 2", view.KPIs.TripCount)
	}
	if view.DatasetVersion != "test-version" {
		t.Errorf("DatasetVersion = %q", view.DatasetVersion)
	}
	if len(view.Summary.Daily) != 2 {
		t.Errorf("Daily has %d rows, want 2", len(view.Summary.Daily))
	}
}

func TestService_View_NormalizesPartialFilter(t *testing.T) {
	svc := newTestService(testDataset([]models.Trip{
		trip(10, 9, types.PaymentCash, types.WeatherClear),
	}))

	// Zero-valued dates and empty selectors widen to the dataset defaults.
	view, err := svc.View(context.Background(), models.FilterSpec{HourTo: 23})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.KPIs.TripCount != 1 {
		t.Errorf("TripCount = %d, want 1", view.KPIs.TripCount)
	}
	if view.Filter.Payment != types.SelectorAll || view.Filter.StartDate.IsZero() {
		t.Errorf("filter not normalized: %+v", view.Filter)
	}
}

func TestService_View_InvertedHourRangeIsAnError(t *testing.T) {
	svc := newTestService(testDataset(nil))

	f := openFilter()
	f.HourFrom, f.HourTo = 22, 6 // not an overnight window

	_, err := svc.View(context.Background(), f)
	if !errors.Is(err, types.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestService_View_InvertedDateRangeIsAnError(t *testing.T) {
	svc := newTestService(testDataset(nil))

	f := openFilter()
	f.StartDate, f.EndDate = date(20), date(10)

	_, err := svc.View(context.Background(), f)
	if !errors.Is(err, types.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestService_View_DatasetNotReady(t *testing.T) {
	svc := New(&stubProvider{err: types.ErrDatasetNotReady}, logger.InitLogger("pipeline-test", "error"))

	_, err := svc.View(context.Background(), openFilter())
	if !errors.Is(err, types.ErrDatasetNotReady) {
		t.Fatalf("err = %v, want ErrDatasetNotReady", err)
	}
}

func TestService_SampleTrips_Deterministic(t *testing.T) {
	trips := make([]models.Trip, 0, 50)
	for day := 1; day <= 25; day++ {
		trips = append(trips,
			trip(day, 8, types.PaymentCash, types.WeatherClear),
			trip(day, 18, types.PaymentCreditCard, types.WeatherClear),
		)
	}
	svc := newTestService(testDataset(trips))

	first, err := svc.SampleTrips(context.Background(), openFilter(), 10)
	if err != nil {
		t.Fatalf("SampleTrips: %v", err)
	}
	second, err := svc.SampleTrips(context.Background(), openFilter(), 10)
	if err != nil {
		t.Fatalf("SampleTrips: %v", err)
	}

	if len(first) != 10 {
		t.Fatalf("sample size = %d, want 10", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same request returned a different sample")
	}

	// Sampled rows keep pickup order.
	for i := 1; i < len(first); i++ {
		if first[i].PickupAt.Before(first[i-1].PickupAt) {
			t.Fatal("sample broke input order")
		}
	}
}

func TestService_SampleTrips_LimitAboveMatchCount(t *testing.T) {
	svc := newTestService(testDataset([]models.Trip{
		trip(10, 9, types.PaymentCash, types.WeatherClear),
		trip(11, 9, types.PaymentCash, types.WeatherClear),
	}))

	got, err := svc.SampleTrips(context.Background(), openFilter(), 100)
	if err != nil {
		t.Fatalf("SampleTrips: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trips, want all 2", len(got))
	}
}
