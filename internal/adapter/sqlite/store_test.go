package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDataset() *models.Dataset {
	pickup := time.Date(2024, 1, 13, 8, 45, 0, 0, time.UTC)
	return &models.Dataset{
		Version:    "abc123",
		Period:     models.Period{Year: 2024, Month: time.January},
		SampleSize: 1000,
		Trips: []models.Trip{{
			PickupAt:       pickup,
			DropoffAt:      pickup.Add(24 * time.Minute),
			PULocationID:   161,
			DOLocationID:   237,
			PickupBorough:  types.BoroughManhattan,
			DropoffBorough: types.BoroughManhattan,
			PassengerCount: 2,
			TripDistance:   4,
			FareAmount:     20,
			TipAmount:      5,
			TotalAmount:    25,
			Payment:        types.PaymentCreditCard,

			DurationMinutes: 24,
			Hour:            8,
			DayOfWeek:       time.Saturday,
			IsWeekend:       true,
			TipPct:          25,
			PricePerMile:    5,
			Weather:         types.WeatherRainy,
		}},
		Weather: map[string]models.WeatherDay{
			"2024-01-13": {Date: "2024-01-13", TempMinF: 28, TempMaxF: 40, Rainy: true, PrecipitationInches: 0.4},
		},
		Dropped:  models.DropStats{FareOutOfBounds: 3, InvalidTimestamps: 1},
		MinDate:  pickup,
		MaxDate:  pickup,
		LoadedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := testDataset()

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, want.Version)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil for a saved version")
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the dataset:\n got %+v\nwant %+v", got, want)
	}
}

func TestStore_LoadMissingVersion(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Load(context.Background(), "no-such-version")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("missing version returned a dataset: %+v", got)
	}
}

func TestStore_SaveReplacesSameVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ds := testDataset()
	if err := s.Save(ctx, ds); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	ds.Trips = ds.Trips[:0]
	ds.Weather = map[string]models.WeatherDay{}
	if err := s.Save(ctx, ds); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load(ctx, ds.Version)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Trips) != 0 {
		t.Fatalf("old trips survived the replace: %d rows", len(got.Trips))
	}
}
