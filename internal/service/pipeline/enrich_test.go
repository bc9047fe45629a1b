package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

type stubZones map[int]types.Borough

func (z stubZones) Borough(zoneID int) types.Borough {
	if b, ok := z[zoneID]; ok {
		return b
	}
	return types.BoroughUnknown
}

func rawTrip(pickup time.Time, minutes int, fare, distance, tip float64) models.RawTrip {
	return models.RawTrip{
		PickupAt:       pickup,
		DropoffAt:      pickup.Add(time.Duration(minutes) * time.Minute),
		PULocationID:   1,
		DOLocationID:   2,
		PassengerCount: 1,
		TripDistance:   distance,
		FareAmount:     fare,
		TipAmount:      tip,
		TotalAmount:    fare + tip,
		PaymentCode:    1,
	}
}

func TestCleanAndEnrich_Bounds(t *testing.T) {
	pickup := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  models.RawTrip
		keep bool
	}{
		{"valid", rawTrip(pickup, 20, 15.5, 3.2, 2), true},
		{"fare zero", rawTrip(pickup, 20, 0, 3.2, 0), false},
		{"fare negative", rawTrip(pickup, 20, -5, 3.2, 0), false},
		{"fare above cap", rawTrip(pickup, 20, 300.01, 3.2, 0), false},
		{"fare at cap", rawTrip(pickup, 20, 300, 3.2, 0), true},
		{"distance zero", rawTrip(pickup, 20, 15, 0, 0), false},
		{"distance above cap", rawTrip(pickup, 20, 15, 100.5, 0), false},
		{"duration zero", rawTrip(pickup, 0, 15, 3.2, 0), false},
		{"duration above cap", rawTrip(pickup, 481, 15, 3.2, 0), false},
		{"duration at cap", rawTrip(pickup, 480, 15, 3.2, 0), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trips, dropped := CleanAndEnrich([]models.RawTrip{tc.raw}, nil, stubZones{})
			if tc.keep && len(trips) != 1 {
				t.Fatalf("expected trip to survive, dropped as %+v", dropped)
			}
			if !tc.keep {
				if len(trips) != 0 {
					t.Fatalf("expected trip to be dropped, got %+v", trips[0])
				}
				if dropped.Total() != 1 {
					t.Fatalf("expected one dropped row, stats: %+v", dropped)
				}
			}
		})
	}
}

func TestCleanAndEnrich_PassengerBounds(t *testing.T) {
	pickup := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	for _, tc := range []struct {
		passengers int
		keep       bool
	}{
		{0, false}, {1, true}, {8, true}, {9, false},
	} {
		r := rawTrip(pickup, 20, 15, 3, 0)
		r.PassengerCount = tc.passengers
		trips, _ := CleanAndEnrich([]models.RawTrip{r}, nil, stubZones{})
		if got := len(trips) == 1; got != tc.keep {
			t.Errorf("passengers=%d: keep=%v, want %v", tc.passengers, got, tc.keep)
		}
	}
}

func TestCleanAndEnrich_DerivedFields(t *testing.T) {
	// Saturday morning trip.
	pickup := time.Date(2024, 1, 13, 8, 45, 0, 0, time.UTC)
	r := rawTrip(pickup, 24, 20, 4, 5)
	r.PaymentCode = 2

	trips, dropped := CleanAndEnrich([]models.RawTrip{r}, nil, stubZones{1: types.BoroughQueens})
	if len(trips) != 1 || dropped.Total() != 0 {
		t.Fatalf("trip dropped: %+v", dropped)
	}
	got := trips[0]

	if got.Hour != 8 {
		t.Errorf("Hour = %d, want 8", got.Hour)
	}
	if got.DayOfWeek != time.Saturday || !got.IsWeekend {
		t.Errorf("DayOfWeek = %v, IsWeekend = %v", got.DayOfWeek, got.IsWeekend)
	}
	if math.Abs(got.DurationMinutes-24) > 1e-9 {
		t.Errorf("DurationMinutes = %v, want 24", got.DurationMinutes)
	}
	if math.Abs(got.TipPct-25) > 1e-9 {
		t.Errorf("TipPct = %v, want 25", got.TipPct)
	}
	if math.Abs(got.PricePerMile-5) > 1e-9 {
		t.Errorf("PricePerMile = %v, want 5", got.PricePerMile)
	}
	if got.Payment != types.PaymentCash {
		t.Errorf("Payment = %v, want cash", got.Payment)
	}
	if got.PickupBorough != types.BoroughQueens {
		t.Errorf("PickupBorough = %v, want Queens", got.PickupBorough)
	}
	if got.DropoffBorough != types.BoroughUnknown {
		t.Errorf("DropoffBorough = %v, want Unknown", got.DropoffBorough)
	}
}

func TestCleanAndEnrich_WeatherJoin(t *testing.T) {
	matched := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	unmatched := time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)

	weather := map[string]models.WeatherDay{
		"2024-01-10": {Date: "2024-01-10", Rainy: true},
	}

	trips, _ := CleanAndEnrich([]models.RawTrip{
		rawTrip(matched, 20, 15, 3, 0),
		rawTrip(unmatched, 20, 15, 3, 0),
	}, weather, stubZones{})

	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
	if trips[0].Weather != types.WeatherRainy {
		t.Errorf("matched trip weather = %v, want rainy", trips[0].Weather)
	}
	// Unmatched dates get the explicit unknown flag, not a dropped row.
	if trips[1].Weather != types.WeatherUnknown {
		t.Errorf("unmatched trip weather = %v, want unknown", trips[1].Weather)
	}
}
