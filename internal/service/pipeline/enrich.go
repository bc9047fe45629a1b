package pipeline

import (
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

// Cleaning bounds. Rows outside these never reach aggregation.
const (
	maxFareAmount      = 300.0
	maxDistanceMiles   = 100.0
	maxDurationMinutes = 480.0
	maxPassengers      = 8
)

// ZoneLookup maps a zone identifier to its borough.
type ZoneLookup interface {
	Borough(zoneID int) types.Borough
}

// CleanAndEnrich turns raw source rows into the immutable enriched record
// set. Steps run in a fixed order because later filters depend on earlier
// derived fields:
//
//  1. drop rows with out-of-bound fare, distance, duration or passenger count;
//  2. derive hour, day-of-week and the weekend flag from the pickup timestamp;
//  3. compute tip percentage and price-per-mile;
//  4. left-join the weather set by pickup date; unmatched dates get the
//     explicit "unknown" flag instead of a hole.
//
// The returned slice is never mutated afterwards.
func CleanAndEnrich(raw []models.RawTrip, weather map[string]models.WeatherDay, zones ZoneLookup) ([]models.Trip, models.DropStats) {
	trips := make([]models.Trip, 0, len(raw))
	var dropped models.DropStats

	for _, r := range raw {
		if r.PickupAt.IsZero() || r.DropoffAt.IsZero() {
			dropped.InvalidTimestamps++
			continue
		}

		duration := r.DropoffAt.Sub(r.PickupAt).Minutes()

		switch {
		case r.FareAmount <= 0 || r.FareAmount > maxFareAmount:
			dropped.FareOutOfBounds++
			continue
		case r.TripDistance <= 0 || r.TripDistance > maxDistanceMiles:
			dropped.DistanceOutOfBounds++
			continue
		case duration <= 0 || duration > maxDurationMinutes:
			dropped.DurationOutOfBounds++
			continue
		case r.PassengerCount < 1 || r.PassengerCount > maxPassengers:
			dropped.PassengersOutOfBounds++
			continue
		}

		dow := r.PickupAt.Weekday()

		t := models.Trip{
			PickupAt:       r.PickupAt,
			DropoffAt:      r.DropoffAt,
			PULocationID:   r.PULocationID,
			DOLocationID:   r.DOLocationID,
			PickupBorough:  zones.Borough(r.PULocationID),
			DropoffBorough: zones.Borough(r.DOLocationID),
			PassengerCount: r.PassengerCount,
			TripDistance:   r.TripDistance,
			FareAmount:     r.FareAmount,
			TipAmount:      r.TipAmount,
			TotalAmount:    r.TotalAmount,
			Payment:        types.PaymentTypeFromCode(r.PaymentCode),

			DurationMinutes: duration,
			Hour:            r.PickupAt.Hour(),
			DayOfWeek:       dow,
			IsWeekend:       dow == time.Saturday || dow == time.Sunday,
			TipPct:          safeRatio(r.TipAmount, r.FareAmount) * 100,
			PricePerMile:    safeRatio(r.FareAmount, r.TripDistance),
			Weather:         weatherFlag(weather, models.DateKey(r.PickupAt)),
		}

		trips = append(trips, t)
	}

	return trips, dropped
}

// safeRatio guards the zero denominator. Fare and distance are strictly
// positive after the bounds check.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func weatherFlag(weather map[string]models.WeatherDay, date string) types.WeatherFlag {
	day, ok := weather[date]
	if !ok {
		return types.WeatherUnknown
	}
	if day.Rainy {
		return types.WeatherRainy
	}
	return types.WeatherClear
}
