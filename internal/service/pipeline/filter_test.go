package pipeline

import (
	"testing"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

func date(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

// trip builds an enriched record the way CleanAndEnrich would.
func trip(day, hour int, payment types.PaymentType, weather types.WeatherFlag) models.Trip {
	pickup := time.Date(2024, 1, day, hour, 15, 0, 0, time.UTC)
	dow := pickup.Weekday()
	return models.Trip{
		PickupAt:       pickup,
		DropoffAt:      pickup.Add(20 * time.Minute),
		PickupBorough:  types.BoroughManhattan,
		PassengerCount: 1,
		TripDistance:   3,
		FareAmount:     15,
		Payment:        payment,

		DurationMinutes: 20,
		Hour:            hour,
		DayOfWeek:       dow,
		IsWeekend:       dow == time.Saturday || dow == time.Sunday,
		Weather:         weather,
	}
}

func openFilter() models.FilterSpec {
	return models.OpenFilter(date(1), date(31))
}

func TestApplyFilters_OpenFilterMatchesAll(t *testing.T) {
	trips := []models.Trip{
		trip(5, 8, types.PaymentCreditCard, types.WeatherClear),
		trip(13, 23, types.PaymentCash, types.WeatherRainy),
		trip(31, 0, types.PaymentOther, types.WeatherUnknown),
	}
	got := ApplyFilters(trips, openFilter())
	if len(got) != len(trips) {
		t.Fatalf("open filter matched %d of %d", len(got), len(trips))
	}
}

func TestApplyFilters_DateRangeInclusive(t *testing.T) {
	trips := []models.Trip{
		trip(9, 12, types.PaymentCash, types.WeatherClear),
		trip(10, 12, types.PaymentCash, types.WeatherClear),
		trip(15, 12, types.PaymentCash, types.WeatherClear),
		trip(16, 12, types.PaymentCash, types.WeatherClear),
	}
	f := openFilter()
	f.StartDate = date(10)
	f.EndDate = date(15)

	got := ApplyFilters(trips, f)
	if len(got) != 2 {
		t.Fatalf("matched %d, want 2 (both endpoints inclusive)", len(got))
	}
	if got[0].PickupAt.Day() != 10 || got[1].PickupAt.Day() != 15 {
		t.Errorf("matched days %d and %d, want 10 and 15", got[0].PickupAt.Day(), got[1].PickupAt.Day())
	}
}

func TestApplyFilters_SingleDayAndSingleHour(t *testing.T) {
	trips := []models.Trip{
		trip(10, 7, types.PaymentCash, types.WeatherClear),
		trip(10, 8, types.PaymentCash, types.WeatherClear),
		trip(10, 9, types.PaymentCash, types.WeatherClear),
		trip(11, 8, types.PaymentCash, types.WeatherClear),
	}
	f := openFilter()
	f.StartDate = date(10)
	f.EndDate = date(10)
	f.HourFrom = 8
	f.HourTo = 8

	got := ApplyFilters(trips, f)
	if len(got) != 1 {
		t.Fatalf("matched %d, want exactly the day-10 hour-8 trip", len(got))
	}
}

func TestApplyFilters_UnknownWeatherNeverMatchesSelector(t *testing.T) {
	trips := []models.Trip{
		trip(5, 10, types.PaymentCash, types.WeatherClear),
		trip(6, 10, types.PaymentCash, types.WeatherRainy),
		trip(7, 10, types.PaymentCash, types.WeatherUnknown),
	}

	for _, weather := range []string{"clear", "rainy"} {
		f := openFilter()
		f.Weather = weather
		got := ApplyFilters(trips, f)
		if len(got) != 1 {
			t.Errorf("weather=%s matched %d, want 1", weather, len(got))
		}
		for _, tr := range got {
			if tr.Weather == types.WeatherUnknown {
				t.Errorf("weather=%s matched an unknown-weather trip", weather)
			}
		}
	}

	// "all" keeps the unknown trips too.
	if got := ApplyFilters(trips, openFilter()); len(got) != 3 {
		t.Errorf("weather=all matched %d, want 3", len(got))
	}
}

func TestApplyFilters_DayTypePartition(t *testing.T) {
	trips := []models.Trip{
		trip(8, 10, types.PaymentCash, types.WeatherClear),  // Monday
		trip(13, 10, types.PaymentCash, types.WeatherClear), // Saturday
		trip(14, 10, types.PaymentCash, types.WeatherClear), // Sunday
		trip(16, 10, types.PaymentCash, types.WeatherClear), // Tuesday
	}

	weekday := openFilter()
	weekday.DayType = types.DayTypeWeekday
	weekend := openFilter()
	weekend.DayType = types.DayTypeWeekend

	wd := ApplyFilters(trips, weekday)
	we := ApplyFilters(trips, weekend)

	// Weekday and weekend partition the set: same filter otherwise, and
	// the two counts must sum to the unsplit count.
	if len(wd)+len(we) != len(trips) {
		t.Fatalf("partition violated: %d + %d != %d", len(wd), len(we), len(trips))
	}
	if len(wd) != 2 || len(we) != 2 {
		t.Errorf("weekday=%d weekend=%d, want 2 and 2", len(wd), len(we))
	}
}

func TestApplyFilters_ConjunctionAndMonotonicity(t *testing.T) {
	trips := []models.Trip{
		trip(13, 9, types.PaymentCreditCard, types.WeatherRainy), // Saturday
		trip(13, 9, types.PaymentCash, types.WeatherRainy),
		trip(13, 20, types.PaymentCreditCard, types.WeatherRainy),
		trip(15, 9, types.PaymentCreditCard, types.WeatherRainy), // Monday
		trip(13, 9, types.PaymentCreditCard, types.WeatherClear),
	}

	f := openFilter()
	base := len(ApplyFilters(trips, f))

	// Tightening one dimension at a time never grows the result.
	f.Payment = types.PaymentCreditCard.String()
	afterPayment := len(ApplyFilters(trips, f))
	f.Weather = string(types.WeatherRainy)
	afterWeather := len(ApplyFilters(trips, f))
	f.DayType = types.DayTypeWeekend
	afterDayType := len(ApplyFilters(trips, f))
	f.HourFrom, f.HourTo = 8, 10
	afterHours := len(ApplyFilters(trips, f))

	counts := []int{base, afterPayment, afterWeather, afterDayType, afterHours}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("tightening grew the result: %v", counts)
		}
	}
	if afterHours != 1 {
		t.Errorf("fully tightened filter matched %d, want 1", afterHours)
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	trips := []models.Trip{
		trip(5, 8, types.PaymentCreditCard, types.WeatherClear),
		trip(13, 23, types.PaymentCash, types.WeatherRainy),
		trip(20, 14, types.PaymentOther, types.WeatherUnknown),
	}
	f := openFilter()
	f.Payment = types.PaymentCash.String()

	once := ApplyFilters(trips, f)
	twice := ApplyFilters(once, f)
	if len(once) != len(twice) {
		t.Fatalf("second application changed the set: %d -> %d", len(once), len(twice))
	}
}

func TestApplyFilters_EmptyResult(t *testing.T) {
	trips := []models.Trip{trip(5, 8, types.PaymentCash, types.WeatherClear)}
	f := openFilter()
	f.StartDate = date(20)
	f.EndDate = date(25)

	got := ApplyFilters(trips, f)
	if len(got) != 0 {
		t.Fatalf("matched %d, want empty set", len(got))
	}
}
