package models

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

// DateLayout is the civil-date key format used across summary tables and the
// weather join.
const DateLayout = "2006-01-02"

// HourBucketLayout keys the hourly summary table (date-hour bucket).
const HourBucketLayout = "2006-01-02T15"

// DateKey returns the civil-date key of a timestamp.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Period identifies one source month of trip data.
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start returns the first instant of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	return int(p.End().Sub(p.Start()).Hours() / 24)
}

// RawTrip is one row as it comes from the source, before cleaning.
type RawTrip struct {
	PickupAt       time.Time
	DropoffAt      time.Time
	PULocationID   int
	DOLocationID   int
	PassengerCount int
	TripDistance   float64
	FareAmount     float64
	TipAmount      float64
	TotalAmount    float64
	PaymentCode    int
}

// Trip is one enriched record. Instances are immutable after enrichment.
type Trip struct {
	PickupAt       time.Time         `json:"pickup_at"`
	DropoffAt      time.Time         `json:"dropoff_at"`
	PULocationID   int               `json:"pu_location_id"`
	DOLocationID   int               `json:"do_location_id"`
	PickupBorough  types.Borough     `json:"pickup_borough"`
	DropoffBorough types.Borough     `json:"dropoff_borough"`
	PassengerCount int               `json:"passenger_count"`
	TripDistance   float64           `json:"trip_distance"`
	FareAmount     float64           `json:"fare_amount"`
	TipAmount      float64           `json:"tip_amount"`
	TotalAmount    float64           `json:"total_amount"`
	Payment        types.PaymentType `json:"payment_type"`

	// Derived at enrichment time
	DurationMinutes float64           `json:"duration_minutes"`
	Hour            int               `json:"hour"`
	DayOfWeek       time.Weekday      `json:"day_of_week"`
	IsWeekend       bool              `json:"is_weekend"`
	TipPct          float64           `json:"tip_pct"`
	PricePerMile    float64           `json:"price_per_mile"`
	Weather         types.WeatherFlag `json:"weather"`
}

// Date returns the civil-date key of the pickup timestamp.
func (t Trip) Date() string {
	return DateKey(t.PickupAt)
}

// WeatherDay is one synthetic weather record for a calendar date.
type WeatherDay struct {
	Date                string  `json:"date"` // DateLayout
	TempMinF            float64 `json:"temp_min_f"`
	TempMaxF            float64 `json:"temp_max_f"`
	Rainy               bool    `json:"rainy"`
	PrecipitationInches float64 `json:"precipitation_inches"`
}

// DropStats counts raw rows removed during cleaning, per reason.
type DropStats struct {
	InvalidTimestamps     int `json:"invalid_timestamps"`
	FareOutOfBounds       int `json:"fare_out_of_bounds"`
	DistanceOutOfBounds   int `json:"distance_out_of_bounds"`
	DurationOutOfBounds   int `json:"duration_out_of_bounds"`
	PassengersOutOfBounds int `json:"passengers_out_of_bounds"`
}

// Total returns the overall number of dropped rows.
func (d DropStats) Total() int {
	return d.InvalidTimestamps + d.FareOutOfBounds + d.DistanceOutOfBounds +
		d.DurationOutOfBounds + d.PassengersOutOfBounds
}

// Dataset is the immutable product of one ingestion+enrichment pass.
// All pipeline recomputation reads from a single Dataset snapshot.
type Dataset struct {
	Version    string
	Period     Period
	SampleSize int

	Trips   []Trip
	Weather map[string]WeatherDay

	Dropped  DropStats
	MinDate  time.Time
	MaxDate  time.Time
	LoadedAt time.Time
}

// Bounds returns the civil-date range covered by the dataset. When the
// dataset is empty the period bounds are used so default filters stay valid.
func (d *Dataset) Bounds() (time.Time, time.Time) {
	if len(d.Trips) == 0 {
		return d.Period.Start(), d.Period.End().AddDate(0, 0, -1)
	}
	return d.MinDate, d.MaxDate
}
