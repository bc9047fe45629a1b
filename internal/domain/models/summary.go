package models

import (
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

// Summary holds the grouped reductions over one filtered record set.
//
// Every table is a map so that "group absent" and "group present" stay
// distinguishable: a group with zero matching rows is simply not emitted.
// Chart renderers must treat a missing key as "no data", never as zero
// volume — a dense array would silently zero-fill unsampled hour×day cells.
type Summary struct {
	Daily   map[string]DailyRow            // key: civil date (DateLayout)
	Hourly  map[string]HourlyRow           // key: date-hour bucket (HourBucketLayout)
	HourDow map[HourDowKey]HourDowRow      // key: hour × day-of-week
	Borough map[types.Borough]BoroughRow   // key: pickup borough
	Payment map[types.PaymentType]PaymentRow
}

// HourDowKey identifies one hour × day-of-week cell of the heatmap table.
type HourDowKey struct {
	Hour int
	Dow  time.Weekday
}

type DailyRow struct {
	TripCount   int     `json:"trip_count"`
	TotalFare   float64 `json:"total_fare"`
	AvgFare     float64 `json:"avg_fare"`
	AvgDistance float64 `json:"avg_distance"`
	AvgDuration float64 `json:"avg_duration"`
	AvgTipPct   float64 `json:"avg_tip_pct"`
}

type HourlyRow struct {
	TripCount int     `json:"trip_count"`
	TotalFare float64 `json:"total_fare"`
	AvgFare   float64 `json:"avg_fare"`
}

type HourDowRow struct {
	TripCount int     `json:"trip_count"`
	AvgFare   float64 `json:"avg_fare"`
}

type BoroughRow struct {
	TripCount   int     `json:"trip_count"`
	TotalFare   float64 `json:"total_fare"`
	AvgFare     float64 `json:"avg_fare"`
	AvgDistance float64 `json:"avg_distance"`
	// RainyShare is computed over trips with a known weather flag only;
	// 0 when the group has no such trips.
	RainyShare float64 `json:"rainy_share"`
}

type PaymentRow struct {
	TripCount int     `json:"trip_count"`
	TotalFare float64 `json:"total_fare"`
	AvgFare   float64 `json:"avg_fare"`
	AvgTipPct float64 `json:"avg_tip_pct"`
}
