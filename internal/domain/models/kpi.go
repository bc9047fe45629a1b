package models

import "time"

// KPISet holds the scalar metrics for the current filter. Means are 0 when
// the filtered set is empty — never NaN.
type KPISet struct {
	TripCount    int     `json:"trip_count"`
	MeanFare     float64 `json:"mean_fare"`
	MeanDistance float64 `json:"mean_distance"`
	// TotalRevenue sums fare_amount (not total_amount) so the metric stays
	// comparable across payment types with structurally different tipping.
	TotalRevenue float64 `json:"total_revenue"`
}

// DashboardView is one complete recomputation result: everything the
// presentation layer needs to redraw after a filter change.
type DashboardView struct {
	Filter         FilterSpec
	KPIs           KPISet
	Summary        Summary
	DatasetVersion string
	ComputedAt     time.Time
}
