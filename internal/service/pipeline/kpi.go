package pipeline

import "github.com/Temutjin2k/taxi-pulse/internal/domain/models"

// ComputeKPIs returns the scalar metrics for a filtered set. The empty set
// yields an all-zero KPISet.
func ComputeKPIs(trips []models.Trip) models.KPISet {
	var k models.KPISet
	k.TripCount = len(trips)
	if k.TripCount == 0 {
		return k
	}

	var fare, distance float64
	for _, t := range trips {
		fare += t.FareAmount
		distance += t.TripDistance
	}

	n := float64(k.TripCount)
	k.MeanFare = fare / n
	k.MeanDistance = distance / n
	k.TotalRevenue = fare
	return k
}
