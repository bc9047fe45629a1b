package pipeline

import (
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

// ApplyFilters returns the records matching every predicate of f. The input
// slice is never modified; the result keeps the input order. Filtering the
// same spec twice is a no-op on the already-filtered set.
func ApplyFilters(trips []models.Trip, f models.FilterSpec) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t models.Trip, f models.FilterSpec) bool {
	// Date range is inclusive on both ends, by pickup date.
	d := t.PickupAt
	if dateBefore(d, f.StartDate) || dateAfter(d, f.EndDate) {
		return false
	}

	if t.Hour < f.HourFrom || t.Hour > f.HourTo {
		return false
	}

	if f.Payment != types.SelectorAll && t.Payment.String() != f.Payment {
		return false
	}

	// Records with unknown weather match no specific weather selector.
	if f.Weather != types.SelectorAll && string(t.Weather) != f.Weather {
		return false
	}

	switch f.DayType {
	case types.DayTypeWeekday:
		if t.IsWeekend {
			return false
		}
	case types.DayTypeWeekend:
		if !t.IsWeekend {
			return false
		}
	}

	return true
}

// dateBefore reports whether t falls on a civil date strictly before bound.
func dateBefore(t, bound time.Time) bool {
	ty, tm, td := t.Date()
	by, bm, bd := bound.Date()
	if ty != by {
		return ty < by
	}
	if tm != bm {
		return tm < bm
	}
	return td < bd
}

func dateAfter(t, bound time.Time) bool {
	return dateBefore(bound, t)
}
