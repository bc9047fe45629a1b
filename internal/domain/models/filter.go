package models

import (
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/validator"
)

// FilterSpec describes the active dashboard view: five independent,
// conjunctive predicates. A fully-open spec ("all" on every dimension over
// the whole date range) matches every record. The value is immutable —
// each recomputation works from its own copy.
type FilterSpec struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	HourFrom  int       `json:"hour_from"`
	HourTo    int       `json:"hour_to"`
	Payment   string    `json:"payment"`  // payment type or "all"
	Weather   string    `json:"weather"`  // "clear" | "rainy" | "all"
	DayType   string    `json:"day_type"` // "weekday" | "weekend" | "all"
}

// OpenFilter returns the spec matching every record in [start, end].
func OpenFilter(start, end time.Time) FilterSpec {
	return FilterSpec{
		StartDate: start,
		EndDate:   end,
		HourFrom:  0,
		HourTo:    23,
		Payment:   types.SelectorAll,
		Weather:   types.SelectorAll,
		DayType:   types.SelectorAll,
	}
}

// Validate records violations on v. An inverted hour range is a validation
// error, not an overnight wrap-around window.
func (f FilterSpec) Validate(v *validator.Validator) {
	v.Check(!f.StartDate.IsZero(), "start_date", "must be provided")
	v.Check(!f.EndDate.IsZero(), "end_date", "must be provided")
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() {
		v.Check(!f.StartDate.After(f.EndDate), "start_date", "must not be after end_date")
	}

	v.Check(f.HourFrom >= 0 && f.HourFrom <= 23, "hour_from", "must be between 0 and 23")
	v.Check(f.HourTo >= 0 && f.HourTo <= 23, "hour_to", "must be between 0 and 23")
	v.Check(f.HourFrom <= f.HourTo, "hour_from", "must not be greater than hour_to")

	v.Check(validator.PermittedValue(f.Payment,
		types.SelectorAll,
		types.PaymentCreditCard.String(),
		types.PaymentCash.String(),
		types.PaymentOther.String(),
	), "payment", "must be one of all, credit_card, cash, other")

	v.Check(validator.PermittedValue(f.Weather,
		types.SelectorAll,
		string(types.WeatherClear),
		string(types.WeatherRainy),
	), "weather", "must be one of all, clear, rainy")

	v.Check(validator.PermittedValue(f.DayType,
		types.SelectorAll,
		types.DayTypeWeekday,
		types.DayTypeWeekend,
	), "day_type", "must be one of all, weekday, weekend")
}
