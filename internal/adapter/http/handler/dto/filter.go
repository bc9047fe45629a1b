package dto

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/pkg/validator"
)

const (
	defaultTripLimit = 1000
	maxTripLimit     = 5000
)

// ParseFilterQuery reads the filter spec from query parameters. Every
// parameter is optional: absent dates and hours stay zero-valued and are
// widened to the dataset bounds downstream, absent selectors mean "all".
// Parse and range violations are recorded on the returned validator.
func ParseFilterQuery(r *http.Request, v *validator.Validator) models.FilterSpec {
	q := r.URL.Query()

	var f models.FilterSpec
	f.HourTo = 23

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(models.DateLayout, s)
		v.Check(err == nil, "start_date", "must be a date in YYYY-MM-DD format")
		f.StartDate = t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(models.DateLayout, s)
		v.Check(err == nil, "end_date", "must be a date in YYYY-MM-DD format")
		f.EndDate = t
	}
	if s := q.Get("hour_from"); s != "" {
		n, err := strconv.Atoi(s)
		v.Check(err == nil, "hour_from", "must be an integer")
		f.HourFrom = n
	}
	if s := q.Get("hour_to"); s != "" {
		n, err := strconv.Atoi(s)
		v.Check(err == nil, "hour_to", "must be an integer")
		f.HourTo = n
	}

	f.Payment = q.Get("payment")
	f.Weather = q.Get("weather")
	f.DayType = q.Get("day_type")

	return f
}

// FilterMessage is the websocket form of a filter change. Pointer hour
// fields distinguish "not sent" from hour 0.
type FilterMessage struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HourFrom  *int   `json:"hour_from"`
	HourTo    *int   `json:"hour_to"`
	Payment   string `json:"payment"`
	Weather   string `json:"weather"`
	DayType   string `json:"day_type"`
}

// ToSpec converts the message, recording parse violations on v.
func (m FilterMessage) ToSpec(v *validator.Validator) models.FilterSpec {
	var f models.FilterSpec
	f.HourTo = 23

	if m.StartDate != "" {
		t, err := time.Parse(models.DateLayout, m.StartDate)
		v.Check(err == nil, "start_date", "must be a date in YYYY-MM-DD format")
		f.StartDate = t
	}
	if m.EndDate != "" {
		t, err := time.Parse(models.DateLayout, m.EndDate)
		v.Check(err == nil, "end_date", "must be a date in YYYY-MM-DD format")
		f.EndDate = t
	}
	if m.HourFrom != nil {
		f.HourFrom = *m.HourFrom
	}
	if m.HourTo != nil {
		f.HourTo = *m.HourTo
	}

	f.Payment = m.Payment
	f.Weather = m.Weather
	f.DayType = m.DayType

	return f
}

// ParseLimit reads the trip-sample limit, clamped to the scatter budget.
func ParseLimit(r *http.Request, v *validator.Validator) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultTripLimit
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		v.AddError("limit", "must be a positive integer")
		return defaultTripLimit
	}
	if n > maxTripLimit {
		return maxTripLimit
	}
	return n
}
