package pipeline

import (
	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

// Aggregate builds all five grouped summary tables in one pass over the
// filtered set. Groups with no matching records are absent from the maps.
func Aggregate(trips []models.Trip) models.Summary {
	daily := make(map[string]*dailyAcc)
	hourly := make(map[string]*hourlyAcc)
	hourDow := make(map[models.HourDowKey]*hourDowAcc)
	borough := make(map[types.Borough]*boroughAcc)
	payment := make(map[types.PaymentType]*paymentAcc)

	for _, t := range trips {
		date := t.Date()

		d, ok := daily[date]
		if !ok {
			d = &dailyAcc{}
			daily[date] = d
		}
		d.count++
		d.fare += t.FareAmount
		d.distance += t.TripDistance
		d.duration += t.DurationMinutes
		d.tipPct += t.TipPct

		hb := t.PickupAt.Format(models.HourBucketLayout)
		h, ok := hourly[hb]
		if !ok {
			h = &hourlyAcc{}
			hourly[hb] = h
		}
		h.count++
		h.fare += t.FareAmount

		hk := models.HourDowKey{Hour: t.Hour, Dow: t.DayOfWeek}
		hd, ok := hourDow[hk]
		if !ok {
			hd = &hourDowAcc{}
			hourDow[hk] = hd
		}
		hd.count++
		hd.fare += t.FareAmount

		b, ok := borough[t.PickupBorough]
		if !ok {
			b = &boroughAcc{}
			borough[t.PickupBorough] = b
		}
		b.count++
		b.fare += t.FareAmount
		b.distance += t.TripDistance
		if t.Weather != types.WeatherUnknown {
			b.weatherKnown++
			if t.Weather == types.WeatherRainy {
				b.rainy++
			}
		}

		p, ok := payment[t.Payment]
		if !ok {
			p = &paymentAcc{}
			payment[t.Payment] = p
		}
		p.count++
		p.fare += t.FareAmount
		p.tipPct += t.TipPct
	}

	s := models.Summary{
		Daily:   make(map[string]models.DailyRow, len(daily)),
		Hourly:  make(map[string]models.HourlyRow, len(hourly)),
		HourDow: make(map[models.HourDowKey]models.HourDowRow, len(hourDow)),
		Borough: make(map[types.Borough]models.BoroughRow, len(borough)),
		Payment: make(map[types.PaymentType]models.PaymentRow, len(payment)),
	}
	for k, a := range daily {
		s.Daily[k] = a.finalize()
	}
	for k, a := range hourly {
		s.Hourly[k] = a.finalize()
	}
	for k, a := range hourDow {
		s.HourDow[k] = a.finalize()
	}
	for k, a := range borough {
		s.Borough[k] = a.finalize()
	}
	for k, a := range payment {
		s.Payment[k] = a.finalize()
	}
	return s
}

type dailyAcc struct {
	count    int
	fare     float64
	distance float64
	duration float64
	tipPct   float64
}

func (a *dailyAcc) finalize() models.DailyRow {
	n := float64(a.count)
	return models.DailyRow{
		TripCount:   a.count,
		TotalFare:   a.fare,
		AvgFare:     a.fare / n,
		AvgDistance: a.distance / n,
		AvgDuration: a.duration / n,
		AvgTipPct:   a.tipPct / n,
	}
}

type hourlyAcc struct {
	count int
	fare  float64
}

func (a *hourlyAcc) finalize() models.HourlyRow {
	return models.HourlyRow{
		TripCount: a.count,
		TotalFare: a.fare,
		AvgFare:   a.fare / float64(a.count),
	}
}

type hourDowAcc struct {
	count int
	fare  float64
}

func (a *hourDowAcc) finalize() models.HourDowRow {
	return models.HourDowRow{
		TripCount: a.count,
		AvgFare:   a.fare / float64(a.count),
	}
}

type boroughAcc struct {
	count        int
	fare         float64
	distance     float64
	weatherKnown int
	rainy        int
}

func (a *boroughAcc) finalize() models.BoroughRow {
	n := float64(a.count)
	row := models.BoroughRow{
		TripCount:   a.count,
		TotalFare:   a.fare,
		AvgFare:     a.fare / n,
		AvgDistance: a.distance / n,
	}
	if a.weatherKnown > 0 {
		row.RainyShare = float64(a.rainy) / float64(a.weatherKnown)
	}
	return row
}

type paymentAcc struct {
	count  int
	fare   float64
	tipPct float64
}

func (a *paymentAcc) finalize() models.PaymentRow {
	n := float64(a.count)
	return models.PaymentRow{
		TripCount: a.count,
		TotalFare: a.fare,
		AvgFare:   a.fare / n,
		AvgTipPct: a.tipPct / n,
	}
}
