package dto

import (
	"sort"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
)

// FilterView echoes the applied filter in wire form.
type FilterView struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HourFrom  int    `json:"hour_from"`
	HourTo    int    `json:"hour_to"`
	Payment   string `json:"payment"`
	Weather   string `json:"weather"`
	DayType   string `json:"day_type"`
}

// HourDowCell is one heatmap cell. The table ships as a sparse array: cells
// with no trips are simply not present, so renderers can tell "no data"
// from zero volume.
type HourDowCell struct {
	Hour      int     `json:"hour"`
	Dow       int     `json:"dow"` // 0 = Sunday
	DowName   string  `json:"dow_name"`
	TripCount int     `json:"trip_count"`
	AvgFare   float64 `json:"avg_fare"`
}

// ViewResponse is the full dashboard recomputation result.
type ViewResponse struct {
	Filter         FilterView                   `json:"filter"`
	KPIs           models.KPISet                `json:"kpis"`
	Daily          map[string]models.DailyRow   `json:"daily"`
	Hourly         map[string]models.HourlyRow  `json:"hourly"`
	HourDow        []HourDowCell                `json:"hour_dow"`
	Borough        map[string]models.BoroughRow `json:"borough"`
	Payment        map[string]models.PaymentRow `json:"payment"`
	DatasetVersion string                       `json:"dataset_version"`
	ComputedAt     time.Time                    `json:"computed_at"`
}

func NewViewResponse(view *models.DashboardView) ViewResponse {
	resp := ViewResponse{
		Filter:         NewFilterView(view.Filter),
		KPIs:           view.KPIs,
		Daily:          view.Summary.Daily,
		Hourly:         view.Summary.Hourly,
		HourDow:        hourDowCells(view.Summary),
		Borough:        make(map[string]models.BoroughRow, len(view.Summary.Borough)),
		Payment:        make(map[string]models.PaymentRow, len(view.Summary.Payment)),
		DatasetVersion: view.DatasetVersion,
		ComputedAt:     view.ComputedAt,
	}
	for k, row := range view.Summary.Borough {
		resp.Borough[string(k)] = row
	}
	for k, row := range view.Summary.Payment {
		resp.Payment[k.String()] = row
	}
	return resp
}

func NewFilterView(f models.FilterSpec) FilterView {
	return FilterView{
		StartDate: f.StartDate.Format(models.DateLayout),
		EndDate:   f.EndDate.Format(models.DateLayout),
		HourFrom:  f.HourFrom,
		HourTo:    f.HourTo,
		Payment:   f.Payment,
		Weather:   f.Weather,
		DayType:   f.DayType,
	}
}

func hourDowCells(s models.Summary) []HourDowCell {
	cells := make([]HourDowCell, 0, len(s.HourDow))
	for key, row := range s.HourDow {
		cells = append(cells, HourDowCell{
			Hour:      key.Hour,
			Dow:       int(key.Dow),
			DowName:   key.Dow.String(),
			TripCount: row.TripCount,
			AvgFare:   row.AvgFare,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Dow != cells[j].Dow {
			return cells[i].Dow < cells[j].Dow
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}

// TripsResponse is the deterministic sample for the scatter view.
type TripsResponse struct {
	Trips []models.Trip `json:"trips"`
	Count int           `json:"count"`
}
