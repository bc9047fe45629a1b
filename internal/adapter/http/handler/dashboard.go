package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/taxi-pulse/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/validator"
)

type DashboardService interface {
	View(ctx context.Context, f models.FilterSpec) (*models.DashboardView, error)
	SampleTrips(ctx context.Context, f models.FilterSpec, limit int) ([]models.Trip, error)
}

type Dashboard struct {
	service DashboardService
	log     logger.Logger
}

func NewDashboard(service DashboardService, log logger.Logger) *Dashboard {
	return &Dashboard{
		service: service,
		log:     log,
	}
}

// View godoc
// @Summary      Dashboard view
// @Description  Applies the filter spec and returns KPIs plus all summary tables
// @Tags         Dashboard
// @Produce      json
// @Param        start_date  query  string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        end_date    query  string  false  "End date (YYYY-MM-DD, inclusive)"
// @Param        hour_from   query  int     false  "First pickup hour (0-23)"
// @Param        hour_to     query  int     false  "Last pickup hour (0-23, inclusive)"
// @Param        payment     query  string  false  "Payment type or all"
// @Param        weather     query  string  false  "clear, rainy or all"
// @Param        day_type    query  string  false  "weekday, weekend or all"
// @Success      200  {object}  dto.ViewResponse
// @Failure      422  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/dashboard/view [get]
func (h *Dashboard) View(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dashboard_view")

	v := validator.New()
	f := dto.ParseFilterQuery(r, v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	view, err := h.service.View(ctx, f)
	if err != nil {
		h.log.Error(ctx, "view failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"view": dto.NewViewResponse(view)}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "the server encountered a problem")
	}
}

// Trips godoc
// @Summary      Trip sample
// @Description  Returns a deterministic sample of the filtered trips
// @Tags         Dashboard
// @Produce      json
// @Param        limit  query  int  false  "Maximum rows to return (default 1000, cap 5000)"
// @Success      200  {object}  dto.TripsResponse
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/dashboard/trips [get]
func (h *Dashboard) Trips(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dashboard_trips")

	v := validator.New()
	f := dto.ParseFilterQuery(r, v)
	limit := dto.ParseLimit(r, v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	trips, err := h.service.SampleTrips(ctx, f, limit)
	if err != nil {
		h.log.Error(ctx, "trip sample failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	resp := dto.TripsResponse{Trips: trips, Count: len(trips)}
	if err := writeJSON(w, http.StatusOK, envelope{"sample": resp}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "the server encountered a problem")
	}
}
