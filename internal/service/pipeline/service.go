package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/metrics"
	"github.com/Temutjin2k/taxi-pulse/pkg/validator"
)

const serviceName = "dashboard"

// sampleSeed fixes the trip-table sample so repeated requests with the same
// filter return the same rows.
const sampleSeed = 42

// Service computes dashboard views over the current dataset snapshot.
// It holds no mutable state of its own.
type Service struct {
	data DatasetProvider
	log  logger.Logger
}

func New(data DatasetProvider, log logger.Logger) *Service {
	return &Service{
		data: data,
		log:  log,
	}
}

// View runs the full recomputation for one filter spec: filter, aggregate,
// KPIs. Zero-valued filter fields are widened to the dataset bounds first.
func (s *Service) View(ctx context.Context, f models.FilterSpec) (*models.DashboardView, error) {
	ctx = wrap.WithAction(ctx, types.ActionDashboardView)

	ds, err := s.data.Snapshot(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	ctx = wrap.WithDatasetVersion(ctx, ds.Version)

	f = normalize(f, ds)
	if err := validate(f); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	start := time.Now()
	filtered := ApplyFilters(ds.Trips, f)
	view := &models.DashboardView{
		Filter:         f,
		KPIs:           ComputeKPIs(filtered),
		Summary:        Aggregate(filtered),
		DatasetVersion: ds.Version,
		ComputedAt:     time.Now().UTC(),
	}
	metrics.RecordViewCompute(serviceName, time.Since(start))

	s.log.Debug(ctx, "view computed",
		"matched", view.KPIs.TripCount,
		"total", len(ds.Trips),
		"elapsed", time.Since(start).String(),
	)
	return view, nil
}

// SampleTrips returns up to limit records matching f, picked with a fixed
// seed so the same request always shows the same rows. Input order of the
// surviving records is preserved.
func (s *Service) SampleTrips(ctx context.Context, f models.FilterSpec, limit int) ([]models.Trip, error) {
	ds, err := s.data.Snapshot(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	f = normalize(f, ds)
	if err := validate(f); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	filtered := ApplyFilters(ds.Trips, f)
	if limit <= 0 || limit >= len(filtered) {
		return filtered, nil
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	idx := rng.Perm(len(filtered))[:limit]
	sort.Ints(idx)

	out := make([]models.Trip, 0, limit)
	for _, i := range idx {
		out = append(out, filtered[i])
	}
	return out, nil
}

// normalize widens zero-valued fields to the dataset defaults so a partial
// spec (for example one arriving over the websocket) behaves as "unchanged".
func normalize(f models.FilterSpec, ds *models.Dataset) models.FilterSpec {
	minDate, maxDate := ds.Bounds()
	if f.StartDate.IsZero() {
		f.StartDate = minDate
	}
	if f.EndDate.IsZero() {
		f.EndDate = maxDate
	}
	if f.Payment == "" {
		f.Payment = types.SelectorAll
	}
	if f.Weather == "" {
		f.Weather = types.SelectorAll
	}
	if f.DayType == "" {
		f.DayType = types.SelectorAll
	}
	return f
}

func validate(f models.FilterSpec) error {
	v := validator.New()
	if f.Validate(v); !v.Valid() {
		return fmt.Errorf("%w: %v", types.ErrInvalidFilter, v.Errors)
	}
	return nil
}
