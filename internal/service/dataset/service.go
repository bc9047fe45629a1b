package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/internal/service/pipeline"
	"github.com/Temutjin2k/taxi-pulse/pkg/hasher"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/metrics"
)

const serviceName = "dataset"

// schemaVersion participates in the dataset version key so a change in the
// enrichment schema invalidates persisted caches.
const schemaVersion = "v1"

const versionLen = 12

// Config describes what the cache loads and how long a load stays fresh.
type Config struct {
	Period     models.Period
	SampleSize int
	TTL        time.Duration
}

// Cache owns the current dataset. The resident dataset is immutable; a
// refresh builds a complete replacement and swaps the pointer. A stale
// dataset keeps serving when a refresh fails.
type Cache struct {
	cfg    Config
	source TripSource
	store  Store  // nil disables the persisted cache
	broker Broker // nil disables event publishing
	zones  pipeline.ZoneLookup
	log    logger.Logger

	mu         sync.RWMutex
	current    *models.Dataset
	expiresAt  time.Time
	refreshing bool

	cbMu        sync.Mutex
	onRefreshed []func(models.RefreshEvent)
}

func NewCache(cfg Config, source TripSource, store Store, broker Broker, zones pipeline.ZoneLookup, log logger.Logger) *Cache {
	return &Cache{
		cfg:    cfg,
		source: source,
		store:  store,
		broker: broker,
		zones:  zones,
		log:    log,
	}
}

// Version returns the dataset version key for the configured period,
// sample size and enrichment schema.
func (c *Cache) Version() string {
	key := fmt.Sprintf("%s|%d|%s", c.cfg.Period, c.cfg.SampleSize, schemaVersion)
	return hasher.ShortHash(key, versionLen)
}

// OnRefreshed registers a callback invoked after every successful refresh.
// Callbacks run on the refreshing goroutine and must not block.
func (c *Cache) OnRefreshed(fn func(models.RefreshEvent)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onRefreshed = append(c.onRefreshed, fn)
}

// Load performs the startup load. Unlike later refreshes there is no stale
// dataset to fall back to, so the caller treats an error as fatal.
func (c *Cache) Load(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionDatasetLoad)
	_, err := c.Refresh(ctx, false)
	return err
}

// Snapshot returns the current immutable dataset, lazily refreshing when the
// TTL has expired. On a failed lazy refresh the stale dataset keeps serving.
func (c *Cache) Snapshot(ctx context.Context) (*models.Dataset, error) {
	c.mu.RLock()
	ds := c.current
	expired := ds != nil && !c.expiresAt.IsZero() && time.Now().After(c.expiresAt)
	c.mu.RUnlock()

	if ds == nil {
		return nil, wrap.Error(ctx, types.ErrDatasetNotReady)
	}
	if !expired {
		return ds, nil
	}

	fresh, err := c.Refresh(ctx, false)
	if err != nil {
		// Stale data beats no data. The failure is already logged and counted.
		return ds, nil
	}
	return fresh, nil
}

// Refresh rebuilds the dataset and swaps it in. force skips the persisted
// cache. Only one refresh runs at a time; a concurrent call gets
// ErrRefreshInProgress instead of queueing.
func (c *Cache) Refresh(ctx context.Context, force bool) (*models.Dataset, error) {
	ctx = wrap.WithAction(ctx, types.ActionDatasetRefresh)

	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return nil, wrap.Error(ctx, types.ErrRefreshInProgress)
	}
	c.refreshing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.refreshing = false
		c.mu.Unlock()
	}()

	start := time.Now()
	ds, warm, err := c.build(ctx, force)
	metrics.RecordDatasetRefresh(serviceName, err, time.Since(start))
	if err != nil {
		c.log.Error(ctx, "dataset refresh failed", err, "period", c.cfg.Period.String())
		return nil, wrap.Error(ctx, err)
	}

	c.mu.Lock()
	c.current = ds
	if c.cfg.TTL > 0 {
		c.expiresAt = time.Now().Add(c.cfg.TTL)
	}
	c.mu.Unlock()

	metrics.RecordDatasetSize(serviceName, ds.Version, len(ds.Trips), ds.Dropped.Total())
	c.log.Info(ctx, "dataset refreshed",
		"version", ds.Version,
		"period", ds.Period.String(),
		"records", len(ds.Trips),
		"dropped", ds.Dropped.Total(),
		"warm_cache", warm,
		"elapsed", time.Since(start).String(),
	)

	event := models.RefreshEvent{
		Version:     ds.Version,
		Period:      ds.Period.String(),
		Records:     len(ds.Trips),
		Dropped:     ds.Dropped.Total(),
		Duration:    time.Since(start),
		RefreshedAt: ds.LoadedAt,
	}
	c.notify(ctx, event)

	return ds, nil
}

// Status reports the lifecycle state for the status endpoint.
type Status struct {
	Version   string           `json:"version"`
	Period    string           `json:"period"`
	Records   int              `json:"records"`
	Dropped   models.DropStats `json:"dropped"`
	LoadedAt  time.Time        `json:"loaded_at"`
	ExpiresAt time.Time        `json:"expires_at,omitzero"`
	Ready     bool             `json:"ready"`
}

func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{
		Version: c.Version(),
		Period:  c.cfg.Period.String(),
	}
	if c.current != nil {
		s.Ready = true
		s.Version = c.current.Version
		s.Records = len(c.current.Trips)
		s.Dropped = c.current.Dropped
		s.LoadedAt = c.current.LoadedAt
		s.ExpiresAt = c.expiresAt
	}
	return s
}

// build produces a complete dataset: warm persisted-cache hit when allowed,
// otherwise ingest, enrich and persist.
func (c *Cache) build(ctx context.Context, force bool) (*models.Dataset, bool, error) {
	version := c.Version()

	if !force && c.store != nil {
		ds, err := c.store.Load(ctx, version)
		if err != nil {
			c.log.Warn(ctx, "persisted cache read failed", "error", err.Error())
		} else if ds != nil {
			return ds, true, nil
		}
	}

	raw, err := c.source.LoadTrips(ctx, c.cfg.Period, c.cfg.SampleSize)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", types.ErrSourceUnavailable, err)
	}

	weather := GenerateWeather(c.cfg.Period)
	trips, dropped := pipeline.CleanAndEnrich(raw, weather, c.zones)

	ds := &models.Dataset{
		Version:    version,
		Period:     c.cfg.Period,
		SampleSize: c.cfg.SampleSize,
		Trips:      trips,
		Weather:    weather,
		Dropped:    dropped,
		LoadedAt:   time.Now().UTC(),
	}
	for _, t := range trips {
		if ds.MinDate.IsZero() || t.PickupAt.Before(ds.MinDate) {
			ds.MinDate = t.PickupAt
		}
		if t.PickupAt.After(ds.MaxDate) {
			ds.MaxDate = t.PickupAt
		}
	}

	if c.store != nil {
		if err := c.store.Save(ctx, ds); err != nil {
			// Persisting is an optimization; the in-memory dataset is complete.
			c.log.Warn(ctx, "persisted cache write failed", "error", err.Error())
		}
	}
	return ds, false, nil
}

func (c *Cache) notify(ctx context.Context, event models.RefreshEvent) {
	if c.broker != nil {
		if err := c.broker.PublishRefresh(ctx, event); err != nil {
			c.log.Warn(ctx, "refresh event publish failed", "error", err.Error())
		}
	}

	c.cbMu.Lock()
	callbacks := make([]func(models.RefreshEvent), len(c.onRefreshed))
	copy(callbacks, c.onRefreshed)
	c.cbMu.Unlock()

	for _, fn := range callbacks {
		fn(event)
	}
}
