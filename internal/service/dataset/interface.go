package dataset

import (
	"context"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
)

// TripSource loads raw trip rows for one period, already sampled down to
// sampleSize in a source-deterministic way.
type TripSource interface {
	LoadTrips(ctx context.Context, period models.Period, sampleSize int) ([]models.RawTrip, error)
}

// Store persists enriched datasets keyed by version. A warm hit skips
// re-ingestion but must return the exact dataset that was saved.
type Store interface {
	Save(ctx context.Context, ds *models.Dataset) error
	Load(ctx context.Context, version string) (*models.Dataset, error)
}

// Broker publishes refresh events for downstream consumers.
type Broker interface {
	PublishRefresh(ctx context.Context, event models.RefreshEvent) error
}
