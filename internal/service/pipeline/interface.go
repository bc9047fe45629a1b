package pipeline

import (
	"context"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
)

// DatasetProvider hands out the current immutable dataset snapshot.
type DatasetProvider interface {
	Snapshot(ctx context.Context) (*models.Dataset, error)
}
