package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/service/dataset"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
)

type DatasetService interface {
	Status() dataset.Status
	Refresh(ctx context.Context, force bool) (*models.Dataset, error)
}

type Dataset struct {
	service DatasetService
	log     logger.Logger
}

func NewDataset(service DatasetService, log logger.Logger) *Dataset {
	return &Dataset{
		service: service,
		log:     log,
	}
}

// Status godoc
// @Summary      Dataset status
// @Description  Reports the resident dataset version, record counts and expiry
// @Tags         Dataset
// @Produce      json
// @Success      200  {object}  dataset.Status
// @Router       /api/v1/dataset/status [get]
func (h *Dataset) Status(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dataset_status")

	if err := writeJSON(w, http.StatusOK, envelope{"dataset": h.service.Status()}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "the server encountered a problem")
	}
}

// Refresh godoc
// @Summary      Refresh dataset
// @Description  Rebuilds the dataset from the source; force=false allows a warm cache hit
// @Tags         Dataset
// @Produce      json
// @Param        force  query  bool  false  "Bypass the persisted cache (default true)"
// @Success      200  {object}  dataset.Status
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/dataset/refresh [post]
func (h *Dataset) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dataset_refresh")

	// Explicit refresh defaults to a full rebuild.
	force := r.URL.Query().Get("force") != "false"

	ds, err := h.service.Refresh(ctx, force)
	if err != nil {
		h.log.Error(ctx, "refresh failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.log.Info(ctx, "dataset refreshed via http",
		"version", ds.Version,
		"records", len(ds.Trips),
	)
	if err := writeJSON(w, http.StatusOK, envelope{"dataset": h.service.Status()}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "the server encountered a problem")
	}
}
