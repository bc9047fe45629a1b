package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/taxi-pulse/config"
	"github.com/Temutjin2k/taxi-pulse/internal/adapter/http/server"
	postgresrepo "github.com/Temutjin2k/taxi-pulse/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/taxi-pulse/internal/adapter/rabbit"
	"github.com/Temutjin2k/taxi-pulse/internal/adapter/source/tlc"
	"github.com/Temutjin2k/taxi-pulse/internal/adapter/sqlite"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/internal/service/dataset"
	"github.com/Temutjin2k/taxi-pulse/internal/service/pipeline"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	"github.com/Temutjin2k/taxi-pulse/pkg/postgres"
	"github.com/Temutjin2k/taxi-pulse/pkg/rabbit"
	ws "github.com/Temutjin2k/taxi-pulse/pkg/wsHub"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cache *dataset.Cache
	api   *server.API
	hub   *ws.ConnectionHub

	db    *postgres.PostgreDB // nil unless source mode is postgres
	store *sqlite.Store       // nil unless the persisted cache is enabled
	mq    *rabbit.RabbitMQ    // nil unless event publishing is enabled

	cfg config.Config
	log logger.Logger
}

// NewApplication
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log,
	}

	source, err := app.initSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init trip source: %w", err)
	}

	var store dataset.Store
	if cfg.Cache.Enabled {
		s, err := sqlite.Open(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset cache: %w", err)
		}
		app.store = s
		store = s
	}

	var broker dataset.Broker
	if cfg.RabbitMQ.Enabled {
		mq, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.mq = mq

		b, err := rabbitadapter.NewDatasetBroker(mq, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init dataset broker: %w", err)
		}
		broker = b
	}

	app.cache = dataset.NewCache(
		dataset.Config{
			Period:     models.Period{Year: cfg.Dataset.Year, Month: time.Month(cfg.Dataset.Month)},
			SampleSize: cfg.Dataset.SampleSize,
			TTL:        cfg.Dataset.TTL,
		},
		source,
		store,
		broker,
		dataset.StaticZones{},
		log,
	)

	dashboardService := pipeline.New(app.cache, log)

	app.hub = ws.NewConnHub(log)

	api, err := server.New(cfg, dashboardService, app.cache, app.hub, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}
	app.api = api

	// Live dashboards learn about a new dataset over the websocket.
	app.cache.OnRefreshed(api.WS().BroadcastRefresh)

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Первый датасет загружается до приёма трафика.
	if err := a.cache.Load(ctx); err != nil {
		return fmt.Errorf("failed to load initial dataset: %w", err)
	}

	errCh := make(chan error, 1)
	a.api.Run(ctx, errCh)

	select {
	case err := <-errCh:
		a.log.Error(ctx, "http server failed", err)
		a.close(ctx)
		return err
	case <-ctx.Done():
		a.log.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.api.Stop(shutdownCtx); err != nil {
		a.log.Error(shutdownCtx, "failed to stop http server", err)
	}
	a.close(shutdownCtx)

	a.log.Info(shutdownCtx, "application stopped")
	return nil
}

func (a *App) initSource(ctx context.Context) (dataset.TripSource, error) {
	mode, err := a.cfg.Source.SourceMode()
	if err != nil {
		return nil, err
	}

	switch mode {
	case types.SourceTLC:
		return tlc.New(a.cfg.Source.BaseURL, a.cfg.Source.RawDir, a.cfg.Source.DownloadTimeout, a.log), nil
	case types.SourcePostgres:
		db, err := postgres.New(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.db = db
		return postgresrepo.NewTripRepo(db.Pool), nil
	default:
		return nil, fmt.Errorf("unknown source mode: %s", mode)
	}
}

func (a *App) close(ctx context.Context) {
	a.hub.CloseAll()

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error(ctx, "failed to close dataset cache", err)
		}
	}
	if a.mq != nil {
		if err := a.mq.Close(ctx); err != nil {
			a.log.Error(ctx, "failed to close RabbitMQ connection", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
