package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/taxi-pulse/config"
	"github.com/Temutjin2k/taxi-pulse/internal/adapter/http/handler"
	"github.com/Temutjin2k/taxi-pulse/internal/adapter/http/middleware"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/taxi-pulse/pkg/wsHub"
)

const serviceName = "dashboard"

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health    *handler.Health
	dashboard *handler.Dashboard
	dataset   *handler.Dataset
	ws        *handler.DashboardWS
}

func New(
	cfg config.Config,
	dashboardService handler.DashboardService,
	datasetService handler.DatasetService,
	hub *ws.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if dashboardService == nil || datasetService == nil {
		return nil, errors.New("dashboard and dataset services are required")
	}

	routes := &handlers{
		health:    handler.NewHealth(serviceName, log),
		dashboard: handler.NewDashboard(dashboardService, log),
		dataset:   handler.NewDataset(datasetService, log),
		ws:        handler.NewDashboardWS(hub, dashboardService, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(log),
		addr:   fmt.Sprintf(serverIPAddress, cfg.Server.Host, cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

// WS returns the websocket handler so refresh callbacks can be wired to it.
func (a *API) WS() *handler.DashboardWS {
	return a.routes.ws
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(serviceName)(a.mux))))
}
