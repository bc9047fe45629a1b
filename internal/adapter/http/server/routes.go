package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Temutjin2k/taxi-pulse/docs" // swagger docs registration
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)

	// Observability
	a.mux.Handle("GET /metrics", promhttp.Handler())
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Dashboard pipeline
	a.mux.HandleFunc("GET /api/v1/dashboard/view", a.routes.dashboard.View)   // Filtered KPIs + summary tables
	a.mux.HandleFunc("GET /api/v1/dashboard/trips", a.routes.dashboard.Trips) // Deterministic trip sample
	a.mux.HandleFunc("GET /ws/dashboard", a.routes.ws.Handle)                 // Live recompute channel

	// Dataset lifecycle
	a.mux.HandleFunc("GET /api/v1/dataset/status", a.routes.dataset.Status)
	a.mux.HandleFunc("POST /api/v1/dataset/refresh", a.routes.dataset.Refresh)
}
