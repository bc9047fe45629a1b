package docs

// @title           Taxi Pulse Dashboard API
// @version         1.0
// @description     Filtering and aggregation backend for the taxi analytics dashboard. Serves KPIs, summary tables and deterministic trip samples over a cached monthly dataset, with a WebSocket channel for live recomputation.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
