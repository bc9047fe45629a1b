package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatasetRefresh       = "dataset_refresh"
	ActionDatasetLoad          = "dataset_load"
	ActionDashboardView        = "dashboard_view"
	ActionExternalSourceFailed = "external_source_failed"
)
