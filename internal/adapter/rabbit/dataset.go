package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/metrics"
	"github.com/Temutjin2k/taxi-pulse/pkg/rabbit"
	"github.com/Temutjin2k/taxi-pulse/pkg/uuid"
)

const (
	DatasetExchange = "dataset.events"

	keyRefreshed = "dataset.refreshed"
)

// DatasetBroker publishes dataset lifecycle events for downstream consumers
// (report builders, cache warmers).
type DatasetBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewDatasetBroker(client *rabbit.RabbitMQ, log logger.Logger) (*DatasetBroker, error) {
	b := &DatasetBroker{
		client:   client,
		exchange: DatasetExchange,

		l: log,
	}

	err := client.Channel.ExchangeDeclare(
		b.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("dataset broker: declare exchange: %w", err)
	}

	return b, nil
}

// PublishRefresh sends one message per completed refresh. The caller treats
// a publish failure as non-fatal: the dataset itself is already swapped in.
func (b *DatasetBroker) PublishRefresh(ctx context.Context, event models.RefreshEvent) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_dataset_refresh")

	// Проверяем и восстанавливаем соединение
	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		metrics.RecordRabbitMQPublish("dataset", b.exchange, err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal event: %w", err))
	}

	var correlationID string
	if id, err := uuid.New(); err == nil {
		correlationID = id.String()
	}

	err = retry(5, time.Second, func() error {
		return b.client.Channel.PublishWithContext(
			ctx,
			b.exchange,
			keyRefreshed,
			false, // mandatory
			false, // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: correlationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish("dataset", b.exchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
