package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/store/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// AuditRabbitMQRepository publishes audit entries for committed order
// mutations. Publishing is best effort and runs outside the transaction.
type AuditRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client) *AuditRabbitMQRepository {
	queueName := viper.GetString("rabbitmq.audit.queue")
	if queueName == "" {
		queueName = "store.orders.audit"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// LogOrderEvent publishes one audit entry for a single order mutation.
func (r *AuditRabbitMQRepository) LogOrderEvent(ctx context.Context, action string, o order.Order) error {
	return r.LogOrderEvents(ctx, action, []order.Order{o})
}

// LogOrderEvents publishes audit entries for a batch of order mutations.
func (r *AuditRabbitMQRepository) LogOrderEvents(_ context.Context, action string, orders []order.Order) error {
	auditCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(auditCtx)
	g.SetLimit(3)

	for _, ord := range orders {
		ord := ord
		g.Go(func() error {
			entry, err := json.Marshal(auditlog.Entry{
				EventID:         uuid.NewString(),
				Action:          action,
				OrderID:         ord.ID,
				UserID:          ord.UserID,
				OrderStatus:     ord.Status,
				TotalPriceCents: ord.TotalPriceCents,
				OccurredAt:      time.Now(),
			})
			if err != nil {
				return err
			}

			return r.client.Channel().Publish(
				"",
				r.queue.Name,
				false,
				false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        entry,
				},
			)
		})
	}

	return g.Wait()
}
