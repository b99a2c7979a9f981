// internal/messaging/rabbit.go
package messaging

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"babypool/internal/metrics"
	"babypool/internal/model"
	"babypool/internal/site"
)

type RabbitClient struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	buildQueue string
	consumers  []*amqp.Channel
	logger     *zap.Logger

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

func NewRabbitClient(url, buildQueue string, logger *zap.Logger) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	r := &RabbitClient{
		conn:       conn,
		channel:    ch,
		buildQueue: buildQueue,
		logger:     logger,
	}
	if err := r.declare(buildQueue); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func TenantQueueName(tenantID string) string {
	return fmt.Sprintf("tenant_%s_events", tenantID)
}

// declare creates a durable queue with its dead-letter queue.
func (r *RabbitClient) declare(queueName string) error {
	dlqName := queueName + "_dlq"

	_, err := r.channel.QueueDeclare(
		dlqName,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	_, err = r.channel.QueueDeclare(
		queueName,
		true, false, false, false,
		args,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	return nil
}

// DeclareTenantQueue creates the tenant's ledger event queue.
func (r *RabbitClient) DeclareTenantQueue(tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.declare(TenantQueueName(tenantID)); err != nil {
		return err
	}
	r.logger.Info("tenant queues declared", zap.String("tenant", tenantID))
	return nil
}

// DeleteTenantQueue removes the tenant's event queue. Pending messages are
// dropped.
func (r *RabbitClient) DeleteTenantQueue(tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queueName := TenantQueueName(tenantID)
	if _, err := r.channel.QueueDelete(queueName, false, false, false); err != nil {
		return fmt.Errorf("delete queue %s: %w", queueName, err)
	}
	return nil
}

func (r *RabbitClient) publish(queueName string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.channel.Publish(
		"",        // default exchange
		queueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// PublishBundle hands a rendered site to the static build pipeline.
func (r *RabbitClient) PublishBundle(b *site.Bundle) error {
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return r.publish(r.buildQueue, body)
}

func (r *RabbitClient) PublishLedgerEvent(ev model.LedgerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return r.publish(TenantQueueName(ev.TenantID.String()), body)
}

// ConsumeBuilds opens a dedicated channel and starts consuming the build
// queue with manual acks.
func (r *RabbitClient) ConsumeBuilds(consumerTag string, prefetch int) (<-chan amqp.Delivery, error) {
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		r.buildQueue,
		consumerTag,
		false, // autoAck: false to handle manually
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to start consuming %s: %w", r.buildQueue, err)
	}

	r.mu.Lock()
	r.consumers = append(r.consumers, ch)
	r.mu.Unlock()
	return msgs, nil
}

// Close cleans up connection and channels
func (r *RabbitClient) Close() error {
	r.mu.Lock()
	for _, ch := range r.consumers {
		_ = ch.Close()
	}
	r.consumers = nil
	r.mu.Unlock()

	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

// UpdateQueueDepth records how many bundles wait for the build pipeline.
func (r *RabbitClient) UpdateQueueDepth() {
	r.mu.Lock()
	q, err := r.channel.QueueInspect(r.buildQueue)
	r.mu.Unlock()
	if err != nil {
		r.logger.Warn("failed to inspect queue", zap.String("queue", r.buildQueue), zap.Error(err))
		return
	}

	metrics.QueueDepth.WithLabelValues(r.buildQueue).Set(float64(q.Messages))
}
