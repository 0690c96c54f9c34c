package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"busbenin/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultQueue = "reservation.events"

// RabbitPublisher publishes persistent JSON messages to a durable queue.
// The channel is reopened lazily after a broker disconnect.
type RabbitPublisher struct {
	url   string
	queue string
	log   *logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(url, queue string, log *logger.Logger) (*RabbitPublisher, error) {
	if queue == "" {
		queue = defaultQueue
	}
	p := &RabbitPublisher{url: url, queue: queue, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	log.Info("rabbitmq publisher created", "queue", queue)
	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event *ReservationEvent) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt,
		Headers:      amqp.Table{"reservation_id": event.ReservationID.String()},
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}
	p.log.Info("rabbitmq publisher closed")
	return nil
}

// RabbitConsumer reads the queue with manual acks and reconnects with backoff
type RabbitConsumer struct {
	url      string
	queue    string
	prefetch int
	handler  Handler
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRabbitConsumer(url, queue string, prefetch int, handler Handler, log *logger.Logger) *RabbitConsumer {
	if queue == "" {
		queue = defaultQueue
	}
	if prefetch < 1 {
		prefetch = 10
	}
	return &RabbitConsumer{url: url, queue: queue, prefetch: prefetch, handler: handler, log: log}
}

func (c *RabbitConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		backoff := time.Second
		for ctx.Err() == nil {
			err := c.consume(ctx)
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("rabbitmq consumer disconnected", "error", err, "retry_in", backoff.String())
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}()

	c.log.Info("rabbitmq consumer started", "queue", c.queue)
	return nil
}

func (c *RabbitConsumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("rabbitmq set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.deliver(ctx, d)
		}
	}
}

// deliver acks handled messages and rejects the rest without requeue
func (c *RabbitConsumer) deliver(ctx context.Context, d amqp.Delivery) {
	event, err := ParseReservationEvent(d.Body)
	if err == nil {
		err = c.handler.Handle(ctx, event)
	}
	if err != nil {
		c.log.Error("rabbitmq message rejected", "message_id", d.MessageId, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *RabbitConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	c.log.Info("rabbitmq consumer stopped")
	return nil
}
