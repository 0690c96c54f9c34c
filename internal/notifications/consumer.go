package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer feeds broker messages to a Handler until stopped
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewConsumer builds the consumer matching BROKER_KIND; it returns nil when no broker is used
func NewConsumer(cfg config.BrokerConfig, handler Handler, log *logger.Logger) (Consumer, error) {
	switch strings.ToLower(cfg.Kind) {
	case "kafka":
		kc := DefaultKafkaConsumerConfig()
		kc.Brokers = cfg.KafkaBrokers
		kc.Topics = []string{cfg.KafkaTopic}
		if cfg.KafkaGroupID != "" {
			kc.GroupID = cfg.KafkaGroupID
		}
		if cfg.Workers > 0 {
			kc.Workers = cfg.Workers
		}
		kafka, err := NewKafkaConsumer(kc, handler, log)
		if err != nil {
			return nil, err
		}
		return kafka, nil
	case "rabbitmq", "amqp":
		return NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.Workers*5, handler, log), nil
	default:
		return nil, nil
	}
}

type KafkaConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	Workers           int
	SessionTimeoutMs  int
	HeartbeatMs       int
	MaxProcessingTime time.Duration
	OffsetOldest      bool
}

func DefaultKafkaConsumerConfig() *KafkaConsumerConfig {
	return &KafkaConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "busbenin-notifications",
		Topics:            []string{"reservation-events"},
		Workers:           2,
		SessionTimeoutMs:  30000,
		HeartbeatMs:       3000,
		MaxProcessingTime: 5 * time.Minute,
	}
}

type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	config  *KafkaConsumerConfig
	handler Handler
	log     *logger.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewKafkaConsumer(cfg *KafkaConsumerConfig, handler Handler, log *logger.Logger) (*KafkaConsumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	sc.Consumer.Group.Heartbeat.Interval = time.Duration(cfg.HeartbeatMs) * time.Millisecond
	sc.Consumer.MaxProcessingTime = cfg.MaxProcessingTime
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return &KafkaConsumer{group: group, config: cfg, handler: handler, log: log}, nil
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", "error", err)
		}
	}()

	workers := c.config.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.log.Info("kafka consumers started", "workers", workers, "topics", c.config.Topics)
	return nil
}

func (c *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	h := &groupHandler{handler: c.handler, workerID: workerID, log: c.log}
	for {
		if err := c.group.Consume(ctx, c.config.Topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Warn("consume failed", "worker", workerID, "error", err)
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("kafka consumers stopped")
	return nil
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	handler  Handler
	workerID int
	log      *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.process(session.Context(), msg)
			// failed events are logged and committed, never redelivered
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) process(ctx context.Context, msg *sarama.ConsumerMessage) {
	event, err := ParseReservationEvent(msg.Value)
	if err != nil {
		h.log.Error("invalid event payload", "worker", h.workerID, "offset", msg.Offset, "error", err)
		return
	}
	if err := h.handler.Handle(ctx, event); err != nil {
		h.log.Error("event handling failed",
			"worker", h.workerID,
			"type", string(event.Type),
			"reservation_id", event.ReservationID.String(),
			"error", err,
		)
	}
}
