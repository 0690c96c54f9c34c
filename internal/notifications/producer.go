package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher hands reservation events to the configured broker
type Publisher interface {
	Publish(ctx context.Context, event *ReservationEvent) error
	Close() error
}

// NewPublisher picks the broker from BROKER_KIND
func NewPublisher(cfg config.BrokerConfig, log *logger.Logger) (Publisher, error) {
	switch strings.ToLower(cfg.Kind) {
	case "kafka":
		pc := DefaultKafkaProducerConfig()
		pc.Brokers = cfg.KafkaBrokers
		pc.Topic = cfg.KafkaTopic
		kafka, err := NewKafkaPublisher(pc, log)
		if err != nil {
			return nil, err
		}
		return kafka, nil
	case "rabbitmq", "amqp":
		rabbit, err := NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue, log)
		if err != nil {
			return nil, err
		}
		return rabbit, nil
	case "", "none", "log":
		return NewLogPublisher(log), nil
	default:
		return nil, fmt.Errorf("unsupported BROKER_KIND %q", cfg.Kind)
	}
}

type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "reservation-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaPublisher(cfg *KafkaProducerConfig, log *logger.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = cfg.RequiredAcks
	sc.Producer.Compression = cfg.CompressionType
	sc.Producer.Retry.Max = cfg.RetryMax
	sc.Producer.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	sc.Producer.Idempotent = cfg.IdempotentWrites
	sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	if cfg.IdempotentWrites {
		sc.Net.MaxOpenRequests = 1
	}
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("kafka publisher created", "brokers", strings.Join(cfg.Brokers, ","), "topic", cfg.Topic)
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *ReservationEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   kafkaHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "event published to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", string(event.Type),
		"reservation_id", event.ReservationID.String(),
	)
	return nil
}

func kafkaHeaders(event *ReservationEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("reservation_id"), Value: []byte(event.ReservationID.String())},
		{Key: []byte("producer"), Value: []byte("busbenin-reservations")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	p.log.Info("kafka publisher closed")
	return nil
}

// LogPublisher only records events; used when no broker is configured
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event *ReservationEvent) error {
	p.log.InfoContext(ctx, "reservation event",
		"type", string(event.Type),
		"reservation_id", event.ReservationID.String(),
		"recipient", event.RecipientEmail,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
