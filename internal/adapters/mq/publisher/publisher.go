// Package publisher forwards confirmed sightings to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/logger"
)

// DefaultTopic receives sighting events unless configured otherwise.
const DefaultTopic = "birdhunt.sightings"

// ErrNoBrokers is returned when no broker address is configured.
var ErrNoBrokers = errors.New("no kafka brokers configured")

// Option configures a KafkaPublisher.
type Option func(*KafkaPublisher)

// WithTopic overrides DefaultTopic.
func WithTopic(topic string) Option {
	return func(p *KafkaPublisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *KafkaPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// KafkaPublisher writes each SightingEvent as a JSON message keyed by user,
// so one player's sightings stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

// NewProducerConfig returns the producer settings used against real brokers.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "birdhunt"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

// New dials brokers and returns a publisher.
func New(brokers []string, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return NewWithProducer(producer, opts...), nil
}

// NewWithProducer wraps an existing producer.
func NewWithProducer(producer sarama.SyncProducer, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{producer: producer, topic: DefaultTopic, logger: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements worker.Notifier.
func (p *KafkaPublisher) Name() string { return "kafka" }

// Topic returns the destination topic.
func (p *KafkaPublisher) Topic() string { return p.topic }

// Notify implements worker.Notifier.
func (p *KafkaPublisher) Notify(ctx context.Context, event model.SightingEvent) error { //nolint:gocritic // hugeParam
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding sighting event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.User),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("publishing sighting %s: %w", event.ID, err)
	}
	p.logger.Debug(ctx, "sighting published",
		logger.String("event_id", event.ID),
		logger.Int("partition", int(partition)),
		logger.Int("offset", int(offset)),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
