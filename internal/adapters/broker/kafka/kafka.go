// Package kafka adapts kafka-go writers and readers to the bridge's broker
// ports. Connections are process-wide: opened once at startup, closed once
// at shutdown
package kafka

import (
	"context"

	"geulpi/internal/platform/config"
	"geulpi/internal/platform/logger"
	"geulpi/internal/services/bridge/domain"

	kafkago "github.com/segmentio/kafka-go"
)

// Config carries broker addresses and topic names
type Config struct {
	Brokers       []string
	RequestTopic  string
	ResponseTopic string
	ErrorTopic    string
	GroupID       string
}

// FromConfig reads broker settings from the environment
func FromConfig(cfg config.Conf) Config {
	kf := cfg.Prefix("SERVICE_KAFKA_")
	return Config{
		Brokers:       kf.MayCSV("BROKERS", []string{"localhost:9092"}),
		RequestTopic:  kf.MayString("REQUEST_TOPIC", "ml-requests"),
		ResponseTopic: kf.MayString("RESPONSE_TOPIC", "ml-responses"),
		ErrorTopic:    kf.MayString("ERROR_TOPIC", "error-logs"),
		GroupID:       kf.MayString("GROUP_ID", "geulpi-gateway"),
	}
}

// Publisher writes encoded requests to the outbound topic, keyed by
// correlation id so replies for one call stay on one partition
type Publisher struct {
	w *kafkago.Writer
}

// NewPublisher opens the process-wide outbound writer
func NewPublisher(cfg Config) *Publisher {
	return &Publisher{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.RequestTopic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
		},
	}
}

// Publish implements domain.PublisherPort
func (p *Publisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// Close flushes and closes the writer
func (p *Publisher) Close() error { return p.w.Close() }

// NewResponsePublisher opens a writer on the reply topic.
// Only the inference stand-in answers on this side of the channel
func NewResponsePublisher(cfg Config) *Publisher {
	return &Publisher{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.ResponseTopic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
		},
	}
}

// Consumer reads raw records off one topic inside a shared consumer group
type Consumer struct {
	r *kafkago.Reader
}

// NewResponseConsumer opens a reader on the reply topic.
// The group id is shared across all listener workers in a deployment
func NewResponseConsumer(cfg Config) *Consumer {
	return newConsumer(cfg.Brokers, cfg.ResponseTopic, cfg.GroupID)
}

// NewRequestConsumer opens a reader on the outbound topic under its own
// group, used by the inference stand-in
func NewRequestConsumer(cfg Config, group string) *Consumer {
	return newConsumer(cfg.Brokers, cfg.RequestTopic, group)
}

// NewErrorConsumer opens a reader on the remote error-log topic
func NewErrorConsumer(cfg Config) *Consumer {
	return newConsumer(cfg.Brokers, cfg.ErrorTopic, cfg.GroupID+"-errors")
}

func newConsumer(brokers []string, topic, group string) *Consumer {
	return &Consumer{
		r: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  group,
			MinBytes: 1,
			MaxBytes: 10 << 20,
		}),
	}
}

// Fetch implements domain.ConsumerPort, committing offsets as it reads
func (c *Consumer) Fetch(ctx context.Context) (domain.Delivery, error) {
	msg, err := c.r.ReadMessage(ctx)
	if err != nil {
		return domain.Delivery{}, err
	}
	return domain.Delivery{Key: msg.Key, Value: msg.Value}, nil
}

// Close stops the reader
func (c *Consumer) Close() error { return c.r.Close() }

// CloseAll closes any broker handles that are non-nil, logging failures
func CloseAll(pub *Publisher, consumers ...*Consumer) {
	log := logger.Named("kafka")
	if pub != nil {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}
	for _, c := range consumers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("close consumer")
		}
	}
}
