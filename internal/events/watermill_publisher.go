package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillPublisher sends events as JSON messages to one topic
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

type PublisherConfig struct {
	KafkaBrokers []string
	Topic        string
}

// NewWatermillPublisher publishes to kafka when brokers are configured and
// to an in-process channel otherwise
func NewWatermillPublisher(cfg PublisherConfig, logger *slog.Logger) (*WatermillPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)

	var (
		publisher message.Publisher
		err       error
	)
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
	} else {
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	}

	return NewPublisherWith(publisher, cfg.Topic, logger), nil
}

// NewPublisherWith wraps an existing watermill publisher
func NewPublisherWith(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatermillPublisher{publisher: publisher, topic: topic, logger: logger}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Event published", "event_type", event.Type, "event_id", event.ID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
