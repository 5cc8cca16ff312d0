package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// Publisher sends outbox payloads to the order-events topic.
type Publisher struct {
	client *pubsub.Client
	topic  string
}

// NewPublisher creates a Pub/Sub client for the configured project and topic.
func NewPublisher(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}
	if strings.TrimSpace(cfg.OrderEventsTopic) == "" {
		return nil, errors.New("pubsub topic name is required")
	}

	client, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	if logg != nil {
		ctx := logg.WithField(context.Background(), "topic", cfg.OrderEventsTopic)
		logg.Info(ctx, "pubsub publisher initialized")
	}

	return &Publisher{client: client, topic: cfg.OrderEventsTopic}, nil
}

// Publish sends one payload and blocks until the server acknowledges it.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	publisher := p.client.Publisher(p.topic)
	result := publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"event_type": eventType},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing %s: %w", eventType, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
