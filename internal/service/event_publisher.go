package service

import (
	"context"

	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/nats"
)

// IEventPublisher emits domain events for external consumers. Publishing is
// best effort: a broker outage never fails the request that raised the event.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type natsEventPublisher struct {
	publisher *nats.Publisher
	logger    logger.ILogger
}

func NewNatsEventPublisher(publisher *nats.Publisher, log logger.ILogger) IEventPublisher {
	return &natsEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

func (p *natsEventPublisher) Publish(ctx context.Context, event events.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("events", "Failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}

// NoopEventPublisher discards events. Used when NATS is not configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event events.Event) {}
