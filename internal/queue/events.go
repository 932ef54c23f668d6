package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const eventsExchange = "cafesync.events"

// EventPublisher pushes order lifecycle events to the events exchange.
// Publishing is best effort: broker failures are logged and the caller
// continues, so a dead broker never blocks an order.
type EventPublisher struct {
	client *Client
	logger *zap.Logger
}

func NewEventPublisher(client *Client, logger *zap.Logger) (*EventPublisher, error) {
	if err := client.EnsureExchange(eventsExchange); err != nil {
		return nil, err
	}
	return &EventPublisher{client: client, logger: logger}, nil
}

type event struct {
	RoutingKey string    `json:"routingKey"`
	EmittedAt  time.Time `json:"emittedAt"`
	Payload    any       `json:"payload"`
}

func (p *EventPublisher) Publish(ctx context.Context, routingKey string, payload any) {
	msg := event{RoutingKey: routingKey, EmittedAt: time.Now().UTC(), Payload: payload}
	if err := p.client.PublishJSON(ctx, eventsExchange, routingKey, msg); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("routingKey", routingKey),
			zap.Error(err),
		)
	}
}
