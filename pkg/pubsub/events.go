package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
)

const (
	AttrEventID       = "event_id"
	AttrEventType     = "event_type"
	AttrAggregateType = "aggregate_type"
	AttrAggregateID   = "aggregate_id"
)

// Message is an already serialized event body plus its routing attributes.
type Message struct {
	EventID       string
	EventType     string
	AggregateType string
	AggregateID   string
	Body          []byte
}

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// EventPublisher sends domain events onto a single topic.
type EventPublisher struct {
	publisher messagePublisher
}

func NewEventPublisher(publisher *pubsub.Publisher) (*EventPublisher, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &EventPublisher{publisher: publisher}, nil
}

// Publish sends msg and blocks until the server acknowledges it, returning the
// server-assigned message id.
func (p *EventPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	eventType := strings.TrimSpace(msg.EventType)
	if eventType == "" {
		return "", errors.New("event type required")
	}
	if len(msg.Body) == 0 {
		return "", fmt.Errorf("%s: empty body", eventType)
	}

	attrs := map[string]string{AttrEventType: eventType}
	if msg.EventID != "" {
		attrs[AttrEventID] = msg.EventID
	}
	if msg.AggregateType != "" {
		attrs[AttrAggregateType] = msg.AggregateType
	}
	if msg.AggregateID != "" {
		attrs[AttrAggregateID] = msg.AggregateID
	}

	res := p.publisher.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: attrs})
	serverID, err := res.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", eventType, err)
	}
	return serverID, nil
}
