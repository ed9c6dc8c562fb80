// Package redis publishes domain events over Redis Pub/Sub. Each appointment
// has its own channel, so realtime consumers subscribe to exactly the
// appointments they display. Delivery is fire-and-forget; durability lives in
// the outbox, not here.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"verimoto/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// eventPayload is the wire shape of a published event.
type eventPayload struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	AppointmentID string    `json:"appointmentId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	DriverID      *string   `json:"driverId,omitempty"`
	TemplateKey   string    `json:"templateKey"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// EventPublisher implements ports.EventPublisher over Redis Pub/Sub.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher creates a publisher from a Redis connection URL
// (e.g. "redis://localhost:6379/0").
func NewEventPublisher(url string) (*EventPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{client: redis.NewClient(opt)}, nil
}

// Publish sends the event to the appointment's channel. A missing subscriber
// is not an error; Pub/Sub has no retained messages.
func (p *EventPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	payload := eventPayload{
		ID:            event.ID.String(),
		Kind:          string(event.Kind),
		AppointmentID: event.AppointmentID.String(),
		OldStatus:     event.OldStatus.String(),
		NewStatus:     event.NewStatus.String(),
		TemplateKey:   event.TemplateKey,
		OccurredAt:    event.OccurredAt,
	}
	if event.DriverID != nil {
		id := event.DriverID.String()
		payload.DriverID = &id
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, channelName(event), data).Err()
}

// Close releases the underlying Redis connection.
func (p *EventPublisher) Close() error {
	return p.client.Close()
}

func channelName(event ports.DomainEvent) string {
	return "appointment:" + event.AppointmentID.String()
}
