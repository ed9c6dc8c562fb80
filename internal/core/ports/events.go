package ports

import (
	"context"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
)

// EventKind identifies the kind of domain event emitted to the
// notification and realtime collaborators.
type EventKind string

const (
	EventAppointmentAssigned  EventKind = "appointment_assigned"
	EventStatusChanged        EventKind = "status_changed"
	EventAppointmentCancelled EventKind = "appointment_cancelled"
	EventAppointmentUnmatched EventKind = "appointment_unmatched"
)

// DomainEvent describes a committed lifecycle change. The collaborators
// consuming it own channel selection and delivery retries; the core only
// guarantees the event is recorded after the state change is durable.
type DomainEvent struct {
	ID            kernel.UUID
	Kind          EventKind
	AppointmentID kernel.UUID
	OldStatus     appointment.Status
	NewStatus     appointment.Status
	DriverID      *kernel.UUID
	TemplateKey   string
	OccurredAt    time.Time
}

// NewDomainEvent creates an event for the given appointment change.
// TemplateKey is derived from the kind and new status so the notification
// collaborator can pick wording without inspecting payloads.
func NewDomainEvent(kind EventKind, appointmentID kernel.UUID, oldStatus, newStatus appointment.Status,
	driverID *kernel.UUID, occurredAt time.Time) DomainEvent {
	return DomainEvent{
		ID:            kernel.NewUUID(),
		Kind:          kind,
		AppointmentID: appointmentID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		DriverID:      driverID,
		TemplateKey:   templateKey(kind, newStatus),
		OccurredAt:    occurredAt,
	}
}

func templateKey(kind EventKind, newStatus appointment.Status) string {
	switch kind {
	case EventStatusChanged:
		return "appointment." + newStatus.String()
	default:
		return string(kind)
	}
}

// OutboxRepository stores domain events in the same transaction as the
// state change that produced them. A relay publishes them afterwards, so
// emission failures never unwind a committed transition.
type OutboxRepository interface {
	// Add appends events to the outbox inside the current transaction.
	Add(ctx context.Context, events ...DomainEvent) error

	// FetchUnpublished returns up to limit not-yet-published events in
	// insertion order.
	FetchUnpublished(ctx context.Context, limit int) ([]DomainEvent, error)

	// MarkPublished records that the given events were handed to the
	// publisher.
	MarkPublished(ctx context.Context, ids ...kernel.UUID) error
}

// EventPublisher delivers events to the notification/realtime
// collaborators. Delivery is fire-and-forget relative to the lifecycle
// decision; implementations must not be transactional.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
