// Package outboxrepo persists domain events in the same database as the
// aggregates that produced them. Events are written inside the producing
// transaction and published later by a relay job, so a committed state
// change is never lost to a broker outage.
package outboxrepo

import (
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/core/ports"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting outbox events.
// Seq preserves insertion order across the whole table; Published flips
// once the relay has handed the event to the publisher.
type EventDTO struct {
	Seq           int64     `gorm:"primaryKey;autoIncrement"`
	ID            uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Kind          string
	AppointmentID uuid.UUID `gorm:"type:uuid"`
	OldStatus     string
	NewStatus     string
	DriverID      *uuid.UUID `gorm:"type:uuid"`
	TemplateKey   string
	OccurredAt    time.Time
	Published     bool `gorm:"index"`
	PublishedAt   *time.Time
}

// TableName specifies the database table name for outbox events.
func (EventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(event ports.DomainEvent) EventDTO {
	var driverID *uuid.UUID
	if event.DriverID != nil {
		raw := event.DriverID.Bytes()
		driverID = &raw
	}

	return EventDTO{
		ID:            event.ID.Bytes(),
		Kind:          string(event.Kind),
		AppointmentID: event.AppointmentID.Bytes(),
		OldStatus:     event.OldStatus.String(),
		NewStatus:     event.NewStatus.String(),
		DriverID:      driverID,
		TemplateKey:   event.TemplateKey,
		OccurredAt:    event.OccurredAt,
	}
}

func toDomain(dto EventDTO) (ports.DomainEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.DomainEvent{}, err
	}
	appointmentID, err := kernel.UUIDFromBytes(dto.AppointmentID[:])
	if err != nil {
		return ports.DomainEvent{}, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return ports.DomainEvent{}, driverErr
		}
		driverID = &dID
	}

	return ports.DomainEvent{
		ID:            id,
		Kind:          ports.EventKind(dto.Kind),
		AppointmentID: appointmentID,
		OldStatus:     appointment.Status(dto.OldStatus),
		NewStatus:     appointment.Status(dto.NewStatus),
		DriverID:      driverID,
		TemplateKey:   dto.TemplateKey,
		OccurredAt:    dto.OccurredAt,
	}, nil
}
