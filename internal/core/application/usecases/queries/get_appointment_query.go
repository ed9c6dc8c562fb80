// Package queries contains read-only operations against the database.
// Query handlers bypass the domain model and read projections directly,
// following the CQRS split: commands mutate aggregates, queries read rows.
package queries

import (
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/guard"
)

var ErrGetAppointmentQueryIsNotConstructed = errors.New(
	"GetAppointmentQuery must be created via NewGetAppointmentQuery constructor",
)

// GetAppointmentQuery retrieves a single appointment by its identifier.
//
// Example:
//
//	query, err := NewGetAppointmentQuery(appointmentID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetAppointmentQueryHandler(db)
//	resp, err := handler.Handle(ctx, query)
type GetAppointmentQuery struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAppointmentQuery creates a query for one appointment.
func NewGetAppointmentQuery(appointmentID kernel.UUID) (GetAppointmentQuery, error) {
	query := GetAppointmentQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setAppointmentID(appointmentID); err != nil {
		return GetAppointmentQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAppointmentQuery) Validate() error {
	return q.guard.Validate(ErrGetAppointmentQueryIsNotConstructed)
}

// AppointmentID returns the requested appointment's identifier.
func (q GetAppointmentQuery) AppointmentID() kernel.UUID { return q.appointmentID }

func (q *GetAppointmentQuery) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	q.appointmentID = appointmentID
	return nil
}

// GetAppointmentQueryResponse is the read model for a single appointment:
// identity, parties, status, schedule and pricing.
type GetAppointmentQueryResponse struct {
	ID       kernel.UUID
	Number   string
	Status   appointment.Status
	ClientID kernel.UUID
	VehicleID kernel.UUID
	DriverID *kernel.UUID

	ScheduledDate time.Time
	WindowStart   string
	WindowEnd     string

	BasePrice       float64
	AdditionalPrice float64
	Taxes           float64
	Total           float64

	Notes string
}
