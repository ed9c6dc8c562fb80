package queries

import (
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/guard"
)

var ErrGetActiveAppointmentsQueryIsNotConstructed = errors.New(
	"GetActiveAppointmentsQuery must be created via NewGetActiveAppointmentsQuery constructor",
)

// GetActiveAppointmentsQuery retrieves all appointments that are not yet
// delivered or cancelled, for dispatch monitoring and admin intervention.
//
// Example:
//
//	query := NewGetActiveAppointmentsQuery()
//	handler := NewGetActiveAppointmentsQueryHandler(db)
//
//	active, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active appointments: %w", err)
//	}
//	fmt.Printf("%d appointments in flight\n", len(active))
type GetActiveAppointmentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveAppointmentsQuery creates a query for all non-terminal
// appointments. This is a parameterless query.
func NewGetActiveAppointmentsQuery() GetActiveAppointmentsQuery {
	return GetActiveAppointmentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveAppointmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveAppointmentsQueryIsNotConstructed)
}

// GetActiveAppointmentsQueryResponse is the list read model: enough to show
// a dispatch board row without loading the full aggregate.
type GetActiveAppointmentsQueryResponse struct {
	ID            kernel.UUID
	Number        string
	Status        appointment.Status
	VehicleID     kernel.UUID
	DriverID      *kernel.UUID
	ScheduledDate time.Time
}
