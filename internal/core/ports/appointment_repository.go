// Package ports defines repository interfaces for the appointment domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
)

// AppointmentRepository defines the persistence contract for appointment aggregates.
// Provides methods for storing, retrieving, and querying appointment entities
// with their complete state including services, timeline and history.
type AppointmentRepository interface {
	// Add persists a new appointment aggregate to storage.
	// The appointment must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *appointment.Appointment) error

	// Update persists changes to an existing appointment aggregate.
	// The appointment must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *appointment.Appointment) error

	// Get retrieves an appointment aggregate by its unique identifier.
	// Returns the complete appointment with services, pricing, timeline
	// and status history.
	Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error)

	// GetActiveByVehicle retrieves the non-terminal appointment for a vehicle,
	// if one exists. A vehicle can have at most one appointment that is not
	// delivered or cancelled; this is enforced at creation time.
	//
	// Returns errs.ErrObjectNotFound (wrapped) when the vehicle has no
	// active appointment.
	GetActiveByVehicle(ctx context.Context, vehicleID kernel.UUID) (*appointment.Appointment, error)

	// NextNumber allocates the next human-readable appointment number for
	// the year of the given time, e.g. "VER2026000123". Allocation happens
	// inside the current transaction so a rolled back creation does not
	// leave a gap that ever resurfaces as a duplicate.
	NextNumber(ctx context.Context, at time.Time) (string, error)
}
