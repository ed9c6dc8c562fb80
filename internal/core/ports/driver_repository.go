package ports

import (
	"context"

	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for the driver
// availability ledger. Besides plain aggregate storage it exposes the two
// operations dispatch depends on: candidate lookup around a pickup point
// and the atomic claim that flips a driver from available to busy.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// FindCandidates retrieves dispatchable drivers within radiusMeters of
	// the given point, at most limit of them, nearest first. Dispatchable
	// means online, available, verified, active and with a known location.
	FindCandidates(ctx context.Context, point kernel.GeoPoint, radiusMeters float64, limit int) ([]*driver.Driver, error)

	// Claim atomically marks the driver as busy. It succeeds only if the
	// driver is still available at the moment the statement executes, so
	// two concurrent dispatches can never claim the same driver.
	//
	// Returns driver.ErrDriverAlreadyClaimed (wrapped) when the driver was
	// not available, and errs.ErrObjectNotFound when the driver does not
	// exist.
	Claim(ctx context.Context, id kernel.UUID) error

	// Release marks a previously claimed driver as available again.
	// Releasing a driver who is offline or already available is a no-op.
	Release(ctx context.Context, id kernel.UUID) error
}
