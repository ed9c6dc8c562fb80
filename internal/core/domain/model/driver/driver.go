package driver

import (
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var (
	// ErrDriverIsNotConstructed is returned when using an improperly
	// initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")

	// ErrNameIsRequired is returned when creating a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")

	// ErrDriverAlreadyClaimed indicates a lost claim race: the driver was no
	// longer available when the conditional claim executed. Callers must
	// re-query candidates rather than retry blindly.
	ErrDriverAlreadyClaimed = errors.New("driver is already claimed")

	// ErrDriverOnActiveAppointment is returned when a driver tries to go
	// offline while claimed for an appointment.
	ErrDriverOnActiveAppointment = errors.New("driver is on an active appointment")
)

// Driver is the availability record of a verification driver: the
// authoritative flags and location the dispatch engine selects against.
//
// Invariants:
//   - available implies online
//   - available is false from claim until release
type Driver struct {
	id    kernel.UUID
	name  string
	phone string

	online    bool
	available bool
	verified  bool
	active    bool

	location   *kernel.GeoPoint
	locationAt *time.Time

	rating      float64
	ratingCount int

	guard guard.ConstructorGuard
}

// NewDriver creates a new driver record. New drivers start offline,
// unverified and active, with no location and no rating samples; they become
// dispatchable once verified and online.
func NewDriver(id kernel.UUID, name, phone string) (*Driver, error) {
	d := &Driver{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	d.phone = phone
	return d, nil
}

// RestoreDriver reconstructs a driver record from persistent storage.
func RestoreDriver(
	id kernel.UUID,
	name string,
	phone string,
	online bool,
	available bool,
	verified bool,
	active bool,
	location *kernel.GeoPoint,
	locationAt *time.Time,
	rating float64,
	ratingCount int,
) (*Driver, error) {
	d := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	if available && !online {
		return nil, errs.NewValueIsInvalidErrorWithCause("available",
			errors.New("driver cannot be available while offline"))
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		pointCopy := *location
		d.location = &pointCopy
	}

	d.phone = phone
	d.online = online
	d.available = available
	d.verified = verified
	d.active = active
	d.locationAt = locationAt
	d.rating = rating
	d.ratingCount = ratingCount
	return d, nil
}

// Validate ensures the Driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by their unique identifiers.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// Name returns the driver's name.
func (d *Driver) Name() string { return d.name }

// Phone returns the driver's phone number.
func (d *Driver) Phone() string { return d.phone }

// Online reports whether the driver is accepting work.
func (d *Driver) Online() bool { return d.online }

// Available reports whether the driver is free for a new appointment.
func (d *Driver) Available() bool { return d.available }

// Verified reports whether the driver passed back-office verification.
func (d *Driver) Verified() bool { return d.verified }

// Active reports whether the driver account is active.
func (d *Driver) Active() bool { return d.active }

// Location returns the last known location, or nil if never reported.
func (d *Driver) Location() *kernel.GeoPoint {
	if d.location == nil {
		return nil
	}
	pointCopy := *d.location
	return &pointCopy
}

// LocationAt returns when the location was last reported, or nil.
func (d *Driver) LocationAt() *time.Time { return d.locationAt }

// Rating returns the running average rating.
func (d *Driver) Rating() float64 { return d.rating }

// RatingCount returns the number of rating samples received.
func (d *Driver) RatingCount() int { return d.ratingCount }

// IsDispatchable reports whether the driver qualifies for dispatch:
// online, available, verified, active and with a known location.
func (d *Driver) IsDispatchable() bool {
	return d.IsClaimable() && d.location != nil
}

// IsClaimable reports whether the driver qualifies for a direct claim:
// online, available, verified and active. Unlike IsDispatchable a known
// location is not required, so a client-preferred driver can be claimed
// before their first location report.
func (d *Driver) IsClaimable() bool {
	return d.online && d.available && d.verified && d.active
}

// SetOnline toggles the driver's own online flag. Going online makes the
// driver available; going offline is rejected while the driver is claimed
// for an appointment (online but not available).
func (d *Driver) SetOnline(online bool) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if online {
		d.online = true
		d.available = true
		return nil
	}

	if d.online && !d.available {
		return ErrDriverOnActiveAppointment
	}
	d.online = false
	d.available = false
	return nil
}

// Claim marks the driver unavailable for the span of an appointment.
// Returns ErrDriverAlreadyClaimed if the driver is not available. The
// persistence layer performs the same check as one atomic conditional
// update; this method keeps the in-memory aggregate consistent with it.
func (d *Driver) Claim() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.available {
		return ErrDriverAlreadyClaimed
	}
	d.available = false
	return nil
}

// Release returns the driver to the available pool. Releasing an
// already-available driver is a no-op; an offline driver stays offline.
func (d *Driver) Release() {
	if d.online {
		d.available = true
	}
}

// Verify marks the driver as verified by the back office.
func (d *Driver) Verify() {
	d.verified = true
}

// Deactivate disables the driver account for dispatch.
func (d *Driver) Deactivate() {
	d.active = false
	d.online = false
	d.available = false
}

// ReportLocation updates the driver's last known location.
func (d *Driver) ReportLocation(point kernel.GeoPoint, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	d.location = &point
	d.locationAt = &at
	return nil
}

// AddRatingSample folds a new score into the running average:
// newAverage = (oldAverage*oldCount + score) / (oldCount + 1).
func (d *Driver) AddRatingSample(score float64) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if score < appointment.RatingMin || score > appointment.RatingMax {
		return errs.NewValueIsOutOfRangeError("score", score, appointment.RatingMin, appointment.RatingMax)
	}

	d.rating = (d.rating*float64(d.ratingCount) + score) / float64(d.ratingCount+1)
	d.ratingCount++
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
