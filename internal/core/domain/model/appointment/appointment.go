package appointment

import (
	"errors"
	"fmt"
	"time"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var (
	// ErrAppointmentIsNotConstructed is returned when an Appointment was not
	// created through NewAppointment or RestoreAppointment.
	ErrAppointmentIsNotConstructed = errors.New(
		"Appointment must be created via NewAppointment or RestoreAppointment constructor")

	// ErrNotRatable is returned when rating an appointment that has not been
	// delivered yet.
	ErrNotRatable = errors.New("appointment can only be rated after delivery")

	// ErrAlreadyRated is returned when a rating of the same kind was already
	// submitted.
	ErrAlreadyRated = errors.New("rating of this kind already submitted")

	// ErrServiceItemNotFound is returned when completing a service item the
	// appointment does not carry.
	ErrServiceItemNotFound = errors.New("service item not found")
)

// Appointment is the aggregate root for a mobile verification appointment.
// It manages the appointment lifecycle from creation through dispatch to
// delivery or cancellation.
//
// Appointment maintains these invariants:
//   - status always equals the last entry of the status history
//   - a driver is held for every status except pending and cancelled
//   - pricing.total = basePrice + sum(services.price) + taxes
//   - all mutations go through validated methods; the aggregate is never
//     deleted - cancellation is a terminal state
type Appointment struct {
	id     kernel.UUID
	number string

	clientID  kernel.UUID
	vehicleID kernel.UUID
	driverID  *kernel.UUID

	schedule             Schedule
	verificationRequired bool
	services             []*ServiceItem

	pickup   Address
	delivery Address
	notes    string

	status  Status
	history []StatusChange

	pricing  Pricing
	timeline Timeline

	cancellation *Cancellation
	clientRating *Rating
	driverRating *Rating

	guard guard.ConstructorGuard
}

// NewAppointment creates a new Appointment in pending status. The status
// history is seeded with the pending entry attributed to the creating actor,
// and pricing is derived from DefaultBasePrice plus the service items.
//
// Parameters:
//   - id: unique identifier
//   - number: human-readable sequence number (e.g. "VER20260042")
//   - clientID, vehicleID: owning client and vehicle
//   - schedule: requested date and pickup window
//   - verificationRequired: the mandatory verification flag
//   - services: additional service items (may be empty)
//   - pickup, delivery: validated addresses
//   - notes: free-text client notes
//   - createdBy: the actor creating the appointment
func NewAppointment(
	id kernel.UUID,
	number string,
	clientID kernel.UUID,
	vehicleID kernel.UUID,
	schedule Schedule,
	verificationRequired bool,
	services []*ServiceItem,
	pickup Address,
	delivery Address,
	notes string,
	createdBy Actor,
) (*Appointment, error) {
	appt := &Appointment{
		verificationRequired: verificationRequired,
		notes:                notes,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		appt.setID(id),
		appt.setNumber(number),
		appt.setClientID(clientID),
		appt.setVehicleID(vehicleID),
		appt.setSchedule(schedule),
		appt.setAddresses(pickup, delivery),
		createdBy.Validate(),
	); err != nil {
		return nil, err
	}

	appt.services = append(appt.services, services...)
	appt.pricing = ComputePricing(DefaultBasePrice, appt.services)

	appt.status = StatusPending
	appt.history = []StatusChange{{
		Status: StatusPending,
		At:     time.Now(),
		Note:   "appointment created",
		Actor:  createdBy,
	}}

	return appt, nil
}

// RestoreAppointment reconstructs an Appointment aggregate from persistent
// storage. Unlike NewAppointment it does not seed the history; the persisted
// state is validated against the aggregate invariants instead.
func RestoreAppointment(
	id kernel.UUID,
	number string,
	clientID kernel.UUID,
	vehicleID kernel.UUID,
	driverID *kernel.UUID,
	schedule Schedule,
	verificationRequired bool,
	services []*ServiceItem,
	pickup Address,
	delivery Address,
	notes string,
	status Status,
	history []StatusChange,
	pricing Pricing,
	timeline Timeline,
	cancellation *Cancellation,
	clientRating *Rating,
	driverRating *Rating,
) (*Appointment, error) {
	appt := &Appointment{
		verificationRequired: verificationRequired,
		notes:                notes,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		appt.setID(id),
		appt.setNumber(number),
		appt.setClientID(clientID),
		appt.setVehicleID(vehicleID),
		appt.setSchedule(schedule),
		appt.setAddresses(pickup, delivery),
		status.Validate(),
		status.ValidateCanHaveDriver(driverID != nil),
	); err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return nil, errs.NewValueIsRequiredError("statusHistory")
	}
	if history[len(history)-1].Status != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("last history entry %s does not match status %s",
				history[len(history)-1].Status, status))
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		idCopy := *driverID
		appt.driverID = &idCopy
	}

	appt.services = append(appt.services, services...)
	appt.status = status
	appt.history = append(appt.history, history...)
	appt.pricing = pricing
	appt.timeline = timeline
	appt.cancellation = cancellation
	appt.clientRating = clientRating
	appt.driverRating = driverRating

	return appt, nil
}

// Validate ensures the Appointment was created through a constructor.
func (a *Appointment) Validate() error {
	if a == nil {
		return ErrAppointmentIsNotConstructed
	}
	return a.guard.Validate(ErrAppointmentIsNotConstructed)
}

// IsEqual compares two appointments by their unique identifiers.
func (a *Appointment) IsEqual(other *Appointment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the appointment's unique identifier.
func (a *Appointment) ID() kernel.UUID { return a.id }

// Number returns the human-readable sequence number.
func (a *Appointment) Number() string { return a.number }

// ClientID returns the requesting client's id.
func (a *Appointment) ClientID() kernel.UUID { return a.clientID }

// VehicleID returns the vehicle's id.
func (a *Appointment) VehicleID() kernel.UUID { return a.vehicleID }

// DriverID returns the assigned driver's id, or nil before assignment.
func (a *Appointment) DriverID() *kernel.UUID {
	if a.driverID == nil {
		return nil
	}
	idCopy := *a.driverID
	return &idCopy
}

// Schedule returns the requested date and pickup window.
func (a *Appointment) Schedule() Schedule { return a.schedule }

// VerificationRequired reports the mandatory verification flag.
func (a *Appointment) VerificationRequired() bool { return a.verificationRequired }

// Services returns the additional service items.
func (a *Appointment) Services() []*ServiceItem {
	out := make([]*ServiceItem, len(a.services))
	copy(out, a.services)
	return out
}

// Pickup returns the pickup address.
func (a *Appointment) Pickup() Address { return a.pickup }

// Delivery returns the delivery address.
func (a *Appointment) Delivery() Address { return a.delivery }

// Notes returns the free-text client notes.
func (a *Appointment) Notes() string { return a.notes }

// Status returns the current lifecycle status.
func (a *Appointment) Status() Status { return a.status }

// History returns the ordered status history. The last entry always matches
// Status().
func (a *Appointment) History() []StatusChange {
	out := make([]StatusChange, len(a.history))
	copy(out, a.history)
	return out
}

// Pricing returns the derived price breakdown.
func (a *Appointment) Pricing() Pricing { return a.pricing }

// Timeline returns the milestone timestamps reached so far.
func (a *Appointment) Timeline() Timeline { return a.timeline }

// Cancellation returns the cancellation record, or nil.
func (a *Appointment) Cancellation() *Cancellation { return a.cancellation }

// ClientRating returns the client-given rating, or nil.
func (a *Appointment) ClientRating() *Rating { return a.clientRating }

// DriverRating returns the driver-given rating, or nil.
func (a *Appointment) DriverRating() *Rating { return a.driverRating }

// IsTerminal reports whether the appointment reached delivered or cancelled.
func (a *Appointment) IsTerminal() bool {
	return a.status.IsTerminal()
}

// TransitionTo moves the appointment to the target status, appending the
// status-history entry and recording the matching timeline milestone.
//
// Cancellation must go through Cancel so the cancellation record is captured;
// requesting StatusCancelled here is rejected as an invalid value.
//
// Returns *InvalidTransitionError (unwrapping to ErrInvalidTransition) if
// the target is not reachable from the current status, including a
// re-request of the current status.
func (a *Appointment) TransitionTo(target Status, note string, actor Actor) error {
	if target == StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("targetStatus",
			errors.New("cancellation must go through Cancel"))
	}
	return a.applyTransition(target, note, actor)
}

// Assign claims the appointment for a driver: records the driver id and
// performs the pending -> assigned transition as one operation. Reassignment
// of a pending appointment that still holds a driver overwrites the held id;
// the caller is responsible for releasing the previous driver.
func (a *Appointment) Assign(driverID kernel.UUID, note string, actor Actor) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if err := a.applyTransition(StatusAssigned, note, actor); err != nil {
		return err
	}

	a.driverID = &driverID
	return nil
}

// Cancel terminates the appointment, recording reason and actor. Legal from
// every state except delivered, cancelled, in_verification and completed
// (per the transition table). The caller must release any held driver.
func (a *Appointment) Cancel(reason string, actor Actor) error {
	if err := a.applyTransition(StatusCancelled, reason, actor); err != nil {
		return err
	}

	a.cancellation = &Cancellation{
		Reason: reason,
		Actor:  actor,
		At:     *a.timeline.CancelledAt,
	}
	return nil
}

// applyTransition is the single place transition legality, history ordering
// and timeline milestones are enforced.
func (a *Appointment) applyTransition(target Status, note string, actor Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	newStatus, err := a.status.TransitionTo(target)
	if err != nil {
		return err
	}

	now := time.Now()
	a.history = append(a.history, StatusChange{
		Status: newStatus,
		At:     now,
		Note:   note,
		Actor:  actor,
	})
	a.status = newStatus
	a.timeline.mark(newStatus, now)

	return nil
}

// Rating score bounds.
const (
	RatingMin = 1.0
	RatingMax = 5.0
)

// RateByClient records the client's one-shot rating of the service.
// Accepted only when the appointment is delivered and no client rating
// exists yet.
func (a *Appointment) RateByClient(score float64, comment string) error {
	rating, err := a.newRating(score, comment, a.clientRating)
	if err != nil {
		return err
	}
	a.clientRating = rating
	return nil
}

// RateByDriver records the driver's one-shot rating of the client, under the
// same acceptance rules as RateByClient.
func (a *Appointment) RateByDriver(score float64, comment string) error {
	rating, err := a.newRating(score, comment, a.driverRating)
	if err != nil {
		return err
	}
	a.driverRating = rating
	return nil
}

func (a *Appointment) newRating(score float64, comment string, existing *Rating) (*Rating, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.status != StatusDelivered {
		return nil, ErrNotRatable
	}
	if existing != nil {
		return nil, ErrAlreadyRated
	}
	if score < RatingMin || score > RatingMax {
		return nil, errs.NewValueIsOutOfRangeError("score", score, RatingMin, RatingMax)
	}

	return &Rating{Score: score, Comment: comment, At: time.Now()}, nil
}

// AddService appends an additional service item and recomputes the pricing.
func (a *Appointment) AddService(item *ServiceItem) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if item == nil {
		return errs.NewValueIsRequiredError("serviceItem")
	}
	if a.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot add services to a %s appointment", a.status))
	}

	a.services = append(a.services, item)
	a.pricing = ComputePricing(a.pricing.BasePrice(), a.services)
	return nil
}

// CompleteService marks the named service item as performed, attaching the
// given evidence. Returns ErrServiceItemNotFound for an unknown name.
func (a *Appointment) CompleteService(name string, evidence ...Evidence) error {
	if err := a.Validate(); err != nil {
		return err
	}

	for _, item := range a.services {
		if item.Name() == name {
			return item.Complete(time.Now(), evidence...)
		}
	}
	return ErrServiceItemNotFound
}

func (a *Appointment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Appointment) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	a.number = number
	return nil
}

func (a *Appointment) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientId", err)
	}
	a.clientID = clientID
	return nil
}

func (a *Appointment) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vehicleId", err)
	}
	a.vehicleID = vehicleID
	return nil
}

func (a *Appointment) setSchedule(schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	a.schedule = schedule
	return nil
}

func (a *Appointment) setAddresses(pickup, delivery Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	if err := delivery.Validate(); err != nil {
		return err
	}
	a.pickup = pickup
	a.delivery = delivery
	return nil
}
