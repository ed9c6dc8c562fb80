package appointment

import (
	"errors"
	"fmt"

	"verimoto/internal/pkg/errs"
)

// Status represents the lifecycle state of an appointment.
// It implements a state machine with statically defined transitions to
// ensure appointments follow the correct business workflow.
//
// State transitions:
//
//	pending ──> assigned ──> driver_enroute ──> picked_up ──> in_verification ──> completed ──> delivered
//	   │            │               │               │                │
//	   └────────────┴───────────────┴───────────────┴────────────────┘
//	                          (cancellable)
//
// delivered and cancelled are terminal; in_verification and completed can no
// longer be cancelled because the physical inspection is already underway.
type Status string

const (
	// StatusPending is the initial status: the appointment is waiting for a
	// driver to be dispatched.
	StatusPending Status = "pending"

	// StatusAssigned indicates a driver has been claimed for the appointment.
	StatusAssigned Status = "assigned"

	// StatusDriverEnroute indicates the driver is on the way to the pickup
	// address.
	StatusDriverEnroute Status = "driver_enroute"

	// StatusPickedUp indicates the driver has collected the vehicle.
	StatusPickedUp Status = "picked_up"

	// StatusInVerification indicates the verification inspection has started.
	StatusInVerification Status = "in_verification"

	// StatusCompleted indicates the verification inspection has finished.
	StatusCompleted Status = "completed"

	// StatusDelivered indicates the vehicle has been returned to the client.
	// Terminal.
	StatusDelivered Status = "delivered"

	// StatusCancelled indicates the appointment was cancelled. Terminal.
	StatusCancelled Status = "cancelled"
)

// ErrInvalidTransition is the sentinel for illegal status transitions.
// Use errors.Is to classify; the concrete error carries the from/to pair.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError reports an attempted transition that is not present
// in the adjacency table, including a same-status re-request.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// allowedTransitions is the statically-defined adjacency table checked on
// every transition call. There is no self-loop anywhere: re-requesting the
// current status is rejected so caller bugs surface early.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:        {StatusAssigned, StatusCancelled},
		StatusAssigned:       {StatusDriverEnroute, StatusCancelled},
		StatusDriverEnroute:  {StatusPickedUp, StatusCancelled},
		StatusPickedUp:       {StatusInVerification, StatusCancelled},
		StatusInVerification: {StatusCompleted},
		StatusCompleted:      {StatusDelivered},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
// Used to reject raw values arriving from persistence or the API layer.
func (s Status) Validate() error {
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the wire representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether target is in the allowed set for s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs the transition from s to target.
//
// Returns:
//   - (target, nil) on a legal transition
//   - ("", *InvalidTransitionError) otherwise, including target == s
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if !s.CanTransitionTo(target) {
		return "", &InvalidTransitionError{From: s, To: target}
	}
	return target, nil
}

// ValidateCanHaveDriver validates the consistency between status and driver
// assignment: every status except pending and cancelled requires a driver.
// A pending or cancelled appointment may hold a driver transiently (claim
// made, assignment not yet progressed, or cancellation after assignment).
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if !hasDriver && s != StatusPending && s != StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s requires an assigned driver", s))
	}
	return nil
}
