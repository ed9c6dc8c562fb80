package commands

import (
	"errors"
	"fmt"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var ErrRateAppointmentCommandIsNotConstructed = errors.New(
	"RateAppointmentCommand must be created via NewRateAppointmentCommand constructor",
)

// RateAppointmentCommand represents a post-delivery rating. Clients rate the
// service, drivers rate the client; each kind is accepted at most once.
type RateAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	raterKind     appointment.ActorKind
	score         float64
	comment       string

	guard guard.ConstructorGuard
}

// NewRateAppointmentCommand creates a rating command. raterKind must be
// ActorClient or ActorDriver; the score range is enforced by the aggregate.
func NewRateAppointmentCommand(
	appointmentID kernel.UUID,
	raterKind appointment.ActorKind,
	score float64,
	comment string,
) (RateAppointmentCommand, error) {
	cmd := RateAppointmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAppointmentID(appointmentID),
		cmd.setRaterKind(raterKind),
	); err != nil {
		return RateAppointmentCommand{}, err
	}

	cmd.score = score
	cmd.comment = comment
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrRateAppointmentCommandIsNotConstructed)
}

// AppointmentID returns the appointment being rated.
func (c RateAppointmentCommand) AppointmentID() kernel.UUID { return c.appointmentID }

// RaterKind returns who is rating: the client or the driver.
func (c RateAppointmentCommand) RaterKind() appointment.ActorKind { return c.raterKind }

// Score returns the rating score.
func (c RateAppointmentCommand) Score() float64 { return c.score }

// Comment returns the optional rating comment.
func (c RateAppointmentCommand) Comment() string { return c.comment }

func (c *RateAppointmentCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}

func (c *RateAppointmentCommand) setRaterKind(raterKind appointment.ActorKind) error {
	if raterKind != appointment.ActorClient && raterKind != appointment.ActorDriver {
		return errs.NewValueIsInvalidErrorWithCause("raterKind",
			fmt.Errorf("%q cannot rate an appointment", string(raterKind)))
	}

	c.raterKind = raterKind
	return nil
}
