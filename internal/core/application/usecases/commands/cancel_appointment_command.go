package commands

import (
	"errors"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var ErrCancelAppointmentCommandIsNotConstructed = errors.New(
	"CancelAppointmentCommand must be created via NewCancelAppointmentCommand constructor",
)

// CancelAppointmentCommand represents a request to cancel an appointment.
// Cancellation is terminal and requires a reason; any driver still held for
// the appointment is released back to the availability pool.
type CancelAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	reason        string
	actor         appointment.Actor

	guard guard.ConstructorGuard
}

// NewCancelAppointmentCommand creates a command to cancel an appointment.
// Validates the appointment id, the acting party and that a reason is given.
func NewCancelAppointmentCommand(
	appointmentID kernel.UUID,
	reason string,
	actor appointment.Actor,
) (CancelAppointmentCommand, error) {
	cmd := CancelAppointmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAppointmentID(appointmentID),
		cmd.setReason(reason),
		cmd.setActor(actor),
	); err != nil {
		return CancelAppointmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelAppointmentCommandIsNotConstructed)
}

// AppointmentID returns the appointment to cancel.
func (c CancelAppointmentCommand) AppointmentID() kernel.UUID { return c.appointmentID }

// Reason returns the cancellation reason.
func (c CancelAppointmentCommand) Reason() string { return c.reason }

// Actor returns the party requesting the cancellation.
func (c CancelAppointmentCommand) Actor() appointment.Actor { return c.actor }

func (c *CancelAppointmentCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}

func (c *CancelAppointmentCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}

func (c *CancelAppointmentCommand) setActor(actor appointment.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
