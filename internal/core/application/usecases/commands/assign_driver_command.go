package commands

import (
	"errors"
	"fmt"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand represents a manual driver assignment by an admin.
// Bypasses ranking: the named driver is claimed directly, provided the
// appointment is still pending and the driver qualifies.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	driverID      kernel.UUID
	actor         appointment.Actor

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a manual assignment command.
// Only admin actors may assign drivers manually.
func NewAssignDriverCommand(
	appointmentID kernel.UUID,
	driverID kernel.UUID,
	actor appointment.Actor,
) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAppointmentID(appointmentID),
		cmd.setDriverID(driverID),
		cmd.setActor(actor),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// AppointmentID returns the appointment to assign.
func (c AssignDriverCommand) AppointmentID() kernel.UUID { return c.appointmentID }

// DriverID returns the driver to claim.
func (c AssignDriverCommand) DriverID() kernel.UUID { return c.driverID }

// Actor returns the admin performing the assignment.
func (c AssignDriverCommand) Actor() appointment.Actor { return c.actor }

func (c *AssignDriverCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}

func (c *AssignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *AssignDriverCommand) setActor(actor appointment.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Kind != appointment.ActorAdmin {
		return errs.NewValueIsInvalidErrorWithCause("actor",
			fmt.Errorf("%q cannot assign drivers manually", string(actor.Kind)))
	}

	c.actor = actor
	return nil
}
