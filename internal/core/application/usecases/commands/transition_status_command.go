package commands

import (
	"errors"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/guard"
)

var ErrTransitionStatusCommandIsNotConstructed = errors.New(
	"TransitionStatusCommand must be created via NewTransitionStatusCommand constructor",
)

// TransitionStatusCommand represents a request to move an appointment to the
// next lifecycle status. Cancellation has its own command; passing the
// cancelled status here is rejected by the state machine.
//
// Example:
//
//	actor, _ := appointment.NewActor(driverID, appointment.ActorDriver)
//	cmd, err := NewTransitionStatusCommand(appointmentID, appointment.StatusPickedUp, "vehicle loaded", actor)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewTransitionStatusCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type TransitionStatusCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	target        appointment.Status
	note          string
	actor         appointment.Actor

	guard guard.ConstructorGuard
}

// NewTransitionStatusCommand creates a command to transition an appointment.
// Validates the appointment id, the target status and the acting party.
func NewTransitionStatusCommand(
	appointmentID kernel.UUID,
	target appointment.Status,
	note string,
	actor appointment.Actor,
) (TransitionStatusCommand, error) {
	cmd := TransitionStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAppointmentID(appointmentID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionStatusCommand{}, err
	}

	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionStatusCommandIsNotConstructed)
}

// AppointmentID returns the appointment to transition.
func (c TransitionStatusCommand) AppointmentID() kernel.UUID { return c.appointmentID }

// Target returns the requested status.
func (c TransitionStatusCommand) Target() appointment.Status { return c.target }

// Note returns the free-form note recorded with the status change.
func (c TransitionStatusCommand) Note() string { return c.note }

// Actor returns the party requesting the transition.
func (c TransitionStatusCommand) Actor() appointment.Actor { return c.actor }

func (c *TransitionStatusCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}

func (c *TransitionStatusCommand) setTarget(target appointment.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionStatusCommand) setActor(actor appointment.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
