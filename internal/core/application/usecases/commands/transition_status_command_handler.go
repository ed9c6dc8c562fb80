package commands

import (
	"context"
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/ports"
)

// ErrPermissionDenied is returned when the acting party is not related to
// the appointment the way their kind requires: a driver acting on an
// appointment not assigned to them, or a client on someone else's
// appointment. Admin and system actors are not restricted here.
var ErrPermissionDenied = errors.New("actor is not permitted to modify this appointment")

// TransitionStatusCommandHandler advances an appointment through its
// lifecycle. Validates the actor's relationship to the appointment, applies
// the transition through the state machine, releases the driver back to the
// availability ledger on delivery and records a status-changed event in the
// outbox, all in one transaction.
//
// Example:
//
//	handler := NewTransitionStatusCommandHandler(uowFactory)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, appointment.ErrInvalidTransition):
//	    log.Println("Illegal state change")
//	case errors.Is(err, ErrPermissionDenied):
//	    log.Println("Actor not related to this appointment")
//	case err != nil:
//	    log.Printf("Transition failed: %v", err)
//	}
type TransitionStatusCommandHandler struct {
	uowFactory UoWFactory
}

// NewTransitionStatusCommandHandler creates a handler for lifecycle
// transitions. Requires a UoWFactory coordinating the appointment
// repository, the driver ledger and the event outbox.
func NewTransitionStatusCommandHandler(uowFactory UoWFactory) TransitionStatusCommandHandler {
	return TransitionStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command.
func (h TransitionStatusCommandHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	appointmentRepo := uow.AppointmentRepository()
	driverRepo := uow.DriverRepository()
	outboxRepo := uow.OutboxRepository()

	aggregate, err := appointmentRepo.Get(ctx, cmd.AppointmentID())
	if err != nil {
		return err
	}

	if err = validateActorRelationship(aggregate, cmd.Actor()); err != nil {
		return err
	}

	oldStatus := aggregate.Status()
	if err = aggregate.TransitionTo(cmd.Target(), cmd.Note(), cmd.Actor()); err != nil {
		return err
	}

	if cmd.Target() == appointment.StatusDelivered && aggregate.DriverID() != nil {
		if err = driverRepo.Release(ctx, *aggregate.DriverID()); err != nil {
			return err
		}
	}

	if err = appointmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	event := ports.NewDomainEvent(ports.EventStatusChanged, aggregate.ID(),
		oldStatus, aggregate.Status(), aggregate.DriverID(), time.Now())
	if err = outboxRepo.Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// validateActorRelationship rejects drivers acting on appointments not
// assigned to them and clients acting on appointments they did not request.
func validateActorRelationship(aggregate *appointment.Appointment, actor appointment.Actor) error {
	switch actor.Kind {
	case appointment.ActorDriver:
		if aggregate.DriverID() == nil || !aggregate.DriverID().IsEqual(actor.ID) {
			return ErrPermissionDenied
		}
	case appointment.ActorClient:
		if !aggregate.ClientID().IsEqual(actor.ID) {
			return ErrPermissionDenied
		}
	case appointment.ActorAdmin, appointment.ActorSystem:
	}
	return nil
}
