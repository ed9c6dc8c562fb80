package commands

import (
	"context"
	"time"

	"verimoto/internal/core/ports"
)

// CancelAppointmentCommandHandler cancels an appointment. The state machine
// decides whether the current status still allows cancellation; any driver
// held for the appointment is released back to the availability ledger
// regardless of how far the lifecycle had progressed.
type CancelAppointmentCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelAppointmentCommandHandler creates a handler for cancellations.
func NewCancelAppointmentCommandHandler(uowFactory UoWFactory) CancelAppointmentCommandHandler {
	return CancelAppointmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelAppointmentCommandHandler) Handle(ctx context.Context, cmd CancelAppointmentCommand) error {
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
	if err = aggregate.Cancel(cmd.Reason(), cmd.Actor()); err != nil {
		return err
	}

	if aggregate.DriverID() != nil {
		if err = driverRepo.Release(ctx, *aggregate.DriverID()); err != nil {
			return err
		}
	}

	if err = appointmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	event := ports.NewDomainEvent(ports.EventAppointmentCancelled, aggregate.ID(),
		oldStatus, aggregate.Status(), aggregate.DriverID(), time.Now())
	if err = outboxRepo.Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
