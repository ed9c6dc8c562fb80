package commands

import (
	"context"
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/ports"
)

// ErrDriverNotClaimable is returned when the manually named driver is
// offline, unverified or deactivated and therefore cannot be assigned.
var ErrDriverNotClaimable = errors.New("driver does not qualify for assignment")

// AssignDriverCommandHandler performs manual driver assignment. It claims
// the named driver against the ledger, releasing any previously held driver
// first, then runs the same assignment transition automatic dispatch uses.
// The state machine restricts manual assignment to pending appointments.
//
// Example:
//
//	handler := NewAssignDriverCommandHandler(uowFactory)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, driver.ErrDriverAlreadyClaimed):
//	    log.Println("Driver was claimed by a concurrent dispatch")
//	case errors.Is(err, ErrDriverNotClaimable):
//	    log.Println("Driver is not eligible")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
}

// NewAssignDriverCommandHandler creates a handler for manual assignments.
func NewAssignDriverCommandHandler(uowFactory UoWFactory) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the manual assignment command.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
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

	candidate, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if !candidate.IsClaimable() {
		return ErrDriverNotClaimable
	}

	// A pending appointment normally holds no driver; release defensively
	// so a reassignment can never strand a claim.
	if held := aggregate.DriverID(); held != nil && !held.IsEqual(cmd.DriverID()) {
		if err = driverRepo.Release(ctx, *held); err != nil {
			return err
		}
	}

	if err = driverRepo.Claim(ctx, cmd.DriverID()); err != nil {
		return err
	}

	oldStatus := aggregate.Status()
	if err = aggregate.Assign(cmd.DriverID(), "manually assigned", cmd.Actor()); err != nil {
		return err
	}

	if err = appointmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	driverID := cmd.DriverID()
	event := ports.NewDomainEvent(ports.EventAppointmentAssigned, aggregate.ID(),
		oldStatus, appointment.StatusAssigned, &driverID, time.Now())
	if err = outboxRepo.Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
