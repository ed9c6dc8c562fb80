package commands

import (
	"context"

	"verimoto/internal/core/domain/model/appointment"
)

// RateAppointmentCommandHandler records a post-delivery rating. A client
// rating is additionally folded into the assigned driver's running average.
//
// Example:
//
//	handler := NewRateAppointmentCommandHandler(uowFactory)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, appointment.ErrNotRatable):
//	    log.Println("Appointment not delivered yet")
//	case errors.Is(err, appointment.ErrAlreadyRated):
//	    log.Println("Rating of this kind already recorded")
//	case err != nil:
//	    log.Printf("Rating failed: %v", err)
//	}
type RateAppointmentCommandHandler struct {
	uowFactory UoWFactory
}

// NewRateAppointmentCommandHandler creates a handler for rating operations.
func NewRateAppointmentCommandHandler(uowFactory UoWFactory) RateAppointmentCommandHandler {
	return RateAppointmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the rating command.
func (h RateAppointmentCommandHandler) Handle(ctx context.Context, cmd RateAppointmentCommand) error {
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

	aggregate, err := appointmentRepo.Get(ctx, cmd.AppointmentID())
	if err != nil {
		return err
	}

	switch cmd.RaterKind() {
	case appointment.ActorClient:
		if err = aggregate.RateByClient(cmd.Score(), cmd.Comment()); err != nil {
			return err
		}
	case appointment.ActorDriver:
		if err = aggregate.RateByDriver(cmd.Score(), cmd.Comment()); err != nil {
			return err
		}
	}

	if err = appointmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	// The client's score feeds the driver's running average used by
	// matching; a delivered appointment always has a driver.
	if cmd.RaterKind() == appointment.ActorClient && aggregate.DriverID() != nil {
		assignedDriver, err := driverRepo.Get(ctx, *aggregate.DriverID())
		if err != nil {
			return err
		}
		if err = assignedDriver.AddRatingSample(cmd.Score()); err != nil {
			return err
		}
		if err = driverRepo.Update(ctx, assignedDriver); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
