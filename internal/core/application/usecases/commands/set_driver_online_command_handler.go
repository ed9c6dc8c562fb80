package commands

import (
	"context"
)

// SetDriverOnlineCommandHandler applies a driver's online/offline toggle
// to the availability ledger.
type SetDriverOnlineCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewSetDriverOnlineCommandHandler creates a handler for the online toggle.
func NewSetDriverOnlineCommandHandler(uowFactory DriverUoWFactory) SetDriverOnlineCommandHandler {
	return SetDriverOnlineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the toggle command. Returns
// driver.ErrDriverOnActiveAppointment when a claimed driver tries to go
// offline mid-appointment.
func (h SetDriverOnlineCommandHandler) Handle(ctx context.Context, cmd SetDriverOnlineCommand) error {
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

	driverRepo := uow.DriverRepository()

	aggregate, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = aggregate.SetOnline(cmd.Online()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
