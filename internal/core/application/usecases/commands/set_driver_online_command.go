package commands

import (
	"errors"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/guard"
)

var ErrSetDriverOnlineCommandIsNotConstructed = errors.New(
	"SetDriverOnlineCommand must be created via NewSetDriverOnlineCommand constructor",
)

// SetDriverOnlineCommand represents a driver's own online/offline toggle.
// Going online makes the driver available for dispatch; going offline is
// rejected while the driver is claimed for an appointment.
type SetDriverOnlineCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	online   bool

	guard guard.ConstructorGuard
}

// NewSetDriverOnlineCommand creates a command to toggle a driver's online flag.
func NewSetDriverOnlineCommand(driverID kernel.UUID, online bool) (SetDriverOnlineCommand, error) {
	cmd := SetDriverOnlineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDriverID(driverID); err != nil {
		return SetDriverOnlineCommand{}, err
	}

	cmd.online = online
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDriverOnlineCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverOnlineCommandIsNotConstructed)
}

// DriverID returns the driver toggling their flag.
func (c SetDriverOnlineCommand) DriverID() kernel.UUID { return c.driverID }

// Online returns the requested flag value.
func (c SetDriverOnlineCommand) Online() bool { return c.online }

func (c *SetDriverOnlineCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
