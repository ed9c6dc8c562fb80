package commands

import (
	"errors"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand represents a request to add a driver to the
// availability ledger. New drivers start offline and unverified.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	name     string
	phone    string

	guard guard.ConstructorGuard
}

// NewRegisterDriverCommand creates a command to register a new driver.
// Validates that the driver id is valid and the name is not empty.
func NewRegisterDriverCommand(driverID kernel.UUID, name, phone string) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setName(name),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	cmd.phone = phone
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

// DriverID returns the new driver's identifier.
func (c RegisterDriverCommand) DriverID() kernel.UUID { return c.driverID }

// Name returns the driver's name.
func (c RegisterDriverCommand) Name() string { return c.name }

// Phone returns the driver's phone number.
func (c RegisterDriverCommand) Phone() string { return c.phone }

func (c *RegisterDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}
