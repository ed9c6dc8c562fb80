package commands

import (
	"errors"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

var ErrCreateAppointmentCommandIsNotConstructed = errors.New(
	"CreateAppointmentCommand must be created via NewCreateAppointmentCommand constructor",
)

// CreateAppointmentCommand represents a client request for a new verification
// appointment. Carries everything dispatch needs: the schedule, the pickup and
// delivery addresses, optional additional services and an optional preferred
// driver.
//
// Example:
//
//	cmd, err := NewCreateAppointmentCommand(
//	    kernel.NewUUID(), clientID, vehicleID,
//	    schedule, true, services, pickup, delivery,
//	    "gate code 4821", nil,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid appointment data: %w", err)
//	}
//
//	handler := NewCreateAppointmentCommandHandler(uowFactory, matcher)
//	created, err := handler.Handle(ctx, cmd)
type CreateAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID        kernel.UUID
	clientID             kernel.UUID
	vehicleID            kernel.UUID
	schedule             appointment.Schedule
	verificationRequired bool
	services             []*appointment.ServiceItem
	pickup               appointment.Address
	delivery             appointment.Address
	notes                string
	preferredDriverID    *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateAppointmentCommand creates a command to request a new appointment.
// Validates identifiers, the schedule, both addresses and each service item.
// preferredDriverID may be nil when the client expressed no preference.
func NewCreateAppointmentCommand(
	appointmentID kernel.UUID,
	clientID kernel.UUID,
	vehicleID kernel.UUID,
	schedule appointment.Schedule,
	verificationRequired bool,
	services []*appointment.ServiceItem,
	pickup appointment.Address,
	delivery appointment.Address,
	notes string,
	preferredDriverID *kernel.UUID,
) (CreateAppointmentCommand, error) {
	cmd := CreateAppointmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAppointmentID(appointmentID),
		cmd.setClientID(clientID),
		cmd.setVehicleID(vehicleID),
		cmd.setSchedule(schedule),
		cmd.setAddresses(pickup, delivery),
		cmd.setServices(services),
		cmd.setPreferredDriverID(preferredDriverID),
	); err != nil {
		return CreateAppointmentCommand{}, err
	}

	cmd.verificationRequired = verificationRequired
	cmd.notes = notes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAppointmentCommandIsNotConstructed)
}

// AppointmentID returns the identifier the new appointment will be created with.
func (c CreateAppointmentCommand) AppointmentID() kernel.UUID { return c.appointmentID }

// ClientID returns the requesting client's identifier.
func (c CreateAppointmentCommand) ClientID() kernel.UUID { return c.clientID }

// VehicleID returns the vehicle the appointment is for.
func (c CreateAppointmentCommand) VehicleID() kernel.UUID { return c.vehicleID }

// Schedule returns the requested date and time window.
func (c CreateAppointmentCommand) Schedule() appointment.Schedule { return c.schedule }

// VerificationRequired reports whether the mandatory verification is requested.
func (c CreateAppointmentCommand) VerificationRequired() bool { return c.verificationRequired }

// Services returns the requested additional service items.
func (c CreateAppointmentCommand) Services() []*appointment.ServiceItem {
	return c.services
}

// Pickup returns the pickup address.
func (c CreateAppointmentCommand) Pickup() appointment.Address { return c.pickup }

// Delivery returns the delivery address.
func (c CreateAppointmentCommand) Delivery() appointment.Address { return c.delivery }

// Notes returns free-form client notes.
func (c CreateAppointmentCommand) Notes() string { return c.notes }

// PreferredDriverID returns the client's preferred driver, or nil.
func (c CreateAppointmentCommand) PreferredDriverID() *kernel.UUID { return c.preferredDriverID }

func (c *CreateAppointmentCommand) setAppointmentID(appointmentID kernel.UUID) error {
	if err := appointmentID.Validate(); err != nil {
		return err
	}

	c.appointmentID = appointmentID
	return nil
}

func (c *CreateAppointmentCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}

	c.clientID = clientID
	return nil
}

func (c *CreateAppointmentCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *CreateAppointmentCommand) setSchedule(schedule appointment.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	c.schedule = schedule
	return nil
}

func (c *CreateAppointmentCommand) setAddresses(pickup, delivery appointment.Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	if err := delivery.Validate(); err != nil {
		return err
	}

	c.pickup = pickup
	c.delivery = delivery
	return nil
}

func (c *CreateAppointmentCommand) setServices(services []*appointment.ServiceItem) error {
	for _, item := range services {
		if item == nil {
			return errs.NewValueIsRequiredError("services")
		}
	}

	c.services = services
	return nil
}

func (c *CreateAppointmentCommand) setPreferredDriverID(preferredDriverID *kernel.UUID) error {
	if preferredDriverID == nil {
		return nil
	}
	if err := preferredDriverID.Validate(); err != nil {
		return err
	}

	c.preferredDriverID = preferredDriverID
	return nil
}
