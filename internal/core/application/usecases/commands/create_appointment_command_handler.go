package commands

import (
	"context"
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/services"
	"verimoto/internal/core/ports"
	"verimoto/internal/pkg/errs"
)

// ErrDuplicateActiveAppointment is returned when the requesting vehicle
// already has an appointment that is not delivered or cancelled.
var ErrDuplicateActiveAppointment = errors.New("vehicle already has an active appointment")

// CreateAppointmentCommandHandler orchestrates appointment creation and
// dispatch. Rejects duplicate active appointments per vehicle, persists the
// new appointment in pending, matches a driver, claims it atomically against
// the availability ledger and records the outcome event in the outbox —
// all in one transaction.
//
// A dispatch that finds no driver is not an error: the appointment stays
// pending for later manual assignment and an unmatched event is recorded.
//
// Example:
//
//	handler := NewCreateAppointmentCommandHandler(uowFactory)
//	created, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrDuplicateActiveAppointment):
//	    log.Println("Vehicle already has an open appointment")
//	case err != nil:
//	    log.Printf("Creation failed: %v", err)
//	default:
//	    log.Printf("Appointment %s is %s", created.Number(), created.Status())
//	}
type CreateAppointmentCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateAppointmentCommandHandler creates a handler for appointment
// creation. Requires a UoWFactory coordinating the appointment repository,
// the driver ledger and the event outbox.
func NewCreateAppointmentCommandHandler(uowFactory UoWFactory) CreateAppointmentCommandHandler {
	return CreateAppointmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the appointment creation command and returns the created
// aggregate, assigned when a driver could be claimed and pending otherwise.
func (h CreateAppointmentCommandHandler) Handle(
	ctx context.Context, cmd CreateAppointmentCommand,
) (*appointment.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	appointmentRepo := uow.AppointmentRepository()
	driverRepo := uow.DriverRepository()
	outboxRepo := uow.OutboxRepository()

	_, err := appointmentRepo.GetActiveByVehicle(ctx, cmd.VehicleID())
	if err == nil {
		return nil, ErrDuplicateActiveAppointment
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	now := time.Now()
	number, err := appointmentRepo.NextNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	createdBy, err := appointment.NewActor(cmd.ClientID(), appointment.ActorClient)
	if err != nil {
		return nil, err
	}

	aggregate, err := appointment.NewAppointment(
		cmd.AppointmentID(),
		number,
		cmd.ClientID(),
		cmd.VehicleID(),
		cmd.Schedule(),
		cmd.VerificationRequired(),
		cmd.Services(),
		cmd.Pickup(),
		cmd.Delivery(),
		cmd.Notes(),
		createdBy,
	)
	if err != nil {
		return nil, err
	}

	if err = appointmentRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	selected, err := h.matchAndClaim(ctx, driverRepo, cmd)
	if err != nil {
		return nil, err
	}

	var event ports.DomainEvent
	if selected != nil {
		if err = aggregate.Assign(selected.ID(), "auto-assigned", appointment.SystemActor()); err != nil {
			return nil, err
		}
		if err = appointmentRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}
		driverID := selected.ID()
		event = ports.NewDomainEvent(ports.EventAppointmentAssigned, aggregate.ID(),
			appointment.StatusPending, appointment.StatusAssigned, &driverID, now)
	} else {
		event = ports.NewDomainEvent(ports.EventAppointmentUnmatched, aggregate.ID(),
			appointment.StatusPending, appointment.StatusPending, nil, now)
	}

	if err = outboxRepo.Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

// matchAndClaim selects a driver for the pickup point and claims it against
// the ledger. A preferred driver who still qualifies short-circuits ranking.
// A lost claim race triggers exactly one retry against the remaining
// candidate pool; a second loss, like an empty pool, yields (nil, nil) and
// the appointment stays pending.
func (h CreateAppointmentCommandHandler) matchAndClaim(
	ctx context.Context, driverRepo ports.DriverRepository, cmd CreateAppointmentCommand,
) (*driver.Driver, error) {
	if preferredID := cmd.PreferredDriverID(); preferredID != nil {
		preferred, err := driverRepo.Get(ctx, *preferredID)
		if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
		if err == nil && preferred.IsClaimable() {
			err = driverRepo.Claim(ctx, preferred.ID())
			if err == nil {
				return preferred, nil
			}
			if !errors.Is(err, driver.ErrDriverAlreadyClaimed) {
				return nil, err
			}
			// Lost the race on the preferred driver; fall back to ranking.
		}
	}

	pickupPoint := cmd.Pickup().Point()
	candidates, err := driverRepo.FindCandidates(ctx, pickupPoint,
		services.DefaultSearchRadiusMeters, services.DefaultCandidateLimit)
	if err != nil {
		return nil, err
	}

	matcher := services.NewDriverMatcher()

	selected, err := matcher.Select(pickupPoint, candidates)
	if errors.Is(err, services.ErrNoDriverAvailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = driverRepo.Claim(ctx, selected.ID())
	if err == nil {
		return selected, nil
	}
	if !errors.Is(err, driver.ErrDriverAlreadyClaimed) {
		return nil, err
	}

	remaining := make([]*driver.Driver, 0, len(candidates)-1)
	for _, candidate := range candidates {
		if !candidate.IsEqual(selected) {
			remaining = append(remaining, candidate)
		}
	}

	second, err := matcher.Select(pickupPoint, remaining)
	if errors.Is(err, services.ErrNoDriverAvailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = driverRepo.Claim(ctx, second.ID())
	if err == nil {
		return second, nil
	}
	if errors.Is(err, driver.ErrDriverAlreadyClaimed) {
		return nil, nil
	}
	return nil, err
}
