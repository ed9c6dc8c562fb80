package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"verimoto/internal/core/application/usecases/commands"
	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/core/ports"
	"verimoto/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatchAppointmentRepository struct{ mock.Mock }

func (m *MockDispatchAppointmentRepository) Add(ctx context.Context, a *appointment.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockDispatchAppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockDispatchAppointmentRepository) Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *MockDispatchAppointmentRepository) GetActiveByVehicle(
	ctx context.Context, vehicleID kernel.UUID,
) (*appointment.Appointment, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *MockDispatchAppointmentRepository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

type MockDispatchDriverRepository struct{ mock.Mock }

func (m *MockDispatchDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDispatchDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDispatchDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDispatchDriverRepository) FindCandidates(
	ctx context.Context, point kernel.GeoPoint, radiusMeters float64, limit int,
) ([]*driver.Driver, error) {
	args := m.Called(ctx, point, radiusMeters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDispatchDriverRepository) Claim(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDispatchDriverRepository) Release(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDispatchOutboxRepository struct{ mock.Mock }

func (m *MockDispatchOutboxRepository) Add(ctx context.Context, events ...ports.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockDispatchOutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]ports.DomainEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.DomainEvent), args.Error(1)
}

func (m *MockDispatchOutboxRepository) MarkPublished(ctx context.Context, ids ...kernel.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockDispatchUoW struct{ mock.Mock }

func (m *MockDispatchUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) AppointmentRepository() ports.AppointmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AppointmentRepository)
}

func (m *MockDispatchUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockDispatchUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func testPickupPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(-99.1332, 19.4326)
	require.NoError(t, err)
	return point
}

func testCreateCommand(t *testing.T, preferredDriverID *kernel.UUID) commands.CreateAppointmentCommand {
	t.Helper()

	schedule, err := appointment.NewSchedule(
		time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC), "09:00", "11:00")
	require.NoError(t, err)

	pickup, err := appointment.NewAddress("12 Reforma", "CDMX", "CDMX", "06600", testPickupPoint(t))
	require.NoError(t, err)

	deliveryPoint, err := kernel.NewGeoPoint(-99.2, 19.5)
	require.NoError(t, err)
	delivery, err := appointment.NewAddress("1 Polanco", "CDMX", "CDMX", "11560", deliveryPoint)
	require.NoError(t, err)

	cmd, err := commands.NewCreateAppointmentCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		schedule, true, nil, pickup, delivery, "", preferredDriverID,
	)
	require.NoError(t, err)
	return cmd
}

// dispatchableDriver builds a driver eligible for matching, located at the
// pickup point with the given rating.
func dispatchableDriver(t *testing.T, rating float64) *driver.Driver {
	t.Helper()

	d, err := driver.NewDriver(kernel.NewUUID(), "Test Driver", "+5215512345678")
	require.NoError(t, err)
	d.Verify()
	require.NoError(t, d.SetOnline(true))
	require.NoError(t, d.ReportLocation(testPickupPoint(t), time.Now()))
	require.NoError(t, d.AddRatingSample(rating))
	return d
}

func TestCreateAppointmentCommandHandler_Handle_AssignsDriver(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)
	candidate := dispatchableDriver(t, 4.8)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000001", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{candidate}, nil).Once(),
		driverRepo.On("Claim", ctx, candidate.ID()).Return(nil).Once(),
		appointmentRepo.On("Update", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, appointment.StatusAssigned, created.Status())
	assert.Equal(t, "VER2026000001", created.Number())
	require.NotNil(t, created.DriverID())
	assert.True(t, created.DriverID().IsEqual(candidate.ID()))

	event := outboxRepo.Calls[0].Arguments[1].([]ports.DomainEvent)[0]
	assert.Equal(t, ports.EventAppointmentAssigned, event.Kind)
	assert.Equal(t, appointment.StatusAssigned, event.NewStatus)

	appointmentRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateAppointmentCommandHandler_Handle_DuplicateActive(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	existing := &appointment.Appointment{}

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDuplicateActiveAppointment)
	appointmentRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateAppointmentCommandHandler_Handle_NoDriverStaysPending(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000002", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{}, nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, created.Status())
	assert.Nil(t, created.DriverID())

	event := outboxRepo.Calls[0].Arguments[1].([]ports.DomainEvent)[0]
	assert.Equal(t, ports.EventAppointmentUnmatched, event.Kind)
}

func TestCreateAppointmentCommandHandler_Handle_ClaimRaceRetriesOnce(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)

	// best loses the claim race; runner-up gets the appointment.
	best := dispatchableDriver(t, 5.0)
	runnerUp := dispatchableDriver(t, 4.0)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000003", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{best, runnerUp}, nil).Once(),
		driverRepo.On("Claim", ctx, best.ID()).Return(driver.ErrDriverAlreadyClaimed).Once(),
		driverRepo.On("Claim", ctx, runnerUp.ID()).Return(nil).Once(),
		appointmentRepo.On("Update", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, appointment.StatusAssigned, created.Status())
	require.NotNil(t, created.DriverID())
	assert.True(t, created.DriverID().IsEqual(runnerUp.ID()))
	driverRepo.AssertExpectations(t)
}

func TestCreateAppointmentCommandHandler_Handle_SecondClaimRaceStaysPending(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)

	best := dispatchableDriver(t, 5.0)
	runnerUp := dispatchableDriver(t, 4.0)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000004", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{best, runnerUp}, nil).Once(),
		driverRepo.On("Claim", ctx, best.ID()).Return(driver.ErrDriverAlreadyClaimed).Once(),
		driverRepo.On("Claim", ctx, runnerUp.ID()).Return(driver.ErrDriverAlreadyClaimed).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, created.Status())
	assert.Nil(t, created.DriverID())

	event := outboxRepo.Calls[0].Arguments[1].([]ports.DomainEvent)[0]
	assert.Equal(t, ports.EventAppointmentUnmatched, event.Kind)
}

func TestCreateAppointmentCommandHandler_Handle_PreferredDriverShortCircuits(t *testing.T) {
	ctx := t.Context()
	preferred := dispatchableDriver(t, 3.2)
	preferredID := preferred.ID()
	cmd := testCreateCommand(t, &preferredID)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000005", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("Get", ctx, preferredID).Return(preferred, nil).Once(),
		driverRepo.On("Claim", ctx, preferredID).Return(nil).Once(),
		appointmentRepo.On("Update", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created.DriverID())
	assert.True(t, created.DriverID().IsEqual(preferredID))
	driverRepo.AssertNotCalled(t, "FindCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAppointmentCommandHandler_Handle_PreferredDriverOfflineFallsBack(t *testing.T) {
	ctx := t.Context()
	preferred := dispatchableDriver(t, 4.9)
	require.NoError(t, preferred.SetOnline(false))
	preferredID := preferred.ID()
	cmd := testCreateCommand(t, &preferredID)

	fallback := dispatchableDriver(t, 4.1)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000006", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("Get", ctx, preferredID).Return(preferred, nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{fallback}, nil).Once(),
		driverRepo.On("Claim", ctx, fallback.ID()).Return(nil).Once(),
		appointmentRepo.On("Update", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created.DriverID())
	assert.True(t, created.DriverID().IsEqual(fallback.ID()))
}

func TestCreateAppointmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateAppointmentCommand{} // not constructed properly

	factory := new(MockDispatchUoWFactory)
	handler := commands.NewCreateAppointmentCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateAppointmentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateAppointmentCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateCommand(t, nil)

	appointmentRepo := new(MockDispatchAppointmentRepository)
	driverRepo := new(MockDispatchDriverRepository)
	outboxRepo := new(MockDispatchOutboxRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AppointmentRepository").Return(appointmentRepo).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		appointmentRepo.On("GetActiveByVehicle", ctx, cmd.VehicleID()).
			Return(nil, errs.ErrObjectNotFound).Once(),
		appointmentRepo.On("NextNumber", ctx, mock.AnythingOfType("time.Time")).
			Return("VER2026000007", nil).Once(),
		appointmentRepo.On("Add", ctx, mock.AnythingOfType("*appointment.Appointment")).Return(nil).Once(),
		driverRepo.On("FindCandidates", ctx, cmd.Pickup().Point(), 20000.0, 5).
			Return([]*driver.Driver{}, nil).Once(),
		outboxRepo.On("Add", ctx, mock.AnythingOfType("[]ports.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAppointmentCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "commit error")
}
