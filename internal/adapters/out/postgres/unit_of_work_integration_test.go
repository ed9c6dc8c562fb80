package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "verimoto/internal/adapters/out/postgres"
	"verimoto/internal/adapters/out/postgres/appointmentrepo"
	"verimoto/internal/adapters/out/postgres/driverrepo"
	"verimoto/internal/adapters/out/postgres/outboxrepo"
	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against a
// real PostgreSQL database. The central property is atomicity: an
// appointment, the driver claim and the outbox events all land together or
// not at all.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&appointmentrepo.AppointmentDTO{},
		&appointmentrepo.CounterDTO{},
		&driverrepo.DriverDTO{},
		&outboxrepo.EventDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE appointments, appointment_counters, drivers, outbox_events").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIsolatedInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.AppointmentRepository())
	suite.NotNil(uow1.DriverRepository())
	suite.NotNil(uow1.OutboxRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "repeated Begin must be a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	appt := suite.createTestAppointment("VER2026000001")
	d := suite.createTestDriver()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.AppointmentRepository().Add(ctx, appt))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))

	event := ports.NewDomainEvent(ports.EventAppointmentUnmatched,
		appt.ID(), appointment.StatusPending, appointment.StatusPending, nil, time.Now().UTC())
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, event))

	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), suite.countRows(&appointmentrepo.AppointmentDTO{}))
	suite.Equal(int64(1), suite.countRows(&driverrepo.DriverDTO{}))
	suite.Equal(int64(1), suite.countRows(&outboxrepo.EventDTO{}))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := context.Background()
	uow := suite.factory.Create()

	appt := suite.createTestAppointment("VER2026000002")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.AppointmentRepository().Add(ctx, appt))

	event := ports.NewDomainEvent(ports.EventAppointmentUnmatched,
		appt.ID(), appointment.StatusPending, appointment.StatusPending, nil, time.Now().UTC())
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, event))

	number, err := uow.AppointmentRepository().NextNumber(ctx, time.Now().UTC())
	suite.Require().NoError(err)
	suite.NotEmpty(number)

	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal(int64(0), suite.countRows(&appointmentrepo.AppointmentDTO{}))
	suite.Equal(int64(0), suite.countRows(&outboxrepo.EventDTO{}))
	suite.Equal(int64(0), suite.countRows(&appointmentrepo.CounterDTO{}),
		"a rolled back creation must not burn the counter")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_WithoutTransaction_ExecuteImmediately() {
	ctx := context.Background()
	uow := suite.factory.Create()

	appt := suite.createTestAppointment("VER2026000003")
	suite.Require().NoError(uow.AppointmentRepository().Add(ctx, appt))

	suite.Equal(int64(1), suite.countRows(&appointmentrepo.AppointmentDTO{}))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutbox_FetchAndMarkPublished() {
	ctx := context.Background()
	uow := suite.factory.Create()
	outbox := uow.OutboxRepository()

	first := ports.NewDomainEvent(ports.EventAppointmentUnmatched,
		kernel.NewUUID(), appointment.StatusPending, appointment.StatusPending, nil, time.Now().UTC())
	driverID := kernel.NewUUID()
	second := ports.NewDomainEvent(ports.EventAppointmentAssigned,
		kernel.NewUUID(), appointment.StatusPending, appointment.StatusAssigned, &driverID, time.Now().UTC())

	suite.Require().NoError(outbox.Add(ctx, first, second))

	unpublished, err := outbox.FetchUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(unpublished, 2)
	suite.Equal(first.ID, unpublished[0].ID, "insertion order must be preserved")
	suite.Equal("appointment_assigned", unpublished[1].TemplateKey)
	suite.Require().NotNil(unpublished[1].DriverID)
	suite.Equal(driverID, *unpublished[1].DriverID)

	suite.Require().NoError(outbox.MarkPublished(ctx, first.ID))

	remaining, err := outbox.FetchUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(remaining, 1)
	suite.Equal(second.ID, remaining[0].ID)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestAppointment(number string) *appointment.Appointment {
	schedule, err := appointment.NewSchedule(
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), "09:00", "12:00")
	suite.Require().NoError(err)

	pickupPoint, err := kernel.NewGeoPoint(-99.1332, 19.4326)
	suite.Require().NoError(err)
	pickup, err := appointment.NewAddress("Av. Reforma 100", "CDMX", "CDMX", "06600", pickupPoint)
	suite.Require().NoError(err)

	deliveryPoint, err := kernel.NewGeoPoint(-99.1700, 19.4100)
	suite.Require().NoError(err)
	delivery, err := appointment.NewAddress("Insurgentes Sur 500", "CDMX", "CDMX", "03100", deliveryPoint)
	suite.Require().NoError(err)

	clientID := kernel.NewUUID()
	createdBy, err := appointment.NewActor(clientID, appointment.ActorClient)
	suite.Require().NoError(err)

	appt, err := appointment.NewAppointment(
		kernel.NewUUID(), number, clientID, kernel.NewUUID(),
		schedule, true, nil, pickup, delivery, "", createdBy)
	suite.Require().NoError(err)

	return appt
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestDriver() *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), "Ana Torres", "+52 55 1234 5678")
	suite.Require().NoError(err)
	return d
}

func (suite *UnitOfWorkIntegrationTestSuite) countRows(model any) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
	return count
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
