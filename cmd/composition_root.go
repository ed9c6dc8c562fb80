package cmd

import (
	"log/slog"
	"os"

	"verimoto/internal/adapters/out/postgres"
	"verimoto/internal/adapters/out/postgres/outboxrepo"
	"verimoto/internal/core/application/usecases/commands"
	"verimoto/internal/core/application/usecases/queries"
	"verimoto/internal/core/ports"
	"verimoto/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into the application's command and query
// handlers. Handlers are created per call; the root holds only the shared
// connections.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, publisher ports.EventPublisher) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		logger:     slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func (c *CompositionRoot) CreateCreateAppointmentCommandHandler() commands.CreateAppointmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateAppointmentCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionStatusCommandHandler() commands.TransitionStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelAppointmentCommandHandler() commands.CancelAppointmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelAppointmentCommandHandler(f)
}

func (c *CompositionRoot) CreateRateAppointmentCommandHandler() commands.RateAppointmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRateAppointmentCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateSetDriverOnlineCommandHandler() commands.SetDriverOnlineCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetDriverOnlineCommandHandler(f)
}

func (c *CompositionRoot) CreateReportDriverLocationCommandHandler() commands.ReportDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportDriverLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateGetAppointmentQueryHandler() queries.GetAppointmentQueryHandler {
	return queries.NewGetAppointmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveAppointmentsQueryHandler() queries.GetActiveAppointmentsQueryHandler {
	return queries.NewGetActiveAppointmentsQueryHandler(c.gormDB)
}

// CreateJobManager wires the outbox relay against the main connection; the
// relay reads committed rows only and needs no unit of work.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	outbox := outboxrepo.NewGormOutboxRepository(c.gormDB)
	return jobs.NewJobManager(outbox, c.publisher, c.logger)
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
