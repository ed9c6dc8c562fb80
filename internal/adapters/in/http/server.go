// Package http is the inbound HTTP adapter. Handlers stay thin: decode the
// request, build a command or query, map the outcome to a status code.
// Authentication is an external collaborator; actor ids arrive in the
// request already verified.
package http

import (
	"errors"
	"net/http"
	"time"

	"verimoto/internal/core/application/usecases/commands"
	"verimoto/internal/core/application/usecases/queries"
	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createAppointmentHandler    commands.CreateAppointmentCommandHandler
	transitionStatusHandler     commands.TransitionStatusCommandHandler
	cancelAppointmentHandler    commands.CancelAppointmentCommandHandler
	rateAppointmentHandler      commands.RateAppointmentCommandHandler
	assignDriverHandler         commands.AssignDriverCommandHandler
	registerDriverHandler       commands.RegisterDriverCommandHandler
	setDriverOnlineHandler      commands.SetDriverOnlineCommandHandler
	reportDriverLocationHandler commands.ReportDriverLocationCommandHandler

	// Query handlers
	getAppointmentHandler        queries.GetAppointmentQueryHandler
	getActiveAppointmentsHandler queries.GetActiveAppointmentsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createAppointmentHandler commands.CreateAppointmentCommandHandler,
	transitionStatusHandler commands.TransitionStatusCommandHandler,
	cancelAppointmentHandler commands.CancelAppointmentCommandHandler,
	rateAppointmentHandler commands.RateAppointmentCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	registerDriverHandler commands.RegisterDriverCommandHandler,
	setDriverOnlineHandler commands.SetDriverOnlineCommandHandler,
	reportDriverLocationHandler commands.ReportDriverLocationCommandHandler,
	getAppointmentHandler queries.GetAppointmentQueryHandler,
	getActiveAppointmentsHandler queries.GetActiveAppointmentsQueryHandler,
) *Server {
	return &Server{
		createAppointmentHandler:     createAppointmentHandler,
		transitionStatusHandler:      transitionStatusHandler,
		cancelAppointmentHandler:     cancelAppointmentHandler,
		rateAppointmentHandler:       rateAppointmentHandler,
		assignDriverHandler:          assignDriverHandler,
		registerDriverHandler:        registerDriverHandler,
		setDriverOnlineHandler:       setDriverOnlineHandler,
		reportDriverLocationHandler:  reportDriverLocationHandler,
		getAppointmentHandler:        getAppointmentHandler,
		getActiveAppointmentsHandler: getActiveAppointmentsHandler,
	}
}

// RegisterRoutes wires the server's handlers into the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/appointments", s.CreateAppointment)
	api.GET("/appointments", s.GetActiveAppointments)
	api.GET("/appointments/:id", s.GetAppointment)
	api.POST("/appointments/:id/status", s.TransitionStatus)
	api.POST("/appointments/:id/cancel", s.CancelAppointment)
	api.POST("/appointments/:id/rating", s.RateAppointment)
	api.POST("/appointments/:id/assign", s.AssignDriver)

	api.POST("/drivers", s.RegisterDriver)
	api.POST("/drivers/:id/online", s.SetDriverOnline)
	api.POST("/drivers/:id/location", s.ReportDriverLocation)

	e.GET("/health", s.Health)
}

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddressRequest carries one address with its geo point.
type AddressRequest struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ServiceItemRequest carries one additional service item.
type ServiceItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	ClientID             string               `json:"clientId"`
	VehicleID            string               `json:"vehicleId"`
	ScheduledDate        time.Time            `json:"scheduledDate"`
	WindowStart          string               `json:"windowStart"`
	WindowEnd            string               `json:"windowEnd"`
	VerificationRequired bool                 `json:"verificationRequired"`
	Services             []ServiceItemRequest `json:"services"`
	Pickup               AddressRequest       `json:"pickup"`
	Delivery             AddressRequest       `json:"delivery"`
	Notes                string               `json:"notes"`
	PreferredDriverID    *string              `json:"preferredDriverId"`
}

// CreateAppointmentResponse echoes the identity and dispatch outcome.
type CreateAppointmentResponse struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Status   string  `json:"status"`
	DriverID *string `json:"driverId,omitempty"`
}

// CreateAppointment handles POST /api/v1/appointments.
func (s *Server) CreateAppointment(ctx echo.Context) error {
	var req CreateAppointmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequest(ctx, "Invalid clientId: "+err.Error())
	}
	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return badRequest(ctx, "Invalid vehicleId: "+err.Error())
	}

	var preferredDriverID *kernel.UUID
	if req.PreferredDriverID != nil {
		id, idErr := kernel.UUIDFromString(*req.PreferredDriverID)
		if idErr != nil {
			return badRequest(ctx, "Invalid preferredDriverId: "+idErr.Error())
		}
		preferredDriverID = &id
	}

	schedule, err := appointment.NewSchedule(req.ScheduledDate, req.WindowStart, req.WindowEnd)
	if err != nil {
		return badRequest(ctx, "Invalid schedule: "+err.Error())
	}

	pickup, err := addressFromRequest(req.Pickup)
	if err != nil {
		return badRequest(ctx, "Invalid pickup address: "+err.Error())
	}
	delivery, err := addressFromRequest(req.Delivery)
	if err != nil {
		return badRequest(ctx, "Invalid delivery address: "+err.Error())
	}

	services := make([]*appointment.ServiceItem, 0, len(req.Services))
	for _, item := range req.Services {
		serviceItem, itemErr := appointment.NewServiceItem(item.Name, item.Price)
		if itemErr != nil {
			return badRequest(ctx, "Invalid service item: "+itemErr.Error())
		}
		services = append(services, serviceItem)
	}

	cmd, err := commands.NewCreateAppointmentCommand(
		kernel.NewUUID(), clientID, vehicleID, schedule,
		req.VerificationRequired, services, pickup, delivery,
		req.Notes, preferredDriverID)
	if err != nil {
		return badRequest(ctx, "Invalid appointment data: "+err.Error())
	}

	created, err := s.createAppointmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := CreateAppointmentResponse{
		ID:     created.ID().String(),
		Number: created.Number(),
		Status: created.Status().String(),
	}
	if created.DriverID() != nil {
		id := created.DriverID().String()
		resp.DriverID = &id
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// TransitionStatusRequest is the body of POST /appointments/:id/status.
type TransitionStatusRequest struct {
	Target    string `json:"target"`
	Note      string `json:"note"`
	ActorID   string `json:"actorId"`
	ActorKind string `json:"actorKind"`
}

// TransitionStatus handles POST /api/v1/appointments/:id/status.
func (s *Server) TransitionStatus(ctx echo.Context) error {
	appointmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid appointment id")
	}

	var req TransitionStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromRequest(req.ActorID, req.ActorKind)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewTransitionStatusCommand(
		appointmentID, appointment.Status(req.Target), req.Note, actor)
	if err != nil {
		return badRequest(ctx, "Invalid transition request: "+err.Error())
	}

	if err = s.transitionStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelAppointmentRequest is the body of POST /appointments/:id/cancel.
type CancelAppointmentRequest struct {
	Reason    string `json:"reason"`
	ActorID   string `json:"actorId"`
	ActorKind string `json:"actorKind"`
}

// CancelAppointment handles POST /api/v1/appointments/:id/cancel.
func (s *Server) CancelAppointment(ctx echo.Context) error {
	appointmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid appointment id")
	}

	var req CancelAppointmentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromRequest(req.ActorID, req.ActorKind)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewCancelAppointmentCommand(appointmentID, req.Reason, actor)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation request: "+err.Error())
	}

	if err = s.cancelAppointmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateAppointmentRequest is the body of POST /appointments/:id/rating.
type RateAppointmentRequest struct {
	RaterKind string  `json:"raterKind"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment"`
}

// RateAppointment handles POST /api/v1/appointments/:id/rating.
func (s *Server) RateAppointment(ctx echo.Context) error {
	appointmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid appointment id")
	}

	var req RateAppointmentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRateAppointmentCommand(
		appointmentID, appointment.ActorKind(req.RaterKind), req.Score, req.Comment)
	if err != nil {
		return badRequest(ctx, "Invalid rating request: "+err.Error())
	}

	if err = s.rateAppointmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriverRequest is the body of POST /appointments/:id/assign.
type AssignDriverRequest struct {
	DriverID string `json:"driverId"`
	ActorID  string `json:"actorId"`
}

// AssignDriver handles POST /api/v1/appointments/:id/assign.
// Manual assignment is an admin operation.
func (s *Server) AssignDriver(ctx echo.Context) error {
	appointmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid appointment id")
	}

	var req AssignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driverId: "+err.Error())
	}

	actor, err := actorFromRequest(req.ActorID, string(appointment.ActorAdmin))
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewAssignDriverCommand(appointmentID, driverID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid assignment request: "+err.Error())
	}

	if err = s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterDriverRequest is the body of POST /drivers.
type RegisterDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterDriverResponse returns the new driver's identifier.
type RegisterDriverResponse struct {
	ID string `json:"id"`
}

// RegisterDriver handles POST /api/v1/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var req RegisterDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID := kernel.NewUUID()
	cmd, err := commands.NewRegisterDriverCommand(driverID, req.Name, req.Phone)
	if err != nil {
		return badRequest(ctx, "Invalid driver data: "+err.Error())
	}

	if err = s.registerDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterDriverResponse{ID: driverID.String()})
}

// SetDriverOnlineRequest is the body of POST /drivers/:id/online.
type SetDriverOnlineRequest struct {
	Online bool `json:"online"`
}

// SetDriverOnline handles POST /api/v1/drivers/:id/online.
func (s *Server) SetDriverOnline(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	var req SetDriverOnlineRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetDriverOnlineCommand(driverID, req.Online)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err = s.setDriverOnlineHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportDriverLocationRequest is the body of POST /drivers/:id/location.
type ReportDriverLocationRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ReportDriverLocation handles POST /api/v1/drivers/:id/location.
func (s *Server) ReportDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	var req ReportDriverLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(req.Longitude, req.Latitude)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	cmd, err := commands.NewReportDriverLocationCommand(driverID, point, time.Now().UTC())
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err = s.reportDriverLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AppointmentResponse is the read model returned by the GET endpoints.
type AppointmentResponse struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Status    string  `json:"status"`
	ClientID  string  `json:"clientId"`
	VehicleID string  `json:"vehicleId"`
	DriverID  *string `json:"driverId,omitempty"`

	ScheduledDate time.Time `json:"scheduledDate"`
	WindowStart   string    `json:"windowStart"`
	WindowEnd     string    `json:"windowEnd"`

	BasePrice       float64 `json:"basePrice"`
	AdditionalPrice float64 `json:"additionalPrice"`
	Taxes           float64 `json:"taxes"`
	Total           float64 `json:"total"`

	Notes string `json:"notes"`
}

// GetAppointment handles GET /api/v1/appointments/:id.
func (s *Server) GetAppointment(ctx echo.Context) error {
	appointmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid appointment id")
	}

	query, err := queries.NewGetAppointmentQuery(appointmentID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	resp, err := s.getAppointmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, appointmentResponseFromQuery(resp))
}

// ActiveAppointmentResponse is one dispatch-board row.
type ActiveAppointmentResponse struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Status        string    `json:"status"`
	VehicleID     string    `json:"vehicleId"`
	DriverID      *string   `json:"driverId,omitempty"`
	ScheduledDate time.Time `json:"scheduledDate"`
}

// GetActiveAppointments handles GET /api/v1/appointments.
func (s *Server) GetActiveAppointments(ctx echo.Context) error {
	query := queries.NewGetActiveAppointmentsQuery()

	rows, err := s.getActiveAppointmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ActiveAppointmentResponse, len(rows))
	for i, row := range rows {
		response[i] = ActiveAppointmentResponse{
			ID:            row.ID.String(),
			Number:        row.Number,
			Status:        row.Status.String(),
			VehicleID:     row.VehicleID.String(),
			ScheduledDate: row.ScheduledDate,
		}
		if row.DriverID != nil {
			id := row.DriverID.String()
			response[i].DriverID = &id
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func addressFromRequest(req AddressRequest) (appointment.Address, error) {
	point, err := kernel.NewGeoPoint(req.Longitude, req.Latitude)
	if err != nil {
		return appointment.Address{}, err
	}
	return appointment.NewAddress(req.Street, req.City, req.State, req.Zip, point)
}

func actorFromRequest(actorID, actorKind string) (appointment.Actor, error) {
	kind := appointment.ActorKind(actorKind)
	if kind == appointment.ActorSystem {
		return appointment.SystemActor(), nil
	}

	id, err := kernel.UUIDFromString(actorID)
	if err != nil {
		return appointment.Actor{}, err
	}
	return appointment.NewActor(id, kind)
}

func appointmentResponseFromQuery(row queries.GetAppointmentQueryResponse) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              row.ID.String(),
		Number:          row.Number,
		Status:          row.Status.String(),
		ClientID:        row.ClientID.String(),
		VehicleID:       row.VehicleID.String(),
		ScheduledDate:   row.ScheduledDate,
		WindowStart:     row.WindowStart,
		WindowEnd:       row.WindowEnd,
		BasePrice:       row.BasePrice,
		AdditionalPrice: row.AdditionalPrice,
		Taxes:           row.Taxes,
		Total:           row.Total,
		Notes:           row.Notes,
	}
	if row.DriverID != nil {
		id := row.DriverID.String()
		resp.DriverID = &id
	}
	return resp
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application and domain errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, commands.ErrPermissionDenied):
		code = http.StatusForbidden
	case errors.Is(err, appointment.ErrInvalidTransition),
		errors.Is(err, commands.ErrDuplicateActiveAppointment),
		errors.Is(err, commands.ErrDriverNotClaimable),
		errors.Is(err, driver.ErrDriverAlreadyClaimed),
		errors.Is(err, driver.ErrDriverOnActiveAppointment),
		errors.Is(err, appointment.ErrNotRatable),
		errors.Is(err, appointment.ErrAlreadyRated):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
