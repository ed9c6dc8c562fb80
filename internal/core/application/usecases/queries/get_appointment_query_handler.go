package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAppointmentQueryHandler reads a single appointment row.
//
// Example:
//
//	handler := NewGetAppointmentQueryHandler(db)
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown appointment id
//	}
type GetAppointmentQueryHandler struct {
	db *gorm.DB
}

// NewGetAppointmentQueryHandler creates a handler for single-appointment reads.
// Requires a GORM database connection for query execution.
func NewGetAppointmentQueryHandler(db *gorm.DB) GetAppointmentQueryHandler {
	return GetAppointmentQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound (wrapped) when
// the appointment does not exist.
func (h GetAppointmentQueryHandler) Handle(
	ctx context.Context,
	query GetAppointmentQuery,
) (GetAppointmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAppointmentQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			client_id,
			vehicle_id,
			driver_id,
			scheduled_date,
			window_start,
			window_end,
			base_price,
			additional_price,
			taxes,
			total,
			notes
		FROM appointments
		WHERE id = ?
	`, query.AppointmentID().Bytes()).Row()

	var (
		resp          GetAppointmentQueryResponse
		id            uuid.UUID
		clientID      uuid.UUID
		vehicleID     uuid.UUID
		driverID      uuid.NullUUID
		status        string
		scheduledDate time.Time
	)

	err := row.Scan(
		&id,
		&resp.Number,
		&status,
		&clientID,
		&vehicleID,
		&driverID,
		&scheduledDate,
		&resp.WindowStart,
		&resp.WindowEnd,
		&resp.BasePrice,
		&resp.AdditionalPrice,
		&resp.Taxes,
		&resp.Total,
		&resp.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetAppointmentQueryResponse{},
			errs.NewObjectNotFoundError("appointmentID", query.AppointmentID())
	}
	if err != nil {
		return GetAppointmentQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetAppointmentQueryResponse{}, err
	}
	if resp.ClientID, err = kernel.UUIDFromBytes(clientID[:]); err != nil {
		return GetAppointmentQueryResponse{}, err
	}
	if resp.VehicleID, err = kernel.UUIDFromBytes(vehicleID[:]); err != nil {
		return GetAppointmentQueryResponse{}, err
	}
	if driverID.Valid {
		restored, idErr := kernel.UUIDFromBytes(driverID.UUID[:])
		if idErr != nil {
			return GetAppointmentQueryResponse{}, idErr
		}
		resp.DriverID = &restored
	}

	resp.Status = appointment.Status(status)
	resp.ScheduledDate = scheduledDate
	return resp, nil
}
