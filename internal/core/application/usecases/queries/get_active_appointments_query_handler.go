package queries

import (
	"context"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveAppointmentsQueryHandler retrieves non-terminal appointments from
// the database, ordered by appointment number for stable board output.
type GetActiveAppointmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveAppointmentsQueryHandler creates a handler for active
// appointment queries. Requires a GORM database connection.
func NewGetActiveAppointmentsQueryHandler(db *gorm.DB) GetActiveAppointmentsQueryHandler {
	return GetActiveAppointmentsQueryHandler{db: db}
}

// Handle executes the query. An empty result is a valid outcome, not an error.
func (h GetActiveAppointmentsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveAppointmentsQuery,
) ([]GetActiveAppointmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	appointments := make([]GetActiveAppointmentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			vehicle_id,
			driver_id,
			scheduled_date
		FROM appointments
		WHERE status NOT IN (?, ?)
		ORDER BY number
	`, appointment.StatusDelivered, appointment.StatusCancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp          GetActiveAppointmentsQueryResponse
			id            uuid.UUID
			vehicleID     uuid.UUID
			driverID      uuid.NullUUID
			status        string
			scheduledDate time.Time
		)

		err = rows.Scan(
			&id,
			&resp.Number,
			&status,
			&vehicleID,
			&driverID,
			&scheduledDate,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.VehicleID, err = kernel.UUIDFromBytes(vehicleID[:]); err != nil {
			return nil, err
		}
		if driverID.Valid {
			restored, idErr := kernel.UUIDFromBytes(driverID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.DriverID = &restored
		}

		resp.Status = appointment.Status(status)
		resp.ScheduledDate = scheduledDate
		appointments = append(appointments, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}
