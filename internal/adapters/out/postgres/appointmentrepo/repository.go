package appointmentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM.
type GormAppointmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAppointmentRepository creates a new GORM appointment repository.
func NewGormAppointmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAppointmentRepository {
	return &GormAppointmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new appointment to the database.
func (r *GormAppointmentRepository) Add(ctx context.Context, aggregate *appointment.Appointment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing appointment to the database.
func (r *GormAppointmentRepository) Update(ctx context.Context, aggregate *appointment.Appointment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AppointmentDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an appointment by ID.
func (r *GormAppointmentRepository) Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AppointmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("appointment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByVehicle retrieves the vehicle's non-terminal appointment, if any.
func (r *GormAppointmentRepository) GetActiveByVehicle(
	ctx context.Context, vehicleID kernel.UUID) (*appointment.Appointment, error) {
	if err := vehicleID.Validate(); err != nil {
		return nil, err
	}

	var dto AppointmentDTO
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID.Bytes()).
		Where("status NOT IN (?, ?)", appointment.StatusDelivered, appointment.StatusCancelled).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("activeAppointmentForVehicle", vehicleID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// NextNumber allocates the next appointment number for the year of at.
// The counter row is upserted atomically so concurrent creations never
// observe the same sequence value.
func (r *GormAppointmentRepository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	year := at.UTC().Year()

	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO appointment_counters (year, last_seq) VALUES (?, 1)
		 ON CONFLICT (year) DO UPDATE SET last_seq = appointment_counters.last_seq + 1
		 RETURNING last_seq`, year).Scan(&seq).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("VER%d%06d", year, seq), nil
}
