package driverrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new driver to the database.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
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

// Update saves an existing driver to the database.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	// Select covers every column so false flags and cleared pointers are
	// written too; Updates alone skips zero values.
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a driver by ID.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindCandidates retrieves dispatchable drivers within the radius, nearest
// first. The flag filter runs in SQL; the exact great-circle distance and
// ordering are computed in Go over the (small) surviving set.
func (r *GormDriverRepository) FindCandidates(
	ctx context.Context, point kernel.GeoPoint, radiusMeters float64, limit int) ([]*driver.Driver, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("online AND available AND verified AND active").
		Where("longitude IS NOT NULL AND latitude IS NOT NULL").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	type rankedDriver struct {
		driver   *driver.Driver
		distance float64
	}

	ranked := make([]rankedDriver, 0, len(dtos))
	for _, dto := range dtos {
		candidate, candidateErr := toDomain(dto)
		if candidateErr != nil {
			return nil, candidateErr
		}
		distance, distanceErr := point.DistanceMetersTo(*candidate.Location())
		if distanceErr != nil {
			return nil, distanceErr
		}
		if distance > radiusMeters {
			continue
		}
		ranked = append(ranked, rankedDriver{driver: candidate, distance: distance})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	candidates := make([]*driver.Driver, 0, len(ranked))
	for _, entry := range ranked {
		candidates = append(candidates, entry.driver)
	}

	return candidates, nil
}

// Claim atomically marks the driver as busy. The conditional UPDATE is the
// whole race arbiter: of any number of concurrent claims exactly one sees
// available = true.
func (r *GormDriverRepository) Claim(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND available", id.Bytes()).
		Update("available", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("driver", id.String())
	}

	return fmt.Errorf("claim driver %s: %w", id.String(), driver.ErrDriverAlreadyClaimed)
}

// Release marks a previously claimed driver as available again. Offline or
// already available drivers are left untouched.
func (r *GormDriverRepository) Release(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND online AND NOT available", id.Bytes()).
		Update("available", true).Error
}
