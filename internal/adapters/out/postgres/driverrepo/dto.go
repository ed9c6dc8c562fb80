// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence. The driver row is flat: dispatch filters on the
// flag columns and the claim statement flips availability in place.
package driverrepo

import (
	"time"

	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver records.
type DriverDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string
	Phone string

	Online    bool `gorm:"index"`
	Available bool `gorm:"index"`
	Verified  bool
	Active    bool

	Longitude  *float64
	Latitude   *float64
	LocationAt *time.Time

	Rating      float64
	RatingCount int
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:          aggregate.ID().Bytes(),
		Name:        aggregate.Name(),
		Phone:       aggregate.Phone(),
		Online:      aggregate.Online(),
		Available:   aggregate.Available(),
		Verified:    aggregate.Verified(),
		Active:      aggregate.Active(),
		LocationAt:  aggregate.LocationAt(),
		Rating:      aggregate.Rating(),
		RatingCount: aggregate.RatingCount(),
	}

	if location := aggregate.Location(); location != nil {
		longitude := location.Longitude()
		latitude := location.Latitude()
		dto.Longitude = &longitude
		dto.Latitude = &latitude
	}

	return dto
}

// toDomain converts a database DTO to a driver aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Longitude != nil && dto.Latitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Longitude, *dto.Latitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		dto.Phone,
		dto.Online,
		dto.Available,
		dto.Verified,
		dto.Active,
		location,
		dto.LocationAt,
		dto.Rating,
		dto.RatingCount,
	)
}
