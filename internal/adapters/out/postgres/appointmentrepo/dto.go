// Package appointmentrepo provides data transfer objects and mapping functions
// for appointment persistence. It implements the repository pattern for the
// appointment aggregate, handling the conversion between domain entities and
// their database representation. Value-heavy parts of the aggregate (services,
// status history, timeline, ratings) are stored as jsonb documents on the row.
package appointmentrepo

import (
	"time"

	"verimoto/internal/core/domain/model/appointment"
	"verimoto/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AppointmentDTO represents the database structure for persisting appointment
// aggregates. Scalar columns carry what queries filter on (status, vehicle,
// driver); the rest of the aggregate travels in jsonb documents.
type AppointmentDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number    string     `gorm:"uniqueIndex"`
	ClientID  uuid.UUID  `gorm:"type:uuid;index"`
	VehicleID uuid.UUID  `gorm:"type:uuid;index"`
	DriverID  *uuid.UUID `gorm:"type:uuid;index"`
	Status    string     `gorm:"index"`

	ScheduledDate time.Time
	WindowStart   string
	WindowEnd     string

	VerificationRequired bool
	Notes                string

	Pickup   AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`

	BasePrice       float64
	AdditionalPrice float64
	Taxes           float64
	Total           float64

	Services     []ServiceItemDTO  `gorm:"serializer:json;type:jsonb"`
	History      []StatusChangeDTO `gorm:"serializer:json;type:jsonb"`
	Timeline     TimelineDTO       `gorm:"serializer:json;type:jsonb"`
	Cancellation *CancellationDTO  `gorm:"serializer:json;type:jsonb"`
	ClientRating *RatingDTO        `gorm:"serializer:json;type:jsonb"`
	DriverRating *RatingDTO        `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for appointment entities.
func (AppointmentDTO) TableName() string {
	return "appointments"
}

// CounterDTO backs the per-year appointment number sequence.
type CounterDTO struct {
	Year    int `gorm:"primaryKey"`
	LastSeq int64
}

// TableName specifies the database table name for number counters.
func (CounterDTO) TableName() string {
	return "appointment_counters"
}

// AddressDTO represents an embedded pickup or delivery address.
type AddressDTO struct {
	Street    string
	City      string
	State     string
	Zip       string
	Longitude float64
	Latitude  float64
}

// ServiceItemDTO is the jsonb shape of one additional service item.
type ServiceItemDTO struct {
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	Completed   bool          `json:"completed"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Evidence    []EvidenceDTO `json:"evidence,omitempty"`
}

// EvidenceDTO is the jsonb shape of one evidence record.
type EvidenceDTO struct {
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

// StatusChangeDTO is the jsonb shape of one status-history entry.
// ActorID is nil for system actors.
type StatusChangeDTO struct {
	Status    string     `json:"status"`
	At        time.Time  `json:"at"`
	Note      string     `json:"note,omitempty"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	ActorKind string     `json:"actorKind"`
}

// TimelineDTO is the jsonb shape of the milestone timeline.
type TimelineDTO struct {
	AssignedAt              *time.Time `json:"assignedAt,omitempty"`
	PickedUpAt              *time.Time `json:"pickedUpAt,omitempty"`
	VerificationStartedAt   *time.Time `json:"verificationStartedAt,omitempty"`
	VerificationCompletedAt *time.Time `json:"verificationCompletedAt,omitempty"`
	DeliveredAt             *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt             *time.Time `json:"cancelledAt,omitempty"`
	ActualDurationMinutes   *int       `json:"actualDurationMinutes,omitempty"`
}

// CancellationDTO is the jsonb shape of the cancellation record.
type CancellationDTO struct {
	Reason    string     `json:"reason"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	ActorKind string     `json:"actorKind"`
	At        time.Time  `json:"at"`
}

// RatingDTO is the jsonb shape of a one-shot rating.
type RatingDTO struct {
	Score   float64   `json:"score"`
	Comment string    `json:"comment,omitempty"`
	At      time.Time `json:"at"`
}

func actorToDTO(actor appointment.Actor) (*uuid.UUID, string) {
	if actor.Kind == appointment.ActorSystem {
		return nil, string(actor.Kind)
	}
	raw := actor.ID.Bytes()
	return &raw, string(actor.Kind)
}

func actorFromDTO(actorID *uuid.UUID, actorKind string) (appointment.Actor, error) {
	actor := appointment.Actor{Kind: appointment.ActorKind(actorKind)}
	if actorID != nil {
		id, err := kernel.UUIDFromBytes((*actorID)[:])
		if err != nil {
			return appointment.Actor{}, err
		}
		actor.ID = id
	}
	return actor, nil
}

// fromDomain converts an appointment aggregate to its database representation.
func fromDomain(aggregate *appointment.Appointment) AppointmentDTO {
	var driverID *uuid.UUID
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	services := make([]ServiceItemDTO, 0, len(aggregate.Services()))
	for _, item := range aggregate.Services() {
		evidence := make([]EvidenceDTO, 0, len(item.Evidence()))
		for _, e := range item.Evidence() {
			evidence = append(evidence, EvidenceDTO(e))
		}
		services = append(services, ServiceItemDTO{
			Name:        item.Name(),
			Price:       item.Price(),
			Completed:   item.Completed(),
			CompletedAt: item.CompletedAt(),
			Evidence:    evidence,
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		actorID, actorKind := actorToDTO(change.Actor)
		history = append(history, StatusChangeDTO{
			Status:    change.Status.String(),
			At:        change.At,
			Note:      change.Note,
			ActorID:   actorID,
			ActorKind: actorKind,
		})
	}

	var cancellation *CancellationDTO
	if c := aggregate.Cancellation(); c != nil {
		actorID, actorKind := actorToDTO(c.Actor)
		cancellation = &CancellationDTO{
			Reason:    c.Reason,
			ActorID:   actorID,
			ActorKind: actorKind,
			At:        c.At,
		}
	}

	timeline := aggregate.Timeline()

	return AppointmentDTO{
		ID:                   aggregate.ID().Bytes(),
		Number:               aggregate.Number(),
		ClientID:             aggregate.ClientID().Bytes(),
		VehicleID:            aggregate.VehicleID().Bytes(),
		DriverID:             driverID,
		Status:               aggregate.Status().String(),
		ScheduledDate:        aggregate.Schedule().Date(),
		WindowStart:          aggregate.Schedule().WindowStart(),
		WindowEnd:            aggregate.Schedule().WindowEnd(),
		VerificationRequired: aggregate.VerificationRequired(),
		Notes:                aggregate.Notes(),
		Pickup:               addressToDTO(aggregate.Pickup()),
		Delivery:             addressToDTO(aggregate.Delivery()),
		BasePrice:            aggregate.Pricing().BasePrice(),
		AdditionalPrice:      aggregate.Pricing().AdditionalPrice(),
		Taxes:                aggregate.Pricing().Taxes(),
		Total:                aggregate.Pricing().Total(),
		Services:             services,
		History:              history,
		Timeline:             TimelineDTO(timeline),
		Cancellation:         cancellation,
		ClientRating:         ratingToDTO(aggregate.ClientRating()),
		DriverRating:         ratingToDTO(aggregate.DriverRating()),
	}
}

func addressToDTO(address appointment.Address) AddressDTO {
	return AddressDTO{
		Street:    address.Street(),
		City:      address.City(),
		State:     address.State(),
		Zip:       address.Zip(),
		Longitude: address.Point().Longitude(),
		Latitude:  address.Point().Latitude(),
	}
}

func ratingToDTO(rating *appointment.Rating) *RatingDTO {
	if rating == nil {
		return nil
	}
	dto := RatingDTO(*rating)
	return &dto
}

// toDomain converts a database DTO to an appointment aggregate using
// RestoreAppointment, which re-checks the aggregate's invariants.
func toDomain(dto AppointmentDTO) (*appointment.Appointment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	schedule, err := appointment.NewSchedule(dto.ScheduledDate, dto.WindowStart, dto.WindowEnd)
	if err != nil {
		return nil, err
	}

	pickup, err := addressFromDTO(dto.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := addressFromDTO(dto.Delivery)
	if err != nil {
		return nil, err
	}

	services := make([]*appointment.ServiceItem, 0, len(dto.Services))
	for _, itemDTO := range dto.Services {
		evidence := make([]appointment.Evidence, 0, len(itemDTO.Evidence))
		for _, e := range itemDTO.Evidence {
			evidence = append(evidence, appointment.Evidence(e))
		}
		item, itemErr := appointment.RestoreServiceItem(
			itemDTO.Name, itemDTO.Price, itemDTO.Completed, itemDTO.CompletedAt, evidence)
		if itemErr != nil {
			return nil, itemErr
		}
		services = append(services, item)
	}

	history := make([]appointment.StatusChange, 0, len(dto.History))
	for _, changeDTO := range dto.History {
		actor, actorErr := actorFromDTO(changeDTO.ActorID, changeDTO.ActorKind)
		if actorErr != nil {
			return nil, actorErr
		}
		history = append(history, appointment.StatusChange{
			Status: appointment.Status(changeDTO.Status),
			At:     changeDTO.At,
			Note:   changeDTO.Note,
			Actor:  actor,
		})
	}

	var cancellation *appointment.Cancellation
	if dto.Cancellation != nil {
		actor, actorErr := actorFromDTO(dto.Cancellation.ActorID, dto.Cancellation.ActorKind)
		if actorErr != nil {
			return nil, actorErr
		}
		cancellation = &appointment.Cancellation{
			Reason: dto.Cancellation.Reason,
			Actor:  actor,
			At:     dto.Cancellation.At,
		}
	}

	return appointment.RestoreAppointment(
		id,
		dto.Number,
		clientID,
		vehicleID,
		driverID,
		schedule,
		dto.VerificationRequired,
		services,
		pickup,
		delivery,
		dto.Notes,
		appointment.Status(dto.Status),
		history,
		appointment.RestorePricing(dto.BasePrice, dto.AdditionalPrice, dto.Taxes, dto.Total),
		appointment.Timeline(dto.Timeline),
		cancellation,
		ratingFromDTO(dto.ClientRating),
		ratingFromDTO(dto.DriverRating),
	)
}

func addressFromDTO(dto AddressDTO) (appointment.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Longitude, dto.Latitude)
	if err != nil {
		return appointment.Address{}, err
	}
	return appointment.NewAddress(dto.Street, dto.City, dto.State, dto.Zip, point)
}

func ratingFromDTO(dto *RatingDTO) *appointment.Rating {
	if dto == nil {
		return nil
	}
	rating := appointment.Rating(*dto)
	return &rating
}
