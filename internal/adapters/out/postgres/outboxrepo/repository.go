package outboxrepo

import (
	"context"
	"time"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add appends events to the outbox inside the current transaction.
func (r *GormOutboxRepository) Add(ctx context.Context, events ...ports.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, fromDomain(event))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchUnpublished returns up to limit not-yet-published events in
// insertion order.
func (r *GormOutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]ports.DomainEvent, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("NOT published").
		Order("seq").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]ports.DomainEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, eventErr := toDomain(dto)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	return events, nil
}

// MarkPublished records that the given events were handed to the publisher.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids ...kernel.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id IN ?", raw).
		Updates(map[string]any{"published": true, "published_at": &now}).Error
}
