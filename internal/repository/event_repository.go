package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type EventRepository interface {
	// Записать событие аудита; details сериализуются в JSON.
	Record(ctx context.Context, eventType model.EventType, userID, reservationID *uuid.UUID, details any) error
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Record(ctx context.Context, eventType model.EventType, userID, reservationID *uuid.UUID, details any) error {
	ev := model.Event{
		EventType:     eventType,
		UserID:        userID,
		ReservationID: reservationID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		ev.Details = datatypes.JSON(raw)
	}
	return r.db.WithContext(ctx).Create(&ev).Error
}

func (r *GormEventRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Event, error) {
	var out []model.Event
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
