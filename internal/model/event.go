package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Тип события аудита.
type EventType string

const (
	EventTypeReservationCreated       EventType = "reservation_created"
	EventTypeReservationUpdated       EventType = "reservation_updated"
	EventTypeReservationCancelled     EventType = "reservation_cancelled"
	EventTypeReservationStatusChanged EventType = "reservation_status_changed"
)

// events — события аудита
type Event struct {
	Base

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID        *uuid.UUID `gorm:"type:char(36);index"`
	ReservationID *uuid.UUID `gorm:"type:char(36);index"`

	Details datatypes.JSON

	// Навигационные поля
	User        *User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
