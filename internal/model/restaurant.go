package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// restaurants — рестораны
type Restaurant struct {
	Base

	OwnerID uuid.UUID `gorm:"type:char(36);not null;index"`

	Name     string `gorm:"type:varchar(100);not null"`
	Location string `gorm:"type:varchar(100)"`
	Cuisine  string `gorm:"type:varchar(100);index"`

	// Время суток открытия/закрытия, opening < closing.
	OpeningTime datatypes.Time `gorm:"not null"`
	ClosingTime datatypes.Time `gorm:"not null"`

	// В минутах; nil — стандартная длительность посадки.
	BookingDurationMin *int64

	// Средняя оценка по отзывам, пересчитывается при каждом новом отзыве.
	Rating      float64 `gorm:"not null;default:0;index"`
	ReviewCount int64   `gorm:"not null;default:0"`

	// Рестораны деактивируются, а не удаляются: история бронирований остаётся.
	IsActive bool `gorm:"not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Tables []Table `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BookingDuration — длительность визита ресторана или fallback, если своя не задана.
func (r *Restaurant) BookingDuration(fallback time.Duration) time.Duration {
	if r.BookingDurationMin != nil && *r.BookingDurationMin > 0 {
		return time.Duration(*r.BookingDurationMin) * time.Minute
	}
	return fallback
}
