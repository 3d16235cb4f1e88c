package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/booking-core/internal/utils"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

// OccupyingStatuses — статусы, в которых бронь занимает стол.
var OccupyingStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusSeated,
}

// Occupies: бронь в этом статусе занимает стол.
func (s ReservationStatus) Occupies() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed || s == ReservationStatusSeated
}

// Final: бронь больше не меняется.
func (s ReservationStatus) Final() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled || s == ReservationStatusNoShow
}

// reservations — бронирования столов
type Reservation struct {
	Base

	UserID       uuid.UUID `gorm:"type:char(36);not null;index"`
	RestaurantID uuid.UUID `gorm:"type:char(36);not null;index:idx_reservations_restaurant_date"`
	TableID      uuid.UUID `gorm:"type:char(36);not null;index:idx_reservations_table_date;index:idx_reservations_table_starts,priority:1"`

	Date          datatypes.Date `gorm:"not null;index:idx_reservations_table_date;index:idx_reservations_restaurant_date"`
	RequestedTime datatypes.Time `gorm:"not null"`
	DurationMin   int64          `gorm:"not null"`

	// Денормализованный интервал [StartsAt, EndsAt) в «настенном» времени (UTC-метка).
	StartsAt time.Time `gorm:"not null;index;index:idx_reservations_table_starts,priority:2"`
	EndsAt   time.Time `gorm:"not null"`

	PartyGuests int               `gorm:"not null"`
	Status      ReservationStatus `gorm:"type:varchar(16);not null;index"`

	SpecialRequests     string `gorm:"type:text"`
	DietaryRestrictions string `gorm:"type:text"`
	ChildsChair         bool   `gorm:"not null"`

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Table      *Table      `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Duration — длительность, с которой бронь была создана.
func (r *Reservation) Duration() time.Duration {
	return time.Duration(r.DurationMin) * time.Minute
}

// Interval пересчитывает занятый интервал из даты, времени и длительности.
func (r *Reservation) Interval() utils.TimeRange {
	return utils.IntervalFor(time.Time(r.Date), time.Duration(r.RequestedTime), r.Duration())
}

// SetInterval сохраняет дату, время и длительность вместе с вычисленными границами.
func (r *Reservation) SetInterval(date time.Time, clock, duration time.Duration) {
	tr := utils.IntervalFor(date, clock, duration)
	r.Date = datatypes.Date(utils.DateOf(date))
	r.RequestedTime = datatypes.Time(clock)
	r.DurationMin = int64(tr.Duration() / time.Minute)
	r.StartsAt = tr.Start
	r.EndsAt = tr.End
}
