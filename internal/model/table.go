package model

import (
	"time"

	"github.com/google/uuid"
)

// Статус стола в зале.
type TableStatus string

const (
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusMaintenance TableStatus = "maintenance"
)

// Valid: s — один из известных статусов стола.
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusMaintenance:
		return true
	}
	return false
}

// tables — столы принадлежат ровно одному ресторану.
type Table struct {
	Base

	RestaurantID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_tables_restaurant_number"`
	Number       int       `gorm:"not null;uniqueIndex:idx_tables_restaurant_number"`

	Capacity int         `gorm:"not null;check:chk_tables_capacity,capacity >= 1"`
	Status   TableStatus `gorm:"type:varchar(16);not null;default:'available'"`
	IsActive bool        `gorm:"not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
}
