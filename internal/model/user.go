package model

import "time"

// Роль пользователя в системе.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleOwner    UserRole = "owner"
	UserRoleAdmin    UserRole = "admin"
)

// users — учётные записи живут во внешнем сервисе идентификации,
// здесь хранится только проекция, нужная для бронирований.
type User struct {
	Base

	Email       string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string   `gorm:"type:varchar(255)"`
	Phone       string   `gorm:"type:varchar(32)"`
	Role        UserRole `gorm:"type:varchar(16);not null;default:'customer'"`
	IsActive    bool     `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
