package model

import (
	"time"

	"github.com/google/uuid"
)

// Границы оценки отзыва.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// reviews — отзывы гостей; один отзыв на пару пользователь+ресторан.
type Review struct {
	Base

	UserID       uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_reviews_user_restaurant"`
	RestaurantID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_reviews_user_restaurant;index"`

	Rating  int    `gorm:"not null"`
	Comment string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;index"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
