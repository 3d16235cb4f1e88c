package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base — общий идентификатор всех сущностей. ID генерируется в приложении,
// схема одинаково работает на postgres, mysql и sqlite.
type Base struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
