package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store собирает репозитории поверх одного *gorm.DB (соединения или транзакции).
type Store struct {
	db *gorm.DB

	Restaurants  RestaurantRepository
	Tables       TableRepository
	Reservations ReservationRepository
	Users        UserRepository
	Events       EventRepository
	Reviews      ReviewRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Restaurants:  NewGormRestaurantRepository(db),
		Tables:       NewGormTableRepository(db),
		Reservations: NewGormReservationRepository(db),
		Users:        NewGormUserRepository(db),
		Events:       NewGormEventRepository(db),
		Reviews:      NewGormReviewRepository(db),
	}
}

// DB — нижележащее подключение.
func (s *Store) DB() *gorm.DB { return s.db }

// InTx выполняет fn над репозиториями одной транзакции. Коммит, если fn
// вернула nil, иначе откат.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping проверяет, что БД отвечает.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
