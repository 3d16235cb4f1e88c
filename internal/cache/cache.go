package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/booking"
)

// SlotKey — ключ одной закэшированной сетки слотов.
type SlotKey struct {
	RestaurantID uuid.UUID
	Date         time.Time
	Guests       int
}

// bucket собирает все сетки ресторана за день, чтобы сбросить их одним удалением.
func (k SlotKey) bucket() string {
	return bucketKey(k.RestaurantID, k.Date)
}

func (k SlotKey) field() string {
	return fmt.Sprintf("g%d", k.Guests)
}

func bucketKey(restaurantID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("slots:%s:%s", restaurantID, date.Format(time.DateOnly))
}

// SlotCache кэширует посчитанные сетки слотов.
type SlotCache interface {
	GetOrLoad(ctx context.Context, key SlotKey, load func(ctx context.Context) ([]booking.Slot, error)) ([]booking.Slot, error)
	Invalidate(ctx context.Context, restaurantID uuid.UUID, dates ...time.Time) error
}

// None всегда считает заново.

type None struct{}

func (None) GetOrLoad(ctx context.Context, _ SlotKey, load func(ctx context.Context) ([]booking.Slot, error)) ([]booking.Slot, error) {
	return load(ctx)
}

func (None) Invalidate(context.Context, uuid.UUID, ...time.Time) error { return nil }
