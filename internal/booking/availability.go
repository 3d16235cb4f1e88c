package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// ReservationReader отдаёт занимающие стол брони (статусы pending/confirmed),
// чей интервал пересекает window, по времени начала.
type ReservationReader interface {
	ListActiveForTable(ctx context.Context, tableID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error)
}

// Checker решает, свободен ли один стол на интервал candidate.
type Checker struct {
	reservations ReservationReader
}

func NewChecker(reservations ReservationReader) *Checker {
	return &Checker{reservations: reservations}
}

// Bookable — статический фильтр: стол активен и в работе.
func Bookable(t *model.Table) bool {
	return t != nil && t.IsActive && t.Status == model.TableStatusAvailable
}

// IsAvailable сообщает, свободен ли table на candidate. Брони из exclude
// пропускаются: так перенос брони сверяется со всеми остальными бронями стола.
func (c *Checker) IsAvailable(
	ctx context.Context,
	table *model.Table,
	candidate utils.TimeRange,
	exclude ...uuid.UUID,
) (bool, error) {
	conflicts, err := c.Conflicts(ctx, table, candidate, exclude...)
	if err != nil {
		return false, err
	}
	return Bookable(table) && len(conflicts) == 0, nil
}

// Conflicts возвращает брони table, пересекающие candidate. Выборка идёт по
// интервалу, а не по дате, поэтому визит прошлого вечера тоже учитывается.
// Для стола, не прошедшего Bookable, хранилище не читается.
func (c *Checker) Conflicts(
	ctx context.Context,
	table *model.Table,
	candidate utils.TimeRange,
	exclude ...uuid.UUID,
) ([]model.Reservation, error) {
	if !Bookable(table) {
		return nil, nil
	}

	existing, err := c.reservations.ListActiveForTable(ctx, table.ID, candidate)
	if err != nil {
		return nil, err
	}

	var out []model.Reservation
	for _, r := range existing {
		if !r.Status.Occupies() || excluded(r.ID, exclude) {
			continue
		}
		if utils.Overlaps(candidate, r.Interval()) {
			out = append(out, r)
		}
	}
	return out, nil
}

func excluded(id uuid.UUID, ids []uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
