package booking

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// TableLister отдаёт активные столы ресторана.
type TableLister interface {
	ListActiveTables(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error)
}

// Allocator подбирает конкретный стол под компанию.
type Allocator struct {
	tables  TableLister
	checker *Checker
}

func NewAllocator(tables TableLister, checker *Checker) *Allocator {
	return &Allocator{tables: tables, checker: checker}
}

// Checker — проверка занятости, которой пользуется распределитель.
func (a *Allocator) Checker() *Checker { return a.checker }

// Fits: стол активен и вмещает guests.
func Fits(t *model.Table, guests int) bool {
	return t != nil && t.IsActive && t.Capacity >= guests
}

// SortTables: по вместимости, затем по номеру, затем по id.
func SortTables(tables []model.Table) {
	slices.SortFunc(tables, func(a, b model.Table) int {
		if c := cmp.Compare(a.Capacity, b.Capacity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Number, b.Number); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

func (a *Allocator) qualified(ctx context.Context, restaurantID uuid.UUID, guests int) ([]model.Table, error) {
	all, err := a.tables.ListActiveTables(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Table, 0, len(all))
	for _, t := range all {
		if Fits(&t, guests) {
			out = append(out, t)
		}
	}
	SortTables(out)
	return out, nil
}

// Candidates возвращает все свободные подходящие столы в порядке распределения.
func (a *Allocator) Candidates(
	ctx context.Context,
	restaurantID uuid.UUID,
	guests int,
	candidate utils.TimeRange,
	exclude ...uuid.UUID,
) ([]model.Table, error) {
	tables, err := a.qualified(ctx, restaurantID, guests)
	if err != nil {
		return nil, err
	}

	free := tables[:0]
	for i := range tables {
		ok, err := a.checker.IsAvailable(ctx, &tables[i], candidate, exclude...)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, tables[i])
		}
	}
	return free, nil
}

// Allocate возвращает самый маленький свободный стол под guests или
// ErrNoTableAvailable. Одинаковый вход всегда даёт один и тот же стол.
func (a *Allocator) Allocate(
	ctx context.Context,
	restaurantID uuid.UUID,
	guests int,
	candidate utils.TimeRange,
	exclude ...uuid.UUID,
) (*model.Table, error) {
	tables, err := a.qualified(ctx, restaurantID, guests)
	if err != nil {
		return nil, err
	}

	for i := range tables {
		ok, err := a.checker.IsAvailable(ctx, &tables[i], candidate, exclude...)
		if err != nil {
			return nil, err
		}
		if ok {
			return &tables[i], nil
		}
	}
	return nil, ErrNoTableAvailable
}
