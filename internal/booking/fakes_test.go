package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

type memStore struct {
	tables       []model.Table
	reservations []model.Reservation
	reads        int
}

func (s *memStore) ListActiveTables(_ context.Context, restaurantID uuid.UUID) ([]model.Table, error) {
	var out []model.Table
	for _, t := range s.tables {
		if t.RestaurantID == restaurantID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) ListActiveForTable(_ context.Context, tableID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error) {
	s.reads++
	var out []model.Reservation
	for _, r := range s.reservations {
		stored := utils.TimeRange{Start: r.StartsAt, End: r.EndsAt}
		if r.TableID == tableID && r.Status.Occupies() && utils.Overlaps(stored, window) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) addTable(restaurantID uuid.UUID, number, capacity int) model.Table {
	t := model.Table{
		Base:         model.Base{ID: uuid.New()},
		RestaurantID: restaurantID,
		Number:       number,
		Capacity:     capacity,
		Status:       model.TableStatusAvailable,
		IsActive:     true,
	}
	s.tables = append(s.tables, t)
	return t
}

func (s *memStore) reserve(table model.Table, date time.Time, clock time.Duration, status model.ReservationStatus) model.Reservation {
	return s.reserveFor(table, date, clock, 2*time.Hour, status)
}

func (s *memStore) reserveFor(table model.Table, date time.Time, clock, duration time.Duration, status model.ReservationStatus) model.Reservation {
	r := model.Reservation{
		Base:         model.Base{ID: uuid.New()},
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		PartyGuests:  1,
		Status:       status,
	}
	r.SetInterval(date, clock, duration)
	s.reservations = append(s.reservations, r)
	return r
}

func restaurant(opening, closing time.Duration) *model.Restaurant {
	return &model.Restaurant{
		Base:        model.Base{ID: uuid.New()},
		Name:        "Test",
		OpeningTime: datatypes.Time(opening),
		ClosingTime: datatypes.Time(closing),
		IsActive:    true,
	}
}
