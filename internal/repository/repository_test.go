package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/db"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gormDB, err := db.NewSQLiteMemory(model.AutoMigrate)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return NewStore(gormDB)
}

func seedRestaurant(t *testing.T, s *Store) (*model.Restaurant, *model.Table) {
	t.Helper()
	ctx := context.Background()
	r := &model.Restaurant{
		OwnerID:     uuid.New(),
		Name:        "Trattoria",
		OpeningTime: datatypes.Time(9 * time.Hour),
		ClosingTime: datatypes.Time(22 * time.Hour),
		IsActive:    true,
	}
	if err := s.Restaurants.Create(ctx, r); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	tb := &model.Table{RestaurantID: r.ID, Number: 1, Capacity: 2, Status: model.TableStatusAvailable, IsActive: true}
	if err := s.Tables.Create(ctx, tb); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return r, tb
}

func TestReservationRepository_ActiveFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r, tb := seedRestaurant(t, s)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	add := func(date time.Time, clock time.Duration, status model.ReservationStatus) *model.Reservation {
		res := &model.Reservation{UserID: uuid.New(), RestaurantID: r.ID, TableID: tb.ID, PartyGuests: 2, Status: status}
		res.SetInterval(date, clock, 2*time.Hour)
		if err := s.Reservations.Create(ctx, res); err != nil {
			t.Fatalf("create reservation: %v", err)
		}
		return res
	}
	add(day, 20*time.Hour, model.ReservationStatusConfirmed)
	add(day, 12*time.Hour, model.ReservationStatusPending)
	add(day, 15*time.Hour, model.ReservationStatusCancelled)
	add(day, 17*time.Hour, model.ReservationStatusCompleted)
	add(day.AddDate(0, 0, 1), 12*time.Hour, model.ReservationStatusPending)

	active, err := s.Reservations.ListActiveForTable(ctx, tb.ID, utils.DayRange(day))
	if err != nil {
		t.Fatalf("ListActiveForTable: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 occupying reservations, got %d", len(active))
	}
	if time.Duration(active[0].RequestedTime) != 12*time.Hour {
		t.Fatalf("expected ordering by start, got %v first", time.Duration(active[0].RequestedTime))
	}
	if got := active[1].Interval(); !got.Start.Equal(day.Add(20*time.Hour)) || !got.End.Equal(day.Add(22*time.Hour)) {
		t.Fatalf("interval did not survive a round trip: %s", got)
	}

	byDate, err := s.Reservations.ListByDate(ctx, day, model.ReservationStatusPending, model.ReservationStatusConfirmed)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(byDate) != 2 || byDate[0].Restaurant == nil || byDate[0].Restaurant.Name != "Trattoria" {
		t.Fatalf("expected 2 reservations with restaurant preloaded, got %+v", byDate)
	}
}

func TestReservationRepository_OverlapAcrossMidnight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r, tb := seedRestaurant(t, s)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	late := &model.Reservation{UserID: uuid.New(), RestaurantID: r.ID, TableID: tb.ID, PartyGuests: 2, Status: model.ReservationStatusConfirmed}
	late.SetInterval(day, 23*time.Hour, 2*time.Hour)
	if err := s.Reservations.Create(ctx, late); err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	got, err := s.Reservations.ListActiveForTable(ctx, tb.ID, utils.IntervalFor(next, 0, 2*time.Hour))
	if err != nil {
		t.Fatalf("ListActiveForTable: %v", err)
	}
	if len(got) != 1 || got[0].ID != late.ID {
		t.Fatalf("expected the previous evening's sitting, got %+v", got)
	}

	got, err = s.Reservations.ListActiveForRestaurant(ctx, r.ID, utils.DayRange(next))
	if err != nil {
		t.Fatalf("ListActiveForRestaurant: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected spill-over in next day's grid, got %d", len(got))
	}

	// Касание концами не пересечение.
	got, err = s.Reservations.ListActiveForTable(ctx, tb.ID, utils.IntervalFor(next, time.Hour, 2*time.Hour))
	if err != nil {
		t.Fatalf("ListActiveForTable: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no overlap after 01:00, got %d", len(got))
	}
}

func TestRepositories_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Reservations.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Restaurants.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Restaurants.SetActive(ctx, uuid.New(), false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	active := false
	if err := s.Tables.UpdateState(ctx, uuid.New(), nil, &active); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTableRepository_DuplicateNumberIsConflict(t *testing.T) {
	s := newTestStore(t)
	r, _ := seedRestaurant(t, s)

	err := s.Tables.Create(context.Background(), &model.Table{RestaurantID: r.ID, Number: 1, Capacity: 4, IsActive: true})
	if !IsConflict(err) {
		t.Fatalf("expected a duplicate table number to be a conflict, got %v", err)
	}
}

func TestStore_InTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var id uuid.UUID
	err := s.InTx(ctx, func(tx *Store) error {
		u, err := tx.Users.UpsertUser(ctx, "tx@example.com", "", "", model.UserRoleCustomer)
		if err != nil {
			return err
		}
		id = u.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Users.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected the user insert to be rolled back, got %v", err)
	}
}

func TestIsConflict(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("other"), false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{&pgconn.PgError{Code: "40P01"}, true},
		{&pgconn.PgError{Code: "23503"}, false},
		{&mysql.MySQLError{Number: 1213}, true},
		{&mysql.MySQLError{Number: 1205}, true},
		{&mysql.MySQLError{Number: 1146}, false},
	}
	for _, tc := range cases {
		if got := IsConflict(tc.err); got != tc.want {
			t.Fatalf("IsConflict(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := normalizePhone(" +7 (900) 123-45-67 "); got != "79001234567" {
		t.Fatalf("unexpected normalized phone %q", got)
	}
	if got := normalizeEmail("  Guest@Example.COM "); got != "guest@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}
