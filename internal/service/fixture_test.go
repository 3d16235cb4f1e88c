package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/broker"
	"github.com/Leganyst/booking-core/internal/db"
	"github.com/Leganyst/booking-core/internal/logging"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	ctx    context.Context
	store  *repository.Store
	svc    *BookingService
	admin  *RestaurantService
	clock  *testClock
	events *broker.Memory

	owner, guest *model.User
	restaurant   *model.Restaurant
	small, large *model.Table

	today, tomorrow time.Time
}

// newFixture: ресторан 09:00–22:00, столы на 2 и на 4 места, «сейчас» — 10.03.2026 12:00.
func newFixture(t *testing.T, tune ...func(*booking.Policy)) *fixture {
	t.Helper()

	gormDB, err := db.NewSQLiteMemory(model.AutoMigrate)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	f := &fixture{
		ctx:      context.Background(),
		store:    repository.NewStore(gormDB),
		clock:    &testClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		events:   &broker.Memory{},
		today:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		tomorrow: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}

	policy := booking.DefaultPolicy()
	for _, fn := range tune {
		fn(&policy)
	}
	log := logging.Discard()
	f.svc = NewBookingService(f.store, policy, f.clock, log, f.events, nil)
	f.admin = NewRestaurantService(f.store, nil, f.clock, policy.HorizonDays, log)

	f.owner, err = f.store.Users.UpsertUser(f.ctx, "owner@example.com", "Owner", "", model.UserRoleOwner)
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	f.guest = f.newGuest(t, "guest@example.com")

	f.restaurant, err = f.admin.Create(f.ctx, f.ownerActor(), CreateRestaurantInput{
		Name:        "Trattoria",
		OpeningTime: 9 * time.Hour,
		ClosingTime: 22 * time.Hour,
	})
	if err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	f.small = f.addTable(t, 1, 2)
	f.large = f.addTable(t, 2, 4)

	return f
}

func (f *fixture) newGuest(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.store.Users.UpsertUser(f.ctx, email, "Guest", "+7 (900) 000-00-00", model.UserRoleCustomer)
	if err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	return u
}

func (f *fixture) addTable(t *testing.T, number, capacity int) *model.Table {
	t.Helper()
	tb, err := f.admin.AddTable(f.ctx, f.ownerActor(), f.restaurant.ID, number, capacity)
	if err != nil {
		t.Fatalf("seed table %d: %v", number, err)
	}
	return tb
}

func (f *fixture) ownerActor() Actor { return Actor{UserID: f.owner.ID, Role: model.UserRoleOwner} }
func (f *fixture) guestActor() Actor { return Actor{UserID: f.guest.ID, Role: model.UserRoleCustomer} }

func (f *fixture) book(guests int, date time.Time, clock time.Duration) (*model.Reservation, error) {
	return f.svc.Book(f.ctx, BookRequest{
		UserID:       f.guest.ID,
		RestaurantID: f.restaurant.ID,
		Date:         date,
		Time:         clock,
		PartyGuests:  guests,
	})
}

func (f *fixture) mustBook(t *testing.T, guests int, date time.Time, clock time.Duration) *model.Reservation {
	t.Helper()
	r, err := f.book(guests, date, clock)
	if err != nil {
		t.Fatalf("book %d guests at %v: %v", guests, clock, err)
	}
	return r
}
