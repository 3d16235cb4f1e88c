package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/broker"
	"github.com/Leganyst/booking-core/internal/logging"
	"github.com/Leganyst/booking-core/internal/model"
)

type fakeSource struct {
	byDate   map[string][]model.Reservation
	asked    time.Time
	statuses []model.ReservationStatus
	err      error
}

func (s *fakeSource) ListByDate(_ context.Context, date time.Time, statuses ...model.ReservationStatus) ([]model.Reservation, error) {
	s.asked = date
	s.statuses = statuses
	return s.byDate[date.Format("2006-01-02")], s.err
}

type failingPublisher struct{ broker.Memory }

func (p *failingPublisher) Publish(ctx context.Context, ev broker.Event) error {
	if ev.Data.PartyGuests > 4 {
		return errors.New("broker unavailable")
	}
	return p.Memory.Publish(ctx, ev)
}

func reservation(date time.Time, clock time.Duration, guests int) model.Reservation {
	r := model.Reservation{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		TableID:      uuid.New(),
		PartyGuests:  guests,
		Status:       model.ReservationStatusConfirmed,
		Restaurant:   &model.Restaurant{Name: "Trattoria"},
	}
	r.ID = uuid.New()
	r.SetInterval(date, clock, 2*time.Hour)
	return r
}

func TestReminderRun(t *testing.T) {
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{byDate: map[string][]model.Reservation{
		"2026-03-11": {reservation(tomorrow, 18*time.Hour, 2), reservation(tomorrow, 20*time.Hour, 4)},
	}}
	pub := &broker.Memory{}
	clock := booking.FixedClock(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))

	sent, err := NewReminder(src, pub, clock, logging.Discard()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if !src.asked.Equal(tomorrow) {
		t.Fatalf("expected sweep for %v, got %v", tomorrow, src.asked)
	}
	if len(src.statuses) != 2 {
		t.Fatalf("expected pending and confirmed statuses, got %v", src.statuses)
	}

	ev := pub.Events()[0]
	if ev.Topic != broker.TopicReservationReminder || ev.Action != "reminder" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Metadata["restaurantName"] != "Trattoria" || ev.Data.Time != "18:00" {
		t.Fatalf("unexpected event payload %+v", ev)
	}
}

func TestReminderRun_PublishFailureContinues(t *testing.T) {
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{byDate: map[string][]model.Reservation{
		"2026-03-11": {reservation(tomorrow, 18*time.Hour, 6), reservation(tomorrow, 20*time.Hour, 2)},
	}}
	pub := &failingPublisher{}
	clock := booking.FixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	sent, err := NewReminder(src, pub, clock, logging.Discard()).Run(context.Background())
	if err == nil {
		t.Fatalf("expected the publish failure to be reported")
	}
	if sent != 1 || len(pub.Events()) != 1 {
		t.Fatalf("expected the second reminder to go out, sent=%d", sent)
	}
}

func TestReminderRun_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	clock := booking.FixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	if _, err := NewReminder(src, &broker.Memory{}, clock, logging.Discard()).Run(context.Background()); err == nil {
		t.Fatalf("expected source error")
	}
}

func TestSchedule(t *testing.T) {
	rem := NewReminder(&fakeSource{}, &broker.Memory{}, booking.SystemClock{}, logging.Discard())

	if _, err := Schedule("not a cron", rem, time.Minute, logging.Discard()); err == nil {
		t.Fatalf("expected invalid spec to be rejected")
	}

	c, err := Schedule("0 9 * * *", rem, time.Minute, logging.Discard())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if n := len(c.Entries()); n != 1 {
		t.Fatalf("expected one entry, got %d", n)
	}
}
