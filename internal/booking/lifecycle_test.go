package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/Leganyst/booking-core/internal/model"
)

func reservationAt(date time.Time, clock time.Duration, status model.ReservationStatus) *model.Reservation {
	r := &model.Reservation{Status: status}
	r.SetInterval(date, clock, 2*time.Hour)
	return r
}

func TestCanCancel_Window(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	r := reservationAt(today, 20*time.Hour, model.ReservationStatusConfirmed)

	err := CanCancel(r, today.Add(19*time.Hour), 2*time.Hour)
	if !errors.Is(err, ErrTooLateToCancel) {
		t.Fatalf("expected TooLateToCancel one hour before, got %v", err)
	}

	if err := CanCancel(r, today.Add(17*time.Hour), 2*time.Hour); err != nil {
		t.Fatalf("expected cancel three hours before to succeed, got %v", err)
	}

	if err := CanCancel(r, today.Add(18*time.Hour), 2*time.Hour); err != nil {
		t.Fatalf("expected cancel exactly at the window edge to succeed, got %v", err)
	}
}

func TestCanCancel_States(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := today.Add(8 * time.Hour)

	for _, st := range []model.ReservationStatus{
		model.ReservationStatusCancelled,
		model.ReservationStatusCompleted,
		model.ReservationStatusNoShow,
		model.ReservationStatusSeated,
	} {
		err := CanCancel(reservationAt(today, 20*time.Hour, st), now, 2*time.Hour)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("status %s: expected InvalidState, got %v", st, err)
		}
	}

	if err := CanCancel(reservationAt(today, 20*time.Hour, model.ReservationStatusPending), now, 2*time.Hour); err != nil {
		t.Fatalf("pending: expected cancel to succeed, got %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.ReservationStatus
		ok       bool
	}{
		{model.ReservationStatusPending, model.ReservationStatusConfirmed, true},
		{model.ReservationStatusConfirmed, model.ReservationStatusSeated, true},
		{model.ReservationStatusSeated, model.ReservationStatusCompleted, true},
		{model.ReservationStatusPending, model.ReservationStatusNoShow, true},
		{model.ReservationStatusConfirmed, model.ReservationStatusNoShow, true},
		{model.ReservationStatusPending, model.ReservationStatusSeated, false},
		{model.ReservationStatusCompleted, model.ReservationStatusSeated, false},
		{model.ReservationStatusSeated, model.ReservationStatusNoShow, false},
		{model.ReservationStatusConfirmed, model.ReservationStatusCancelled, false},
	}
	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("%s -> %s: expected ok, got %v", tc.from, tc.to, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%s -> %s: expected InvalidState, got %v", tc.from, tc.to, err)
		}
	}
}
