package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/Leganyst/booking-core/internal/utils"
)

func TestPolicyValidate(t *testing.T) {
	p := DefaultPolicy()
	r := restaurant(9*time.Hour, 22*time.Hour)
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		date  time.Time
		clock time.Duration
		want  error
	}{
		{"tomorrow evening", today.AddDate(0, 0, 1), 18 * time.Hour, nil},
		{"later today", today, 18 * time.Hour, nil},
		{"yesterday", today.AddDate(0, 0, -1), 18 * time.Hour, ErrDateInPast},
		{"earlier today", today, 12 * time.Hour, ErrTimeInPast},
		{"exactly now", today, 15*time.Hour + 30*time.Minute, ErrTimeInPast},
		{"horizon boundary", today.AddDate(0, 0, 90), 18 * time.Hour, nil},
		{"beyond horizon", today.AddDate(0, 0, 91), 18 * time.Hour, ErrOutsideBookingHorizon},
		{"before opening", today.AddDate(0, 0, 1), 8 * time.Hour, ErrOutsideOperatingHours},
		{"at closing", today.AddDate(0, 0, 1), 22 * time.Hour, nil},
		{"after closing", today.AddDate(0, 0, 1), 22*time.Hour + time.Minute, ErrOutsideOperatingHours},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Validate(r, tc.date, tc.clock, now)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPolicyValidate_CheckOrder(t *testing.T) {
	p := DefaultPolicy()
	r := restaurant(9*time.Hour, 22*time.Hour)
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	// Прошедшая дата и нерабочее время сразу: побеждает правило даты.
	err := p.Validate(r, now.AddDate(0, 0, -2), 23*time.Hour, now)
	if !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected DateInPast first, got %v", err)
	}

	// За горизонтом и в нерабочее время: побеждает горизонт.
	err = p.Validate(r, now.AddDate(0, 0, 120), 5*time.Hour, now)
	if !errors.Is(err, ErrOutsideBookingHorizon) {
		t.Fatalf("expected OutsideBookingHorizon first, got %v", err)
	}
}

func TestPolicyValidate_InactiveRestaurant(t *testing.T) {
	r := restaurant(9*time.Hour, 22*time.Hour)
	r.IsActive = false
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	err := DefaultPolicy().Validate(r, now.AddDate(0, 0, 1), 18*time.Hour, now)
	if !errors.Is(err, ErrRestaurantInactive) {
		t.Fatalf("expected RestaurantInactive, got %v", err)
	}
}

func TestPolicyValidate_LocalNow(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	r := restaurant(9*time.Hour, 22*time.Hour)
	// 00:30 местного 11-го числа в UTC ещё 10-е.
	now := time.Date(2026, 3, 11, 0, 30, 0, 0, loc)

	err := DefaultPolicy().Validate(r, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 20*time.Hour, now)
	if !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected DateInPast in restaurant zone, got %v", err)
	}
}

func TestValidateHours(t *testing.T) {
	if err := ValidateHours(9*time.Hour, 22*time.Hour); err != nil {
		t.Fatalf("expected valid hours, got %v", err)
	}
	if err := ValidateHours(22*time.Hour, 9*time.Hour); err == nil {
		t.Fatalf("expected error for inverted hours")
	}
	if err := ValidateHours(9*time.Hour, 9*time.Hour); err == nil {
		t.Fatalf("expected error for empty hours")
	}
}

func TestBookingErrorWrapsValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	verr := DefaultPolicy().Validate(restaurant(9*time.Hour, 22*time.Hour), now.AddDate(0, 0, -1), 18*time.Hour, now)

	err := Invalid(verr)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
	if !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected wrapped DateInPast, got %v", err)
	}
	if errors.Is(err, ErrNoAvailability) {
		t.Fatalf("InvalidRequest must not match NoAvailability")
	}
	if KindOf(err) != InvalidRequest {
		t.Fatalf("expected kind %q, got %q", InvalidRequest, KindOf(err))
	}
}

func TestValidateSitting(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		clock    time.Duration
		duration time.Duration
		wantErr  bool
	}{
		{"evening", 19 * time.Hour, 2 * time.Hour, false},
		{"ends exactly at midnight", 22 * time.Hour, 2 * time.Hour, false},
		{"late start runs past midnight", 23 * time.Hour, 2 * time.Hour, true},
		{"long override runs into next day", 21 * time.Hour, 16 * time.Hour, true},
		{"longer than allowed", 8 * time.Hour, MaxDuration + time.Minute, true},
		{"max length", 8 * time.Hour, MaxDuration, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSitting(utils.IntervalFor(date, tc.clock, tc.duration))
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrOutsideOperatingHours) {
				t.Fatalf("expected OutsideOperatingHours, got %v", err)
			}
		})
	}
}

func TestPolicyDurationFor(t *testing.T) {
	p := DefaultPolicy()
	r := restaurant(9*time.Hour, 22*time.Hour)

	if got := p.DurationFor(r, 0); got != 2*time.Hour {
		t.Fatalf("expected default 2h, got %v", got)
	}

	custom := int64(90)
	r.BookingDurationMin = &custom
	if got := p.DurationFor(r, 0); got != 90*time.Minute {
		t.Fatalf("expected restaurant 90m, got %v", got)
	}
	if got := p.DurationFor(r, 45*time.Minute); got != 45*time.Minute {
		t.Fatalf("expected request override 45m, got %v", got)
	}

	// Меньше минуты округляется вверх, иначе DurationMin сохранится нулём.
	if got := p.DurationFor(r, 30*time.Second); got != time.Minute {
		t.Fatalf("expected sub-minute override rounded to 1m, got %v", got)
	}
	if got := p.DurationFor(r, 61*time.Minute+time.Second); got != 62*time.Minute {
		t.Fatalf("expected 61m1s rounded to 62m, got %v", got)
	}
}
