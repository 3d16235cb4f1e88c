package booking

import (
	"time"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// Validate проверяет дату и время суток запроса по правилам ресторана.
// now читается в зоне ресторана. Проверки идут в фиксированном порядке,
// возвращается первая сработавшая.
func (p Policy) Validate(r *model.Restaurant, date time.Time, clock time.Duration, now time.Time) error {
	if r == nil || !r.IsActive {
		return newValidationError(RestaurantInactive, "restaurant is not accepting reservations")
	}

	day := utils.DateOf(date)
	today := utils.DateOf(now)
	nowClock := utils.ClockOf(now)

	if day.Before(today) {
		return newValidationError(DateInPast, "date %s is in the past", day.Format(time.DateOnly))
	}
	if day.Equal(today) && clock <= nowClock {
		return newValidationError(TimeInPast, "time %s has already passed today", utils.FormatClock(clock))
	}

	last := today.AddDate(0, 0, p.HorizonDays)
	if day.After(last) {
		return newValidationError(OutsideBookingHorizon,
			"reservations can be made at most %d days ahead (until %s)", p.HorizonDays, last.Format(time.DateOnly))
	}

	opening := time.Duration(r.OpeningTime)
	closing := time.Duration(r.ClosingTime)
	if clock < opening || clock > closing {
		return newValidationError(OutsideOperatingHours,
			"restaurant is open from %s to %s", utils.FormatClock(opening), utils.FormatClock(closing))
	}

	return nil
}

// ValidateSitting проверяет уже посчитанный интервал визита: он не длиннее
// MaxDuration и заканчивается не позже полуночи своего дня.
func ValidateSitting(candidate utils.TimeRange) error {
	if candidate.Duration() > MaxDuration {
		return newValidationError(OutsideOperatingHours,
			"a sitting may last at most %d hours", int(MaxDuration/time.Hour))
	}
	if !utils.WithinDay(candidate) {
		return newValidationError(OutsideOperatingHours,
			"sitting %s must end by midnight", candidate)
	}
	return nil
}

// ValidateHours проверяет инвариант opening < closing.
func ValidateHours(opening, closing time.Duration) error {
	if opening < 0 || closing > 24*time.Hour {
		return newValidationError(OutsideOperatingHours, "operating hours must lie within one day")
	}
	if opening >= closing {
		return newValidationError(OutsideOperatingHours, "opening time must be before closing time")
	}
	return nil
}
