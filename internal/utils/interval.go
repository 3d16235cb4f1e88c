package utils

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// DefaultBookingDuration — длительность визита, если ресторан не задал свою.
const DefaultBookingDuration = 2 * time.Hour

// TimeRange — полуинтервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange собирает интервал; пустые и перевёрнутые границы отклоняются.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration возвращает End - Start.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", tr.Start.Format("2006-01-02 15:04"), tr.End.Format("15:04"))
}

// IntervalFor склеивает дату и время суток (смещение от полуночи) в интервал,
// который занимает визит. duration <= 0 заменяется на DefaultBookingDuration.
// Верхней границы нет: вмещается ли визит в сутки, проверяет WithinDay.
func IntervalFor(date time.Time, clock time.Duration, duration time.Duration) TimeRange {
	if duration <= 0 {
		duration = DefaultBookingDuration
	}
	day := DateOf(date)
	h := int(clock / time.Hour)
	m := int(clock % time.Hour / time.Minute)
	s := int(clock % time.Minute / time.Second)
	start := time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, day.Location())
	return TimeRange{Start: start, End: start.Add(duration)}
}

// Overlaps проверяет пересечение двух полуинтервалов.
// Касание концами не считается: [18:00,20:00) и [20:00,22:00) не пересекаются.
func Overlaps(a, b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasOverlap сверяет candidate с existing и возвращает пересечения.
func HasOverlap(candidate TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange
	for _, tr := range existing {
		if Overlaps(candidate, tr) {
			conflicts = append(conflicts, tr)
		}
	}
	return len(conflicts) > 0, conflicts
}

// SplitToTimeSlots режет интервал на подряд идущие слоты длиной slotDuration.
// alignMinutes > 0 сдвигает начало первого слота к ближайшему кратному alignMinutes.
// Хвост короче slotDuration отбрасывается.
func SplitToTimeSlots(tr TimeRange, slotDuration time.Duration, alignMinutes int) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return []TimeRange{}, nil
	}

	start := tr.Start
	if alignMinutes > 0 {
		min := start.Minute()
		if rem := min % alignMinutes; rem != 0 || start.Second() != 0 {
			delta := alignMinutes - rem
			start = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), min+delta, 0, 0, start.Location())
			if !start.Before(tr.End) {
				return []TimeRange{}, nil
			}
		}
	}

	slots := make([]TimeRange, 0, int(tr.End.Sub(start)/slotDuration))
	for cur := start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// DayRange возвращает сутки даты: [00:00, 24:00).
func DayRange(date time.Time) TimeRange {
	day := DateOf(date)
	return TimeRange{Start: day, End: day.AddDate(0, 0, 1)}
}

// WithinDay сообщает, что интервал заканчивается не позже полуночи дня своего начала.
func WithinDay(tr TimeRange) bool {
	return !tr.End.After(DayRange(tr.Start).End)
}

// DateOf отбрасывает время и возвращает дату t на полночь UTC.
// В таком виде даты хранятся и сравниваются.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ClockOf возвращает время суток t как смещение от полуночи.
func ClockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// Wall переносит показания часов t (в его зоне) в UTC без сдвига.
// Все интервалы броней живут в этой системе отсчёта.
func Wall(t time.Time) time.Time {
	return DateOf(t).Add(ClockOf(t))
}

// ParseClock разбирает "HH:MM" или "HH:MM:SS" в смещение от полуночи.
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// FormatClock печатает смещение от полуночи как "HH:MM".
func FormatClock(clock time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(clock/time.Hour), int(clock%time.Hour/time.Minute))
}

// FormatSlotForUser форматирует интервал как "Friday, 02.01.2026, 18:00–20:00".
// С includeID в скобках дописывается идентификатор брони.
func FormatSlotForUser(tr TimeRange, includeID bool, id string) string {
	base := fmt.Sprintf("%s, %s, %s–%s",
		tr.Start.Weekday(),
		tr.Start.Format("02.01.2006"),
		tr.Start.Format("15:04"),
		tr.End.Format("15:04"),
	)
	if includeID && id != "" {
		return fmt.Sprintf("%s (ID: %s)", base, id)
	}
	return base
}
