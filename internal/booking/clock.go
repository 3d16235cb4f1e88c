package booking

import "time"

// Clock отдаёт текущий момент. Правила не читают системные часы напрямую.
type Clock interface {
	Now() time.Time
}

// SystemClock читает часы в зоне ресторана.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Loc)
}

// FixedClock всегда возвращает один и тот же момент.

type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
