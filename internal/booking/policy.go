package booking

import (
	"time"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// MaxDuration — верхняя граница длительности визита, как заданной рестораном,
// так и переданной в запросе.
const MaxDuration = 12 * time.Hour

// Policy — бизнес-настройки движка бронирования.
type Policy struct {
	// Длительность визита, если ресторан не задал свою.
	DefaultDuration time.Duration
	// Последний доступный день, считая от сегодняшнего (включительно).
	HorizonDays int
	// Не позже чем за это время до начала pending/confirmed бронь ещё можно отменить.
	CancellationWindow time.Duration
	// Шаг сетки слотов.
	SlotStep time.Duration
	// Статус новой брони: pending или confirmed.
	InitialStatus model.ReservationStatus
	// Сколько раз повторять транзакцию при конфликте блокировок.
	MaxAttempts int
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultDuration:    utils.DefaultBookingDuration,
		HorizonDays:        90,
		CancellationWindow: 24 * time.Hour,
		SlotStep:           30 * time.Minute,
		InitialStatus:      model.ReservationStatusPending,
		MaxAttempts:        3,
	}
}

// DurationFor выбирает длительность визита: override из запроса, затем
// настройка ресторана, затем значение по умолчанию. Длительность хранится
// в целых минутах, поэтому override округляется вверх до минуты.
func (p Policy) DurationFor(r *model.Restaurant, override time.Duration) time.Duration {
	if override > 0 {
		if rem := override % time.Minute; rem != 0 {
			override += time.Minute - rem
		}
		return override
	}
	fallback := p.DefaultDuration
	if fallback <= 0 {
		fallback = utils.DefaultBookingDuration
	}
	if r == nil {
		return fallback
	}
	return r.BookingDuration(fallback)
}
