package booking

import (
	"time"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.ReservationStatusPending:   {model.ReservationStatusConfirmed, model.ReservationStatusNoShow},
	model.ReservationStatusConfirmed: {model.ReservationStatusSeated, model.ReservationStatusNoShow},
	model.ReservationStatusSeated:    {model.ReservationStatusCompleted},
}

// CanTransition проверяет смену статуса персоналом. У отмены свой путь, см. CanCancel.
func CanTransition(from, to model.ReservationStatus) error {
	if to == model.ReservationStatusCancelled {
		return BadState("use cancellation to cancel a reservation")
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return BadState("cannot move reservation from %s to %s", from, to)
}

// CanModify: можно ли ещё менять дату, время и число гостей.
func CanModify(r *model.Reservation) error {
	switch r.Status {
	case model.ReservationStatusPending, model.ReservationStatusConfirmed:
		return nil
	}
	return BadState("reservation is %s", r.Status)
}

// CanCancel сверяет момент отмены now с окном до начала визита.

func CanCancel(r *model.Reservation, now time.Time, window time.Duration) error {
	switch r.Status {
	case model.ReservationStatusPending, model.ReservationStatusConfirmed:
	case model.ReservationStatusCancelled:
		return BadState("reservation is already cancelled")
	default:
		return BadState("reservation is %s and can no longer be cancelled", r.Status)
	}

	deadline := r.Interval().Start.Add(-window)
	if utils.Wall(now).After(deadline) {
		return &BookingError{
			Kind:   TooLateToCancel,
			Detail: "reservations can be cancelled up to " + window.String() + " before start",
		}
	}
	return nil
}
