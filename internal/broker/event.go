package broker

import (
	"encoding/json"
	"time"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// Топики доменных событий брони.
const (
	TopicReservationCreated       = "reservation.created"
	TopicReservationUpdated       = "reservation.updated"
	TopicReservationCancelled     = "reservation.cancelled"
	TopicReservationStatusChanged = "reservation.status_changed"
	TopicReservationReminder      = "reservation.reminder"
)

// Event — конверт, который публикуется на каждое изменение брони. Форму
// (entity/action/resourceId/metadata/data) читают realtime-потребители.
type Event struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       ReservationData   `json:"data"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// ReservationData — снимок брони внутри Event.
type ReservationData struct {
	ReservationID string `json:"reservationId"`
	RestaurantID  string `json:"restaurantId"`
	TableID       string `json:"tableId"`
	UserID        string `json:"userId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	EndsAt        string `json:"endsAt"`
	PartyGuests   int    `json:"partyGuests"`
	Status        string `json:"status"`
	Summary       string `json:"summary"`
}

// NewReservationEvent собирает конверт для topic из r.

func NewReservationEvent(topic string, r *model.Reservation, occurredAt time.Time) Event {
	tr := r.Interval()
	action := topic[len("reservation."):]
	return Event{
		Entity:     "reservation",
		Action:     action,
		ResourceID: r.ID.String(),
		Topic:      topic,
		Metadata: map[string]string{
			"restaurantId": r.RestaurantID.String(),
		},
		Data: ReservationData{
			ReservationID: r.ID.String(),
			RestaurantID:  r.RestaurantID.String(),
			TableID:       r.TableID.String(),
			UserID:        r.UserID.String(),
			Date:          tr.Start.Format(time.DateOnly),
			Time:          tr.Start.Format("15:04"),
			EndsAt:        tr.End.Format("15:04"),
			PartyGuests:   r.PartyGuests,
			Status:        string(r.Status),
			Summary:       utils.FormatSlotForUser(tr, true, r.ID.String()),
		},
		OccurredAt: occurredAt.UTC(),
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
