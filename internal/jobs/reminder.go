// Package jobs — периодические обходы бронирований.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/broker"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

type ReservationSource interface {
	ListByDate(ctx context.Context, date time.Time, statuses ...model.ReservationStatus) ([]model.Reservation, error)
}

// Reminder публикует reservation.reminder для каждой pending/confirmed брони на завтра.
type Reminder struct {
	reservations ReservationSource
	publisher    broker.Publisher
	clock        booking.Clock
	log          *slog.Logger
}

func NewReminder(reservations ReservationSource, publisher broker.Publisher, clock booking.Clock, log *slog.Logger) *Reminder {
	if log == nil {
		log = slog.Default()
	}
	return &Reminder{reservations: reservations, publisher: publisher, clock: clock, log: log}
}

// Run выполняет один обход и возвращает число отправленных напоминаний.
// Неудачная публикация обход не останавливает.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	now := r.clock.Now()
	tomorrow := utils.DateOf(now).AddDate(0, 0, 1)

	due, err := r.reservations.ListByDate(ctx, tomorrow,
		model.ReservationStatusPending,
		model.ReservationStatusConfirmed,
	)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for i := range due {
		ev := broker.NewReservationEvent(broker.TopicReservationReminder, &due[i], now)
		if due[i].Restaurant != nil {
			ev.Metadata["restaurantName"] = due[i].Restaurant.Name
		}
		if err := r.publisher.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}

	r.log.Info("reminder sweep finished",
		slog.String("date", tomorrow.Format("2006-01-02")),
		slog.Int("due", len(due)),
		slog.Int("sent", sent),
	)
	return sent, errors.Join(errs...)
}

// cronLogger перенаправляет сообщения cron в slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

// Schedule ставит обход на стандартное пятипольное cron-расписание.
// Возвращённый планировщик ещё не запущен.

func Schedule(spec string, reminder *Reminder, timeout time.Duration, log *slog.Logger) (*cron.Cron, error) {
	if log == nil {
		log = slog.Default()
	}
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := reminder.Run(ctx); err != nil {
			log.Error("reminder sweep failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
