package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/broker"
	"github.com/Leganyst/booking-core/internal/cache"
	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/utils"
)

// BookingService — точка принятия решения о брони: выбор стола и запись
// брони происходят в одной транзакции под блокировкой столов ресторана.
type BookingService struct {
	store     *repository.Store
	policy    booking.Policy
	clock     booking.Clock
	log       *slog.Logger
	publisher broker.Publisher
	slots     cache.SlotCache
}

func NewBookingService(
	store *repository.Store,
	policy booking.Policy,
	clock booking.Clock,
	log *slog.Logger,
	publisher broker.Publisher,
	slots cache.SlotCache,
) *BookingService {
	if log == nil {
		log = slog.Default()
	}
	if publisher == nil {
		publisher = broker.Noop{}
	}
	if slots == nil {
		slots = cache.None{}
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &BookingService{
		store:     store,
		policy:    policy,
		clock:     clock,
		log:       log,
		publisher: publisher,
		slots:     slots,
	}
}

// Policy — действующие правила бронирования.
func (s *BookingService) Policy() booking.Policy { return s.policy }

// BookRequest — запрос на бронирование.
type BookRequest struct {
	UserID       uuid.UUID
	RestaurantID uuid.UUID
	Date         time.Time
	Time         time.Duration // смещение от полуночи
	PartyGuests  int
	// 0 — длительность ресторана или политики.
	Duration time.Duration

	SpecialRequests     string
	DietaryRestrictions string
	ChildsChair         bool
}

// UpdateRequest — изменение брони; nil-поля не меняются.
type UpdateRequest struct {
	Date                *time.Time
	Time                *time.Duration
	PartyGuests         *int
	SpecialRequests     *string
	DietaryRestrictions *string
	ChildsChair         *bool
}

// Availability — результат проверки свободных столов.
type Availability struct {
	Available bool
	Interval  utils.TimeRange
	Tables    []model.Table
}

// userFailure превращает отказ по пользователю в InvalidRequest. Ошибки
// хранилища возвращаются как есть.
func userFailure(err error) error {
	if errors.Is(err, calendar.ErrInvalidUserID) ||
		errors.Is(err, calendar.ErrUserNotFound) ||
		errors.Is(err, calendar.ErrUserInactive) {
		return booking.Invalid(err)
	}
	return err
}

func invalidParty(guests int) error {
	return booking.Invalid(&booking.ValidationError{
		Kind:   booking.InvalidParty,
		Detail: fmt.Sprintf("party size must be at least 1, got %d", guests),
	})
}

// inTx выполняет fn в транзакции и повторяет её целиком при конфликте
// блокировок или уникальности. Возвращает последнюю ошибку.
func (s *BookingService) inTx(ctx context.Context, op string, fn func(tx *repository.Store) error) error {
	var err error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		err = s.store.InTx(ctx, fn)
		if !repository.IsConflict(err) {
			return err
		}
		s.log.Warn("booking transaction conflict",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
	}
	return err
}

// Book атомарно подбирает стол и сохраняет бронь для req.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*model.Reservation, error) {
	if req.PartyGuests < 1 {
		return nil, invalidParty(req.PartyGuests)
	}

	now := s.clock.Now()
	var created *model.Reservation

	err := s.inTx(ctx, "book", func(tx *repository.Store) error {
		// Блокировка идёт первой: все чтения ниже видят уже закоммиченные конкурирующие брони.
		if _, err := tx.Tables.LockActiveTables(ctx, req.RestaurantID); err != nil {
			return err
		}

		if _, err := calendar.ValidateBookingUser(ctx, tx.Users, req.UserID, repository.ErrNotFound); err != nil {
			return userFailure(err)
		}

		restaurant, err := tx.Restaurants.GetByID(ctx, req.RestaurantID)
		if err != nil {
			return err
		}
		if err := s.policy.Validate(restaurant, req.Date, req.Time, now); err != nil {
			return booking.Invalid(err)
		}

		duration := s.policy.DurationFor(restaurant, req.Duration)
		candidate := utils.IntervalFor(req.Date, req.Time, duration)
		if err := booking.ValidateSitting(candidate); err != nil {
			return booking.Invalid(err)
		}

		alloc := booking.NewAllocator(tx.Tables, booking.NewChecker(tx.Reservations))
		table, err := alloc.Allocate(ctx, restaurant.ID, req.PartyGuests, candidate)
		if errors.Is(err, booking.ErrNoTableAvailable) {
			return booking.Unavailable(fmt.Sprintf("no table for %d guests at %s", req.PartyGuests, candidate))
		}
		if err != nil {
			return err
		}

		r := &model.Reservation{
			UserID:              req.UserID,
			RestaurantID:        restaurant.ID,
			TableID:             table.ID,
			PartyGuests:         req.PartyGuests,
			Status:              s.policy.InitialStatus,
			SpecialRequests:     req.SpecialRequests,
			DietaryRestrictions: req.DietaryRestrictions,
			ChildsChair:         req.ChildsChair,
		}
		if r.Status == "" {
			r.Status = model.ReservationStatusPending
		}
		r.SetInterval(req.Date, req.Time, duration)

		if err := tx.Reservations.Create(ctx, r); err != nil {
			return err
		}
		if err := tx.Events.Record(ctx, model.EventTypeReservationCreated, &r.UserID, &r.ID, map[string]any{
			"table_id":     table.ID,
			"table_number": table.Number,
			"interval":     candidate.String(),
			"party_guests": r.PartyGuests,
		}); err != nil {
			return err
		}

		created = r
		return nil
	})
	if err != nil {
		return nil, s.bookingFailure("book", err, slog.String("restaurant_id", req.RestaurantID.String()))
	}

	s.log.Info("reservation booked",
		slog.String("reservation_id", created.ID.String()),
		slog.String("table_id", created.TableID.String()),
		slog.String("interval", created.Interval().String()),
	)
	s.afterCommit(ctx, broker.TopicReservationCreated, created, created.Interval().Start)
	return created, nil
}

// bookingFailure переводит исчерпанные конфликты в NoAvailability и пишет в лог
// по уровню: отказ в свободном столе — обычный исход, не ошибка.
func (s *BookingService) bookingFailure(op string, err error, attrs ...any) error {
	if repository.IsConflict(err) {
		err = booking.Unavailable("concurrent bookings took every suitable table")
	}
	switch booking.KindOf(err) {
	case booking.NoAvailability:
		s.log.Info("no availability", append(attrs, slog.String("op", op), slog.String("reason", err.Error()))...)
	case "":
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
			s.log.Error("booking operation failed", append(attrs, slog.String("op", op), slog.Any("error", err))...)
		}
	}
	return err
}

// afterCommit публикует событие и сбрасывает кэш сетки слотов; ошибки только логируются.
func (s *BookingService) afterCommit(ctx context.Context, topic string, r *model.Reservation, dates ...time.Time) {
	if err := s.slots.Invalidate(ctx, r.RestaurantID, dates...); err != nil {
		s.log.Warn("slot cache invalidation failed", slog.String("restaurant_id", r.RestaurantID.String()), slog.Any("error", err))
	}
	if err := s.publisher.Publish(ctx, broker.NewReservationEvent(topic, r, s.clock.Now())); err != nil {
		s.log.Warn("publish event failed", slog.String("topic", topic), slog.Any("error", err))
	}
}

// Cancel отменяет бронь от имени гостя, владельца ресторана или администратора.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*model.Reservation, error) {
	now := s.clock.Now()
	var cancelled *model.Reservation

	err := s.inTx(ctx, "cancel", func(tx *repository.Store) error {
		r, err := tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, tx, actor, r, true); err != nil {
			return err
		}
		if err := booking.CanCancel(r, now, s.policy.CancellationWindow); err != nil {
			return err
		}

		at := now.UTC()
		if err := tx.Reservations.UpdateStatus(ctx, r.ID, model.ReservationStatusCancelled, &at); err != nil {
			return err
		}
		if err := tx.Events.Record(ctx, model.EventTypeReservationCancelled, &actor.UserID, &r.ID, map[string]any{
			"previous_status": r.Status,
		}); err != nil {
			return err
		}

		r.Status = model.ReservationStatusCancelled
		r.CancelledAt = &at
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, s.bookingFailure("cancel", err, slog.String("reservation_id", id.String()))
	}

	s.afterCommit(ctx, broker.TopicReservationCancelled, cancelled, cancelled.Interval().Start)
	return cancelled, nil
}

// Update переносит бронь на новую дату, время или состав. Текущий стол
// остаётся, если он подходит и свободен от остальных броней; иначе стол
// подбирается так же, как в Book.
func (s *BookingService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*model.Reservation, error) {
	if req.PartyGuests != nil && *req.PartyGuests < 1 {
		return nil, invalidParty(*req.PartyGuests)
	}

	now := s.clock.Now()
	var (
		updated *model.Reservation
		oldDate time.Time
	)

	err := s.inTx(ctx, "update", func(tx *repository.Store) error {
		r, err := tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Tables.LockActiveTables(ctx, r.RestaurantID); err != nil {
			return err
		}
		if err := s.authorize(ctx, tx, actor, r, false); err != nil {
			return err
		}
		if err := booking.CanModify(r); err != nil {
			return err
		}

		restaurant, err := tx.Restaurants.GetByID(ctx, r.RestaurantID)
		if err != nil {
			return err
		}

		previous := r.Interval()
		date := time.Time(r.Date)
		clock := time.Duration(r.RequestedTime)
		guests := r.PartyGuests
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			clock = *req.Time
		}
		if req.PartyGuests != nil {
			guests = *req.PartyGuests
		}

		slotChanged := req.Date != nil || req.Time != nil || guests != r.PartyGuests
		if slotChanged {
			if err := s.policy.Validate(restaurant, date, clock, now); err != nil {
				return booking.Invalid(err)
			}

			candidate := utils.IntervalFor(date, clock, r.Duration())
			if err := booking.ValidateSitting(candidate); err != nil {
				return booking.Invalid(err)
			}
			checker := booking.NewChecker(tx.Reservations)
			alloc := booking.NewAllocator(tx.Tables, checker)

			current, err := tx.Tables.GetByID(ctx, r.TableID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			keep := false
			if current != nil && booking.Fits(current, guests) {
				keep, err = checker.IsAvailable(ctx, current, candidate, r.ID)
				if err != nil {
					return err
				}
			}
			if !keep {
				table, err := alloc.Allocate(ctx, r.RestaurantID, guests, candidate, r.ID)
				if errors.Is(err, booking.ErrNoTableAvailable) {
					return booking.Unavailable(fmt.Sprintf("no table for %d guests at %s", guests, candidate))
				}
				if err != nil {
					return err
				}
				r.TableID = table.ID
			}
			r.SetInterval(date, clock, r.Duration())
			r.PartyGuests = guests
		}

		if req.SpecialRequests != nil {
			r.SpecialRequests = *req.SpecialRequests
		}
		if req.DietaryRestrictions != nil {
			r.DietaryRestrictions = *req.DietaryRestrictions
		}
		if req.ChildsChair != nil {
			r.ChildsChair = *req.ChildsChair
		}

		if err := tx.Reservations.UpdateSlot(ctx, r); err != nil {
			return err
		}
		if err := tx.Events.Record(ctx, model.EventTypeReservationUpdated, &actor.UserID, &r.ID, map[string]any{
			"previous_interval": previous.String(),
			"interval":          r.Interval().String(),
			"table_id":          r.TableID,
			"party_guests":      r.PartyGuests,
		}); err != nil {
			return err
		}

		oldDate = previous.Start
		updated = r
		return nil
	})
	if err != nil {
		return nil, s.bookingFailure("update", err, slog.String("reservation_id", id.String()))
	}

	s.afterCommit(ctx, broker.TopicReservationUpdated, updated, oldDate, updated.Interval().Start)
	return updated, nil
}

// Transition — смена статуса персоналом (confirm, seat, complete, no-show).
func (s *BookingService) Transition(ctx context.Context, actor Actor, id uuid.UUID, to model.ReservationStatus) (*model.Reservation, error) {
	var changed *model.Reservation

	err := s.inTx(ctx, "transition", func(tx *repository.Store) error {
		r, err := tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		restaurant, err := tx.Restaurants.GetByID(ctx, r.RestaurantID)
		if err != nil {
			return err
		}
		if !actor.owns(restaurant) {
			return ErrForbidden
		}
		if err := booking.CanTransition(r.Status, to); err != nil {
			return err
		}

		if err := tx.Reservations.UpdateStatus(ctx, r.ID, to, nil); err != nil {
			return err
		}
		if err := tx.Events.Record(ctx, model.EventTypeReservationStatusChanged, &actor.UserID, &r.ID, map[string]any{
			"from": r.Status,
			"to":   to,
		}); err != nil {
			return err
		}

		r.Status = to
		changed = r
		return nil
	})
	if err != nil {
		return nil, s.bookingFailure("transition", err, slog.String("reservation_id", id.String()))
	}

	s.afterCommit(ctx, broker.TopicReservationStatusChanged, changed, changed.Interval().Start)
	return changed, nil
}

// authorize пропускает гостя брони, администратора и (если staff) владельца ресторана.
func (s *BookingService) authorize(ctx context.Context, tx *repository.Store, actor Actor, r *model.Reservation, staff bool) error {
	if actor.IsAdmin() || r.UserID == actor.UserID {
		return nil
	}
	if staff {
		restaurant, err := tx.Restaurants.GetByID(ctx, r.RestaurantID)
		if err != nil {
			return err
		}
		if actor.owns(restaurant) {
			return nil
		}
	}
	// Чужие брони не раскрываем.
	return ErrNotFound
}

// Get возвращает бронь, видимую actor.
func (s *BookingService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Reservation, error) {
	r, err := s.store.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, s.store, actor, r, true); err != nil {
		return nil, err
	}
	return r, nil
}

// History — журнал аудита брони с пагинацией.
func (s *BookingService) History(ctx context.Context, actor Actor, id uuid.UUID, page, pageSize int) (calendar.Page[model.Event], error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return calendar.Page[model.Event]{}, err
	}
	events, err := s.store.Events.ListByReservation(ctx, id)
	if err != nil {
		return calendar.Page[model.Event]{}, err
	}
	return calendar.Paginate(events, page, pageSize), nil
}

// CheckAvailability перечисляет свободные столы под guests на date/time в
// порядке распределения. Правила ресторана те же, что и в Book.
func (s *BookingService) CheckAvailability(
	ctx context.Context,
	restaurantID uuid.UUID,
	date time.Time,
	clock time.Duration,
	guests int,
) (*Availability, error) {
	if guests < 1 {
		return nil, invalidParty(guests)
	}
	restaurant, err := s.store.Restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Validate(restaurant, date, clock, s.clock.Now()); err != nil {
		return nil, booking.Invalid(err)
	}

	candidate := utils.IntervalFor(date, clock, s.policy.DurationFor(restaurant, 0))
	if err := booking.ValidateSitting(candidate); err != nil {
		return nil, booking.Invalid(err)
	}
	alloc := booking.NewAllocator(s.store.Tables, booking.NewChecker(s.store.Reservations))
	tables, err := alloc.Candidates(ctx, restaurant.ID, guests, candidate)
	if err != nil {
		return nil, err
	}

	return &Availability{Available: len(tables) > 0, Interval: candidate, Tables: tables}, nil
}

// SlotGrid возвращает сетку доступности ресторана на date. guests <= 0
// учитывает все активные столы.
func (s *BookingService) SlotGrid(ctx context.Context, restaurantID uuid.UUID, date time.Time, guests int) ([]booking.Slot, error) {
	restaurant, err := s.store.Restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	day := utils.DateOf(date)

	key := cache.SlotKey{RestaurantID: restaurant.ID, Date: day, Guests: max(guests, 0)}
	return s.slots.GetOrLoad(ctx, key, func(ctx context.Context) ([]booking.Slot, error) {
		tables, err := s.store.Tables.ListActiveTables(ctx, restaurant.ID)
		if err != nil {
			return nil, err
		}
		reservations, err := s.store.Reservations.ListActiveForRestaurant(ctx, restaurant.ID, utils.DayRange(day))

		if err != nil {
			return nil, err
		}
		return booking.SlotGrid(restaurant, day, tables, reservations, s.policy.SlotStep, s.policy.DurationFor(restaurant, 0), guests)
	})
}

// ListUpcoming — pending/confirmed брони пользователя начиная с сегодня.
func (s *BookingService) ListUpcoming(ctx context.Context, userID uuid.UUID, page, pageSize int) (calendar.Page[model.Reservation], error) {
	limit, offset := calendar.Window(page, pageSize)
	items, total, err := s.store.Reservations.ListUpcomingByUser(ctx, userID, utils.DateOf(s.clock.Now()), limit, offset)
	if err != nil {
		return calendar.Page[model.Reservation]{}, err
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}

// ListHistory — брони пользователя с датой раньше сегодняшней.
func (s *BookingService) ListHistory(ctx context.Context, userID uuid.UUID, page, pageSize int) (calendar.Page[model.Reservation], error) {
	limit, offset := calendar.Window(page, pageSize)
	items, total, err := s.store.Reservations.ListHistoryByUser(ctx, userID, utils.DateOf(s.clock.Now()), limit, offset)
	if err != nil {
		return calendar.Page[model.Reservation]{}, err
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}
