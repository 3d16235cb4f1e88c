package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/cache"
	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/utils"
)

// RestaurantService — минимальное администрирование ресторанов и столов.
type RestaurantService struct {
	store   *repository.Store
	slots   cache.SlotCache
	clock   booking.Clock
	horizon int
	log     *slog.Logger
}

func NewRestaurantService(store *repository.Store, slots cache.SlotCache, clock booking.Clock, horizonDays int, log *slog.Logger) *RestaurantService {
	if slots == nil {
		slots = cache.None{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &RestaurantService{store: store, slots: slots, clock: clock, horizon: horizonDays, log: log}
}

type CreateRestaurantInput struct {
	Name               string
	Location           string
	Cuisine            string
	OpeningTime        time.Duration
	ClosingTime        time.Duration
	BookingDurationMin *int64
}

// Create регистрирует ресторан владельца actor.
func (s *RestaurantService) Create(ctx context.Context, actor Actor, in CreateRestaurantInput) (*model.Restaurant, error) {
	if actor.Role != model.UserRoleOwner && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := booking.ValidateHours(in.OpeningTime, in.ClosingTime); err != nil {
		return nil, booking.Invalid(err)
	}
	if d := in.BookingDurationMin; d != nil && (*d <= 0 || time.Duration(*d)*time.Minute > booking.MaxDuration) {
		return nil, fmt.Errorf("%w: booking duration must be between 1 and %d minutes",
			ErrInvalidInput, int64(booking.MaxDuration/time.Minute))
	}


	r := &model.Restaurant{
		OwnerID:            actor.UserID,
		Name:               in.Name,
		Location:           in.Location,
		Cuisine:            in.Cuisine,
		OpeningTime:        datatypes.Time(in.OpeningTime),
		ClosingTime:        datatypes.Time(in.ClosingTime),
		BookingDurationMin: in.BookingDurationMin,
		IsActive:           true,
	}
	if err := s.store.Restaurants.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RestaurantService) ownedRestaurant(ctx context.Context, actor Actor, id uuid.UUID) (*model.Restaurant, error) {
	r, err := s.store.Restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(r) {
		return nil, ErrForbidden
	}
	return r, nil
}

// Get возвращает ресторан.
func (s *RestaurantService) Get(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return s.store.Restaurants.GetByID(ctx, id)
}

// FeaturedLimit — сколько ресторанов отдаёт Featured.
const FeaturedLimit = 6

// List — каталог активных ресторанов по фильтру, лучшие по оценке первыми.
func (s *RestaurantService) List(ctx context.Context, filter repository.RestaurantFilter, page, pageSize int) (calendar.Page[model.Restaurant], error) {
	if filter.MinRating != nil && filter.MaxRating != nil && *filter.MinRating > *filter.MaxRating {
		return calendar.Page[model.Restaurant]{}, fmt.Errorf("%w: rating_min is greater than rating_max", ErrInvalidInput)
	}
	limit, offset := calendar.Window(page, pageSize)
	items, total, err := s.store.Restaurants.List(ctx, filter, limit, offset)
	if err != nil {
		return calendar.Page[model.Restaurant]{}, err
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}

// Featured — рестораны с самой высокой оценкой.
func (s *RestaurantService) Featured(ctx context.Context) ([]model.Restaurant, error) {
	items, _, err := s.store.Restaurants.List(ctx, repository.RestaurantFilter{}, FeaturedLimit, 0)
	return items, err
}

// Cuisines — кухни активных ресторанов.
func (s *RestaurantService) Cuisines(ctx context.Context) ([]string, error) {
	return s.store.Restaurants.ListCuisines(ctx)
}

// AddTable добавляет стол; номер уникален в пределах ресторана.
func (s *RestaurantService) AddTable(ctx context.Context, actor Actor, restaurantID uuid.UUID, number, capacity int) (*model.Table, error) {
	r, err := s.ownedRestaurant(ctx, actor, restaurantID)
	if err != nil {
		return nil, err
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: table capacity must be at least 1, got %d", ErrInvalidInput, capacity)
	}

	t := &model.Table{
		RestaurantID: r.ID,
		Number:       number,
		Capacity:     capacity,
		Status:       model.TableStatusAvailable,
		IsActive:     true,
	}
	if err := s.store.Tables.Create(ctx, t); err != nil {
		if repository.IsConflict(err) {
			return nil, booking.BadState("table %d already exists", number)
		}
		return nil, err
	}
	s.invalidateFrom(ctx, r.ID)
	return t, nil
}

// UpdateTable меняет статус стола и/или флаг активности.
func (s *RestaurantService) UpdateTable(ctx context.Context, actor Actor, tableID uuid.UUID, status *model.TableStatus, active *bool) (*model.Table, error) {
	t, err := s.store.Tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRestaurant(ctx, actor, t.RestaurantID); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrInvalidInput, *status)
	}

	if err := s.store.Tables.UpdateState(ctx, t.ID, status, active); err != nil {
		return nil, err
	}
	if status != nil {
		t.Status = *status
	}
	if active != nil {
		t.IsActive = *active
	}
	s.invalidateFrom(ctx, t.RestaurantID)
	return t, nil
}

// Deactivate закрывает ресторан для новых броней. Существующие остаются в истории.
func (s *RestaurantService) Deactivate(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.ownedRestaurant(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Restaurants.SetActive(ctx, id, false)
}

// invalidateFrom сбрасывает кэш сеток на все доступные для брони дни.
func (s *RestaurantService) invalidateFrom(ctx context.Context, restaurantID uuid.UUID) {
	today := utils.DateOf(s.clock.Now())
	dates := make([]time.Time, 0, s.horizon+1)
	for i := 0; i <= s.horizon; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	if err := s.slots.Invalidate(ctx, restaurantID, dates...); err != nil {
		s.log.Warn("slot cache invalidation failed", slog.String("restaurant_id", restaurantID.String()), slog.Any("error", err))
	}
}
