package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

type ReservationRepository interface {
	// Создать бронирование.
	Create(ctx context.Context, reservation *model.Reservation) error
	// Получить бронирование по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Получить бронирование под блокировкой строки (внутри транзакции).
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Занимающие стол бронирования, пересекающие window, по времени начала.
	// Отбор по starts_at/ends_at, а не по дате: визит, перешедший через полночь, тоже попадёт.
	ListActiveForTable(ctx context.Context, tableID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error)
	// Занимающие бронирования всего ресторана, пересекающие window.
	ListActiveForRestaurant(ctx context.Context, restaurantID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error)
	// Бронирования на дату в статусах statuses (для рассылки напоминаний).
	ListByDate(ctx context.Context, date time.Time, statuses ...model.ReservationStatus) ([]model.Reservation, error)
	// Обновить статус (например, при отмене).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus, cancelledAt *time.Time) error
	// Перезаписать стол, время и состав брони.
	UpdateSlot(ctx context.Context, reservation *model.Reservation) error
	// Предстоящие бронирования пользователя с пагинацией.
	ListUpcomingByUser(ctx context.Context, userID uuid.UUID, today time.Time, limit, offset int) ([]model.Reservation, int64, error)
	// Прошедшие бронирования пользователя с пагинацией.
	ListHistoryByUser(ctx context.Context, userID uuid.UUID, today time.Time, limit, offset int) ([]model.Reservation, int64, error)
}

type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func dateParam(t time.Time) datatypes.Date {
	return datatypes.Date(utils.DateOf(t))
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *GormReservationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&res, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

// overlapping ограничивает выборку бронями, чей [starts_at, ends_at) пересекает window.
func overlapping(q *gorm.DB, window utils.TimeRange) *gorm.DB {
	return q.Where("starts_at < ? AND ends_at > ?", window.End, window.Start).
		Where("status IN ?", model.OccupyingStatuses)
}

func (r *GormReservationRepository) ListActiveForTable(ctx context.Context, tableID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error) {
	var out []model.Reservation
	err := overlapping(r.db.WithContext(ctx).Where("table_id = ?", tableID), window).
		Order("starts_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormReservationRepository) ListActiveForRestaurant(ctx context.Context, restaurantID uuid.UUID, window utils.TimeRange) ([]model.Reservation, error) {
	var out []model.Reservation
	err := overlapping(r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID), window).
		Order("starts_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormReservationRepository) ListByDate(ctx context.Context, date time.Time, statuses ...model.ReservationStatus) ([]model.Reservation, error) {
	var out []model.Reservation
	q := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("date = ?", dateParam(date))
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("starts_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormReservationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.ReservationStatus,
	cancelledAt *time.Time,
) error {
	update := map[string]any{
		"status": status,
	}
	if cancelledAt != nil {
		update["cancelled_at"] = *cancelledAt
	}
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(update).
		Error
}

func (r *GormReservationRepository) UpdateSlot(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]any{
			"table_id":             reservation.TableID,
			"date":                 reservation.Date,
			"requested_time":       reservation.RequestedTime,
			"duration_min":         reservation.DurationMin,
			"starts_at":            reservation.StartsAt,
			"ends_at":              reservation.EndsAt,
			"party_guests":         reservation.PartyGuests,
			"special_requests":     reservation.SpecialRequests,
			"dietary_restrictions": reservation.DietaryRestrictions,
			"childs_chair":         reservation.ChildsChair,
		}).
		Error
}

func (r *GormReservationRepository) listByUser(
	ctx context.Context,
	q *gorm.DB,
	order string,
	limit, offset int,
) ([]model.Reservation, int64, error) {
	var (
		out   []model.Reservation
		total int64
	)

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Preload("Restaurant").Order(order).Find(&out).Error; err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *GormReservationRepository) ListUpcomingByUser(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	limit, offset int,
) ([]model.Reservation, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("user_id = ? AND date >= ?", userID, dateParam(today)).
		Where("status IN ?", []model.ReservationStatus{model.ReservationStatusPending, model.ReservationStatusConfirmed})
	return r.listByUser(ctx, q, "starts_at ASC", limit, offset)
}

func (r *GormReservationRepository) ListHistoryByUser(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	limit, offset int,
) ([]model.Reservation, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("user_id = ? AND date < ?", userID, dateParam(today))
	return r.listByUser(ctx, q, "starts_at DESC", limit, offset)
}
