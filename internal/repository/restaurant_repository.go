package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type RestaurantRepository interface {
	// Создать ресторан.
	Create(ctx context.Context, restaurant *model.Restaurant) error
	// Получить ресторан по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	// Включить/выключить приём бронирований (ресторан не удаляется).
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Активные рестораны по фильтру, сначала с высокой оценкой, с пагинацией.
	List(ctx context.Context, filter RestaurantFilter, limit, offset int) ([]model.Restaurant, int64, error)
	// Различные непустые кухни активных ресторанов, по алфавиту.
	ListCuisines(ctx context.Context) ([]string, error)
	// Записать пересчитанную среднюю оценку.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviews int64) error
}

// RestaurantFilter — фильтр каталога. Строки ищутся подстрокой без учёта регистра.
type RestaurantFilter struct {
	Name      string
	Location  string
	Cuisine   string
	MinRating *float64
	MaxRating *float64
}

type GormRestaurantRepository struct {
	db *gorm.DB
}

func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

func (r *GormRestaurantRepository) Create(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *GormRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := r.db.WithContext(ctx).First(&rest, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

func (r *GormRestaurantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func containsParam(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func (r *GormRestaurantRepository) List(
	ctx context.Context,
	filter RestaurantFilter,
	limit, offset int,
) ([]model.Restaurant, int64, error) {
	var (
		out   []model.Restaurant
		total int64
	)

	q := r.db.WithContext(ctx).Model(&model.Restaurant{}).Where("is_active = ?", true)
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", containsParam(filter.Name))
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", containsParam(filter.Location))
	}
	if filter.Cuisine != "" {
		q = q.Where("LOWER(cuisine) LIKE ?", containsParam(filter.Cuisine))
	}
	if filter.MinRating != nil {
		q = q.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		q = q.Where("rating <= ?", *filter.MaxRating)
	}

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Order("rating DESC").Order("name ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *GormRestaurantRepository) ListCuisines(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("is_active = ? AND cuisine <> ?", true, "").
		Distinct().
		Order("cuisine ASC").
		Pluck("cuisine", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRestaurantRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviews int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "review_count": reviews})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
