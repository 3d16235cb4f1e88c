package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type ReviewRepository interface {
	// Создать отзыв. Повторный отзыв того же пользователя даёт gorm.ErrDuplicatedKey.
	Create(ctx context.Context, review *model.Review) error
	// Отзывы ресторана, новые первыми, с пагинацией.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]model.Review, int64, error)
	// Средняя оценка и число отзывов ресторана.
	Stats(ctx context.Context, restaurantID uuid.UUID) (avg float64, count int64, err error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepository) ListByRestaurant(
	ctx context.Context,
	restaurantID uuid.UUID,
	limit, offset int,
) ([]model.Review, int64, error) {
	var (
		out   []model.Review
		total int64
	)

	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("restaurant_id = ?", restaurantID)
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Preload("User").Order("created_at DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *GormReviewRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (float64, int64, error) {
	var row struct {
		AvgRating float64
		Reviews   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS reviews").
		Where("restaurant_id = ?", restaurantID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.AvgRating, row.Reviews, nil
}
