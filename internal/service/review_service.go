package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

// ErrAlreadyReviewed — пользователь уже оставил отзыв этому ресторану.
var ErrAlreadyReviewed = errors.New("restaurant already reviewed")

// ReviewService — отзывы гостей и средняя оценка ресторана.
type ReviewService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewReviewService(store *repository.Store, log *slog.Logger) *ReviewService {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewService{store: store, log: log}
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// Add сохраняет отзыв actor и в той же транзакции пересчитывает оценку ресторана.
func (s *ReviewService) Add(ctx context.Context, actor Actor, restaurantID uuid.UUID, in ReviewInput) (*model.Review, error) {
	if in.Rating < model.MinReviewRating || in.Rating > model.MaxReviewRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d, got %d",
			ErrInvalidInput, model.MinReviewRating, model.MaxReviewRating, in.Rating)
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}

	var created *model.Review
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := calendar.ValidateBookingUser(ctx, tx.Users, actor.UserID, repository.ErrNotFound); err != nil {
			if errors.Is(err, calendar.ErrUserNotFound) || errors.Is(err, calendar.ErrUserInactive) || errors.Is(err, calendar.ErrInvalidUserID) {
				return fmt.Errorf("%w: %w", ErrForbidden, err)
			}
			return err
		}

		restaurant, err := tx.Restaurants.GetByID(ctx, restaurantID)
		if err != nil {
			return err
		}
		if !restaurant.IsActive {
			return ErrNotFound
		}

		review := &model.Review{
			UserID:       actor.UserID,
			RestaurantID: restaurant.ID,
			Rating:       in.Rating,
			Comment:      comment,
		}
		if err := tx.Reviews.Create(ctx, review); err != nil {
			if repository.IsDuplicate(err) {
				return ErrAlreadyReviewed
			}
			return err
		}

		avg, count, err := tx.Reviews.Stats(ctx, restaurant.ID)
		if err != nil {
			return err
		}
		if err := tx.Restaurants.UpdateRating(ctx, restaurant.ID, math.Round(avg*100)/100, count); err != nil {
			return err
		}

		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review added",
		slog.String("restaurant_id", restaurantID.String()),
		slog.String("user_id", actor.UserID.String()),
		slog.Int("rating", in.Rating),
	)
	return created, nil
}

// List — отзывы ресторана, новые первыми.
func (s *ReviewService) List(ctx context.Context, restaurantID uuid.UUID, page, pageSize int) (calendar.Page[model.Review], error) {
	if _, err := s.store.Restaurants.GetByID(ctx, restaurantID); err != nil {
		return calendar.Page[model.Review]{}, err
	}
	limit, offset := calendar.Window(page, pageSize)
	items, total, err := s.store.Reviews.ListByRestaurant(ctx, restaurantID, limit, offset)
	if err != nil {
		return calendar.Page[model.Review]{}, err
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}
