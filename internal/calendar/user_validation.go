package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
)

// Ошибки валидации пользователя, оформляющего бронь.
var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserInactive  = errors.New("user is inactive")
)

// Источник данных о пользователях.
// В реале это репозиторий поверх БД, в тестах — мок.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ValidateBookingUser:
//   - проверяет идентификатор;
//   - вытаскивает пользователя из хранилища;
//   - проверяет, что учётная запись активна.
//
// Ошибка хранилища «не найдено» должна приходить как nil-пользователь
// или как notFound (сравнивается через errors.Is).
func ValidateBookingUser(
	ctx context.Context,
	store UserStore,
	userID uuid.UUID,
	notFound error,
) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	u, err := store.GetByID(ctx, userID)
	if err != nil {
		if notFound != nil && errors.Is(err, notFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return u, nil
}
