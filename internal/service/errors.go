package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

var (
	// ErrNotFound — сущность не найдена (или скрыта от вызывающего).
	ErrNotFound = repository.ErrNotFound
	// ErrForbidden — у вызывающего нет прав на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput — некорректные данные запроса вне правил бронирования.
	ErrInvalidInput = errors.New("invalid input")
)

// Actor — аутентифицированный вызывающий.
type Actor struct {
	UserID uuid.UUID
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == model.UserRoleAdmin }

// owns: администратор или владелец ресторана.
func (a Actor) owns(r *model.Restaurant) bool {
	return a.IsAdmin() || (r != nil && r.OwnerID == a.UserID)
}
