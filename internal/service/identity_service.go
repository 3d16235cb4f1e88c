package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

var ErrInvalidEmail = fmt.Errorf("%w: email is required", ErrInvalidInput)

// IdentityService ведёт проекцию пользователей, от имени которых делаются брони.
type IdentityService struct {
	userRepo repository.UserRepository
}

func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

// RegisterUser создаёт пользователя по email или возвращает существующего, обновляя контактные данные.
// Роль выше customer может назначить только администратор.
func (s *IdentityService) RegisterUser(ctx context.Context, actor *Actor, email, displayName, phone string, role model.UserRole) (*model.User, error) {
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = model.UserRoleCustomer
	}
	if role != model.UserRoleCustomer && (actor == nil || !actor.IsAdmin()) {
		return nil, ErrForbidden
	}
	return s.userRepo.UpsertUser(ctx, email, displayName, phone, role)
}

// GetProfile возвращает профиль пользователя по ID.
func (s *IdentityService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SetActive блокирует или разблокирует пользователя (только администратор).
func (s *IdentityService) SetActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, id, active)
}
