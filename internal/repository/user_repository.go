package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Создать или обновить проекцию пользователя по email.
	UpsertUser(ctx context.Context, email, displayName, phone string, role model.UserRole) (*model.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	// Оставляем только цифры.
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUserRepository) UpsertUser(ctx context.Context, email, displayName, phone string, role model.UserRole) (*model.User, error) {
	email = normalizeEmail(email)
	phone = normalizePhone(phone)
	if role == "" {
		role = model.UserRoleCustomer
	}

	u, err := r.FindByEmail(ctx, email)
	if err == ErrNotFound {
		u = &model.User{
			Email:       email,
			DisplayName: displayName,
			Phone:       phone,
			Role:        role,
			IsActive:    true,
		}
		if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
			return nil, err
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	// обновляем существующего
	updates := map[string]any{
		"display_name": displayName,
		"phone":        phone,
		"role":         role,
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", u.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	u.DisplayName = displayName
	u.Phone = phone
	u.Role = role
	return u, nil
}

func (r *GormUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active).
		Error
}
