package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/booking-core/internal/model"
)

type TableRepository interface {
	// Добавить стол в ресторан.
	Create(ctx context.Context, table *model.Table) error
	// Получить стол по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	// Активные столы ресторана.
	ListActiveTables(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error)
	// Активные столы ресторана под блокировкой FOR UPDATE (в порядке id).
	LockActiveTables(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error)
	// Обновить статус и/или флаг активности стола.
	UpdateState(ctx context.Context, id uuid.UUID, status *model.TableStatus, active *bool) error
}

type GormTableRepository struct {
	db *gorm.DB
}

func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

func (r *GormTableRepository) Create(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *GormTableRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *GormTableRepository) activeQuery(ctx context.Context, restaurantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("id ASC")
}

func (r *GormTableRepository) ListActiveTables(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error) {
	var tables []model.Table
	if err := r.activeQuery(ctx, restaurantID).Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// LockActiveTables вызывается только внутри транзакции. Строки блокируются
// в порядке id: конкурирующие брони встают в очередь, а не в дедлок.
// В SQLite блокировок строк нет, клауза игнорируется, писатель там один.
func (r *GormTableRepository) LockActiveTables(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error) {
	var tables []model.Table
	err := r.activeQuery(ctx, restaurantID).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *GormTableRepository) UpdateState(ctx context.Context, id uuid.UUID, status *model.TableStatus, active *bool) error {
	update := map[string]any{}
	if status != nil {
		update["status"] = *status
	}
	if active != nil {
		update["is_active"] = *active
	}
	if len(update) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
