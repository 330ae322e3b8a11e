package repository

import (
	"context"
	"fmt"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subcategoryRepository struct {
	db *gorm.DB
}

// NewSubcategoryRepository создает новый репозиторий подкатегорий
func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

// GetByNameAndCategory ищет подкатегорию в пределах категории
func (r *subcategoryRepository) GetByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Subcategory, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "subcategories")
	defer timer.ObserveDuration()

	var subcategories []entity.Subcategory
	result := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		Order("created_at ASC").
		Find(&subcategories)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get subcategory: %w", result.Error)
	}

	if len(subcategories) == 0 {
		return nil, ErrSubcategoryNotFound
	}

	return &subcategories[0], nil
}

// Create создает новую подкатегорию
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "subcategories")
	defer timer.ObserveDuration()

	if result := r.db.WithContext(ctx).Create(subcategory); result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create subcategory: %w", result.Error)
	}

	return nil
}
