package repository

import (
	"context"
	"fmt"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/pkg/metrics"

	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetByName ищет категорию по точному имени (с учетом регистра)
// Если строк несколько (гонка параллельных импортов), берется самая ранняя
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	var categories []entity.Category
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		Find(&categories)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category by name: %w", result.Error)
	}

	if len(categories) == 0 {
		return nil, ErrCategoryNotFound
	}

	return &categories[0], nil
}

// Create создает новую категорию
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	if result := r.db.WithContext(ctx).Create(category); result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create category: %w", result.Error)
	}

	return nil
}
