package repository

import (
	"context"
	"fmt"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// GetByNaturalKey ищет товар по (name, category_id, subcategory_id)
// Для товаров без подкатегории совпадают только строки с subcategory_id IS NULL
func (r *productRepository) GetByNaturalKey(ctx context.Context, name string, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).Where("name = ? AND category_id = ?", name, categoryID)
	if subcategoryID == nil {
		query = query.Where("subcategory_id IS NULL")
	} else {
		query = query.Where("subcategory_id = ?", *subcategoryID)
	}

	var products []entity.Product
	if result := query.Order("created_at ASC").Find(&products); result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product: %w", result.Error)
	}

	if len(products) == 0 {
		return nil, ErrProductNotFound
	}

	return &products[0], nil
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	if result := r.db.WithContext(ctx).Create(product); result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", result.Error)
	}

	return nil
}
