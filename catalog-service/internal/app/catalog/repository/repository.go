package repository

import (
	"context"
	"errors"

	"furniadmin/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

const serviceName = "catalog-service"

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrRunNotFound         = errors.New("import run not found")
)

// CategoryRepository - доступ к таблице categories
// Естественный ключ категории - точное имя
type CategoryRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}

// SubcategoryRepository - доступ к таблице subcategories
// Естественный ключ - (name, category_id)
type SubcategoryRepository interface {
	GetByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Subcategory, error)
	Create(ctx context.Context, subcategory *entity.Subcategory) error
}

// ProductRepository - доступ к таблице products
// Естественный ключ - (name, category_id, subcategory_id), nil подкатегория сравнивается как IS NULL
type ProductRepository interface {
	GetByNaturalKey(ctx context.Context, name string, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
}

// RunRepository - история прогонов импорта
type RunRepository interface {
	Save(ctx context.Context, run *entity.RunSummary) error
	GetByID(ctx context.Context, id string) (*entity.RunSummary, error)
	List(ctx context.Context, limit int) ([]entity.RunSummary, error)
}

// Store объединяет репозитории каталога одного backend'а
type Store struct {
	Categories    CategoryRepository
	Subcategories SubcategoryRepository
	Products      ProductRepository
}
