package repository

import (
	"fmt"

	"furniadmin/catalog-service/internal/app/catalog/entity"

	"gorm.io/gorm"
)

// NewGormStore собирает Store поверх PostgreSQL через GORM
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Categories:    NewCategoryRepository(db),
		Subcategories: NewSubcategoryRepository(db),
		Products:      NewProductRepository(db),
	}
}

// Migrate создает таблицы каталога, если их еще нет
// Уникальные ограничения на естественные ключи намеренно не объявляются:
// идемпотентность обеспечивает сам импорт
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Category{}, &entity.Subcategory{}, &entity.Product{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}
