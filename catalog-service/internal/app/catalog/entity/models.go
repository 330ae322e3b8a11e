package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductStatusActive - статус, с которым импорт создает товары
const ProductStatusActive = "active"

// Category представляет категорию товаров (первый уровень каталога)
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Subcategory - второй уровень каталога
// Одно и то же имя может встречаться в разных категориях
type Subcategory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null;index:idx_subcategories_name_category"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index:idx_subcategories_name_category"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}

// Product представляет товар в каталоге
// SubcategoryID == nil для товаров, лежащих прямо в категории
type Product struct {
	ID               uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string                      `json:"name" gorm:"type:varchar(255);not null;index"`
	Description      string                      `json:"description" gorm:"type:text"`
	Price            decimal.Decimal             `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID       uuid.UUID                   `json:"category_id" gorm:"type:uuid;not null;index"`
	SubcategoryID    *uuid.UUID                  `json:"subcategory_id" gorm:"type:uuid;index"`
	ImageURL         string                      `json:"image_url" gorm:"type:text"`
	AdditionalImages datatypes.JSONSlice[string] `json:"additional_images" gorm:"type:jsonb"`
	Materials        datatypes.JSONSlice[string] `json:"materials" gorm:"type:jsonb"`
	Colors           datatypes.JSONSlice[string] `json:"colors" gorm:"type:jsonb"`
	StockQuantity    int                         `json:"stock_quantity" gorm:"not null"`
	SKU              string                      `json:"sku" gorm:"column:sku;type:varchar(32)"`
	Status           string                      `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductEvent представляет событие изменения продукта для Kafka
type ProductEvent struct {
	EventType     string     `json:"event_type"` // PRODUCT_CREATED
	ProductID     uuid.UUID  `json:"product_id"`
	Name          string     `json:"name"`
	SKU           string     `json:"sku"`
	Price         float64    `json:"price"`
	CategoryID    uuid.UUID  `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id,omitempty"`
	RunID         string     `json:"run_id"`
	Timestamp     time.Time  `json:"timestamp"`
}

// Типы сущностей для RunError и метрик
const (
	EntityCategory    = "category"
	EntitySubcategory = "subcategory"
	EntityProduct     = "product"
)

// Источники запуска импорта
const (
	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
)

// RunError описывает ошибку по конкретной сущности
// Достаточно контекста, чтобы поправить манифест и перезапустить импорт
type RunError struct {
	Entity  string `json:"entity" bson:"entity"`
	Name    string `json:"name" bson:"name"`
	Message string `json:"message" bson:"message"`
}

// RunSummary - итог одного прохода reconciliation
type RunSummary struct {
	ID                   string     `json:"id" bson:"_id"`
	Trigger              string     `json:"trigger" bson:"trigger"`
	DryRun               bool       `json:"dry_run" bson:"dry_run"`
	StartedAt            time.Time  `json:"started_at" bson:"started_at"`
	FinishedAt           time.Time  `json:"finished_at" bson:"finished_at"`
	CreatedCategories    int        `json:"created_categories" bson:"created_categories"`
	CreatedSubcategories int        `json:"created_subcategories" bson:"created_subcategories"`
	CreatedProducts      int        `json:"created_products" bson:"created_products"`
	SkippedExisting      int        `json:"skipped_existing" bson:"skipped_existing"`
	Errors               []RunError `json:"errors" bson:"errors"`
}

// AddError добавляет ошибку по сущности в итог прогона
func (s *RunSummary) AddError(entityType, name string, err error) {
	s.Errors = append(s.Errors, RunError{
		Entity:  entityType,
		Name:    name,
		Message: err.Error(),
	})
}

// Created возвращает общее количество созданных строк
func (s *RunSummary) Created() int {
	return s.CreatedCategories + s.CreatedSubcategories + s.CreatedProducts
}

// Status - итоговый статус прогона для метрик и логов
func (s *RunSummary) Status() string {
	switch {
	case len(s.Errors) == 0:
		return "success"
	case s.Created()+s.SkippedExisting > 0:
		return "partial"
	default:
		return "failed"
	}
}
