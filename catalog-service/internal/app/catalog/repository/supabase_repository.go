package repository

import (
	"context"
	"fmt"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Каталог через Supabase REST (PostgREST) поверх той же схемы, что и GORM
// Клиент PostgREST не принимает context, поэтому ctx проверяется перед запросом

type supabaseCategoryRepository struct {
	client *supabase.Client
}

type supabaseSubcategoryRepository struct {
	client *supabase.Client
}

type supabaseProductRepository struct {
	client *supabase.Client
}

// NewSupabaseStore собирает Store поверх Supabase REST API
func NewSupabaseStore(client *supabase.Client) *Store {
	return &Store{
		Categories:    &supabaseCategoryRepository{client: client},
		Subcategories: &supabaseSubcategoryRepository{client: client},
		Products:      &supabaseProductRepository{client: client},
	}
}

func (r *supabaseCategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	var rows []entity.Category
	_, err := r.client.From("categories").
		Select("*", "", false).
		Eq("name", name).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrCategoryNotFound
	}

	return &rows[0], nil
}

func (r *supabaseCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	var created []entity.Category
	_, err := r.client.From("categories").
		Insert(category, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create category: %w", err)
	}

	if len(created) > 0 {
		*category = created[0]
	}

	return nil
}

func (r *supabaseSubcategoryRepository) GetByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Subcategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "subcategories")
	defer timer.ObserveDuration()

	var rows []entity.Subcategory
	_, err := r.client.From("subcategories").
		Select("*", "", false).
		Eq("name", name).
		Eq("category_id", categoryID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrSubcategoryNotFound
	}

	return &rows[0], nil
}

func (r *supabaseSubcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "subcategories")
	defer timer.ObserveDuration()

	var created []entity.Subcategory
	_, err := r.client.From("subcategories").
		Insert(subcategory, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	if len(created) > 0 {
		*subcategory = created[0]
	}

	return nil
}

func (r *supabaseProductRepository) GetByNaturalKey(ctx context.Context, name string, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := r.client.From("products").
		Select("*", "", false).
		Eq("name", name).
		Eq("category_id", categoryID.String())
	if subcategoryID == nil {
		query = query.Is("subcategory_id", "null")
	} else {
		query = query.Eq("subcategory_id", subcategoryID.String())
	}

	var rows []entity.Product
	if _, err := query.Order("created_at", &postgrest.OrderOpts{Ascending: true}).ExecuteTo(&rows); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrProductNotFound
	}

	return &rows[0], nil
}

func (r *supabaseProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	var created []entity.Product
	_, err := r.client.From("products").
		Insert(product, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if len(created) > 0 {
		*product = created[0]
	}

	return nil
}
