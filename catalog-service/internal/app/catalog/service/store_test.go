package service

import (
	"context"
	"sync"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/repository"

	"github.com/google/uuid"
)

// memStore - хранилище каталога в памяти для проверки свойств движка
// failInsert/failLookup позволяют уронить конкретную сущность по имени
type memStore struct {
	mu            sync.Mutex
	categories    []entity.Category
	subcategories []entity.Subcategory
	products      []entity.Product

	failInsert map[string]error
	failLookup map[string]error
	lookups    int
}

func newMemStore() *memStore {
	return &memStore{
		failInsert: map[string]error{},
		failLookup: map[string]error{},
	}
}

func (s *memStore) store() *repository.Store {
	return &repository.Store{
		Categories:    memCategories{s},
		Subcategories: memSubcategories{s},
		Products:      memProducts{s},
	}
}

func (s *memStore) beforeLookup(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lookups++
	return s.failLookup[name]
}

func (s *memStore) beforeInsert(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failInsert[name]
}

type memCategories struct{ s *memStore }

func (r memCategories) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeLookup(ctx, name); err != nil {
		return nil, err
	}
	for _, c := range r.s.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (r memCategories) Create(ctx context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeInsert(ctx, category.Name); err != nil {
		return err
	}
	r.s.categories = append(r.s.categories, *category)
	return nil
}

type memSubcategories struct{ s *memStore }

func (r memSubcategories) GetByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeLookup(ctx, name); err != nil {
		return nil, err
	}
	for _, sc := range r.s.subcategories {
		if sc.Name == name && sc.CategoryID == categoryID {
			found := sc
			return &found, nil
		}
	}
	return nil, repository.ErrSubcategoryNotFound
}

func (r memSubcategories) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeInsert(ctx, subcategory.Name); err != nil {
		return err
	}
	r.s.subcategories = append(r.s.subcategories, *subcategory)
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) GetByNaturalKey(ctx context.Context, name string, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeLookup(ctx, name); err != nil {
		return nil, err
	}
	for _, p := range r.s.products {
		if p.Name != name || p.CategoryID != categoryID {
			continue
		}
		switch {
		case subcategoryID == nil && p.SubcategoryID == nil,
			subcategoryID != nil && p.SubcategoryID != nil && *subcategoryID == *p.SubcategoryID:
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (r memProducts) Create(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.beforeInsert(ctx, product.Name); err != nil {
		return err
	}
	r.s.products = append(r.s.products, *product)
	return nil
}

func (s *memStore) productsNamed(name string) []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Product
	for _, p := range s.products {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}
