package mocks

import (
	"context"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockSubcategoryRepository мок для SubcategoryRepository
type MockSubcategoryRepository struct {
	mock.Mock
}

func (m *MockSubcategoryRepository) GetByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Subcategory, error) {
	args := m.Called(ctx, name, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	args := m.Called(ctx, subcategory)
	return args.Error(0)
}

// MockProductRepository мок для ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByNaturalKey(ctx context.Context, name string, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, name, categoryID, subcategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockRunRepository мок для RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Save(ctx context.Context, run *entity.RunSummary) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) GetByID(ctx context.Context, id string) (*entity.RunSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RunSummary), args.Error(1)
}

func (m *MockRunRepository) List(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RunSummary), args.Error(1)
}

// MockMessagePublisher мок для MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCategoryCache мок для CategoryCache
type MockCategoryCache struct {
	mock.Mock
}

func (m *MockCategoryCache) DeleteCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCategoryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunLocker мок для RunLocker
type MockRunLocker struct {
	mock.Mock
}

func (m *MockRunLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	args := m.Called(ctx, key)
	var release func()
	if fn, ok := args.Get(0).(func()); ok {
		release = fn
	}
	return release, args.Bool(1), args.Error(2)
}

// MockImportService мок для service.ImportServiceInterface
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Run(ctx context.Context, trigger string, mf *manifest.Manifest) (*entity.RunSummary, error) {
	args := m.Called(ctx, trigger, mf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RunSummary), args.Error(1)
}

func (m *MockImportService) DryRun(ctx context.Context, trigger string, mf *manifest.Manifest) (*entity.RunSummary, error) {
	args := m.Called(ctx, trigger, mf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RunSummary), args.Error(1)
}

func (m *MockImportService) ListRuns(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RunSummary), args.Error(1)
}

func (m *MockImportService) GetRun(ctx context.Context, id string) (*entity.RunSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RunSummary), args.Error(1)
}
