package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"time"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/repository"
	"furniadmin/catalog-service/internal/app/catalog/synth"
	"furniadmin/catalog-service/internal/app/catalog/util"
	"furniadmin/pkg/logger"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const eventProductCreated = "PRODUCT_CREATED"

// ReconcileOptions - параметры одного прохода
type ReconcileOptions struct {
	RunID   string
	Trigger string
	// DryRun выполняет все проверки существования, но ничего не вставляет
	DryRun bool
}

// ReconcileService сводит манифест ассетов с каталогом
// Проход строго последовательный: каждая проверка и вставка дожидается ответа хранилища
type ReconcileService struct {
	store     *repository.Store
	generator *synth.Generator
	publisher util.MessagePublisher
	now       func() time.Time
}

// NewReconcileService создает движок reconciliation
// generator == nil означает общий генератор пакета synth
func NewReconcileService(store *repository.Store, generator *synth.Generator, publisher util.MessagePublisher) *ReconcileService {
	if generator == nil {
		generator = synth.NewGenerator(nil)
	}
	if publisher == nil {
		publisher = util.NoopPublisher{}
	}

	return &ReconcileService{
		store:     store,
		generator: generator,
		publisher: publisher,
		now:       time.Now,
	}
}

// run - состояние одного прохода, принадлежит только ему
type run struct {
	ctx     context.Context
	opts    ReconcileOptions
	summary *entity.RunSummary
	// planned - естественные ключи, которые dry-run уже "создал"
	planned map[string]uuid.UUID
}

// Reconcile обходит манифест в порядке записи и создает недостающие строки
// Ошибки не возвращаются: все сбои попадают в RunSummary.Errors
// Отмена ctx вызывающей стороны не прерывает проход
func (s *ReconcileService) Reconcile(ctx context.Context, m *manifest.Manifest, opts ReconcileOptions) *entity.RunSummary {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	r := &run{
		ctx:  context.WithoutCancel(ctx),
		opts: opts,
		summary: &entity.RunSummary{
			ID:        opts.RunID,
			Trigger:   opts.Trigger,
			DryRun:    opts.DryRun,
			StartedAt: s.now(),
			Errors:    []entity.RunError{},
		},
		planned: make(map[string]uuid.UUID),
	}

	for _, category := range m.Categories {
		s.reconcileCategory(r, category)
	}

	r.summary.FinishedAt = s.now()

	logger.Info().
		Str("run_id", r.summary.ID).
		Str("trigger", r.summary.Trigger).
		Bool("dry_run", r.summary.DryRun).
		Int("created_categories", r.summary.CreatedCategories).
		Int("created_subcategories", r.summary.CreatedSubcategories).
		Int("created_products", r.summary.CreatedProducts).
		Int("skipped_existing", r.summary.SkippedExisting).
		Int("errors", len(r.summary.Errors)).
		Dur("duration", r.summary.FinishedAt.Sub(r.summary.StartedAt)).
		Msg("Catalog reconciliation finished")

	return r.summary
}

func (s *ReconcileService) reconcileCategory(r *run, mc manifest.Category) {
	categoryID, isNew, ok := s.ensureCategory(r, mc.Name)
	if !ok {
		// Поддерево категории не обрабатывается
		return
	}

	for _, sub := range mc.Subcategories {
		subcategoryID, subIsNew, ok := s.ensureSubcategory(r, sub.Name, categoryID, isNew)
		if !ok {
			continue
		}

		for _, filename := range sub.Products {
			s.reconcileProduct(r, filename, mc.Name, sub.Name, categoryID, &subcategoryID, subIsNew)
		}
	}

	for _, filename := range mc.Products {
		s.reconcileProduct(r, filename, mc.Name, "", categoryID, nil, isNew)
	}
}

// ensureCategory возвращает id существующей или созданной категории
// isNew == true, если категория создана (или была бы создана в dry-run) в этом проходе
// Имена категорий в манифесте уникальны, повторно одна категория не встречается
func (s *ReconcileService) ensureCategory(r *run, name string) (id uuid.UUID, isNew, ok bool) {
	existing, err := s.store.Categories.GetByName(r.ctx, name)
	switch {
	case err == nil:
		s.recordSkipped(r, entity.EntityCategory, name)
		return existing.ID, false, true
	case !errors.Is(err, repository.ErrCategoryNotFound):
		s.recordFailure(r, entity.EntityCategory, name, &StoreLookupError{Entity: entity.EntityCategory, Name: name, Err: err})
		return uuid.Nil, false, false
	}

	category := &entity.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: s.now(),
	}

	if !r.opts.DryRun {
		if err := s.store.Categories.Create(r.ctx, category); err != nil {
			s.recordFailure(r, entity.EntityCategory, name, &StoreInsertError{Entity: entity.EntityCategory, Name: name, Err: err})
			return uuid.Nil, false, false
		}
	}

	r.summary.CreatedCategories++
	metrics.RecordImportEntity(entity.EntityCategory, metrics.OutcomeCreated)
	logger.Debug().Str("run_id", r.opts.RunID).Str("category", name).Msg("Category created")

	return category.ID, true, true
}

// ensureSubcategory - то же для подкатегории в пределах категории
// Под только что созданной в dry-run категорией строк быть не может, поиск не выполняется
func (s *ReconcileService) ensureSubcategory(r *run, name string, categoryID uuid.UUID, parentIsNew bool) (id uuid.UUID, isNew, ok bool) {
	key := "subcategory|" + categoryID.String() + "|" + name

	if plannedID, planned := r.planned[key]; planned {
		s.recordSkipped(r, entity.EntitySubcategory, name)
		return plannedID, true, true
	}

	if !(r.opts.DryRun && parentIsNew) {
		existing, err := s.store.Subcategories.GetByNameAndCategory(r.ctx, name, categoryID)
		switch {
		case err == nil:
			s.recordSkipped(r, entity.EntitySubcategory, name)
			return existing.ID, false, true
		case !errors.Is(err, repository.ErrSubcategoryNotFound):
			s.recordFailure(r, entity.EntitySubcategory, name, &StoreLookupError{Entity: entity.EntitySubcategory, Name: name, Err: err})
			return uuid.Nil, false, false
		}
	}

	subcategory := &entity.Subcategory{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
		CreatedAt:  s.now(),
	}

	if r.opts.DryRun {
		r.planned[key] = subcategory.ID
	} else if err := s.store.Subcategories.Create(r.ctx, subcategory); err != nil {
		s.recordFailure(r, entity.EntitySubcategory, name, &StoreInsertError{Entity: entity.EntitySubcategory, Name: name, Err: err})
		return uuid.Nil, false, false
	}

	r.summary.CreatedSubcategories++
	metrics.RecordImportEntity(entity.EntitySubcategory, metrics.OutcomeCreated)
	logger.Debug().Str("run_id", r.opts.RunID).Str("subcategory", name).Msg("Subcategory created")

	return subcategory.ID, true, true
}

// reconcileProduct синтезирует строку товара и создает ее, если товара с таким ключом нет
// subcategoryID == nil для товаров уровня категории
func (s *ReconcileService) reconcileProduct(r *run, filename, categoryName, subcategoryName string, categoryID uuid.UUID, subcategoryID *uuid.UUID, parentIsNew bool) {
	product := s.buildProduct(filename, categoryName, subcategoryName, categoryID, subcategoryID)

	if product.Name == "" {
		logger.Warn().
			Str("run_id", r.opts.RunID).
			Str("category", categoryName).
			Str("subcategory", subcategoryName).
			Str("filename", filename).
			Msg("Derived product name is empty")
	}

	key := "product|" + categoryID.String() + "|" + product.Name
	if subcategoryID != nil {
		key += "|" + subcategoryID.String()
	}

	if _, planned := r.planned[key]; planned {
		s.recordSkipped(r, entity.EntityProduct, product.Name)
		return
	}

	if !(r.opts.DryRun && parentIsNew) {
		_, err := s.store.Products.GetByNaturalKey(r.ctx, product.Name, categoryID, subcategoryID)
		switch {
		case err == nil:
			s.recordSkipped(r, entity.EntityProduct, product.Name)
			return
		case !errors.Is(err, repository.ErrProductNotFound):
			s.recordFailure(r, entity.EntityProduct, product.Name, &StoreLookupError{Entity: entity.EntityProduct, Name: product.Name, Err: err})
			return
		}
	}

	if r.opts.DryRun {
		r.planned[key] = product.ID
	} else {
		if err := s.store.Products.Create(r.ctx, product); err != nil {
			s.recordFailure(r, entity.EntityProduct, product.Name, &StoreInsertError{Entity: entity.EntityProduct, Name: product.Name, Err: err})
			return
		}
		s.publishProductCreated(r, product)
	}

	r.summary.CreatedProducts++
	metrics.RecordImportEntity(entity.EntityProduct, metrics.OutcomeCreated)
	logger.Debug().
		Str("run_id", r.opts.RunID).
		Str("product", product.Name).
		Str("sku", product.SKU).
		Msg("Product created")
}

// buildProduct собирает полную строку товара
// Путь изображения - соглашение, существование файла не проверяется
func (s *ReconcileService) buildProduct(filename, categoryName, subcategoryName string, categoryID uuid.UUID, subcategoryID *uuid.UUID) *entity.Product {
	name := synth.ResolveName(filename, categoryName)
	materials, colors := s.generator.MaterialsAndColors()

	return &entity.Product{
		ID:               uuid.New(),
		Name:             name,
		Description:      synth.ResolveDescription(filename, categoryName, subcategoryName),
		Price:            decimal.NewFromInt(int64(s.generator.Price(categoryName))),
		CategoryID:       categoryID,
		SubcategoryID:    subcategoryID,
		ImageURL:         imagePath(categoryName, subcategoryName, filename),
		AdditionalImages: []string{},
		Materials:        materials,
		Colors:           colors,
		StockQuantity:    s.generator.StockQuantity(),
		SKU:              s.generator.SKU(categoryName, name),
		Status:           entity.ProductStatusActive,
		CreatedAt:        s.now(),
	}
}

// imagePath - /{category}/{subcategory?}/{filename}
func imagePath(categoryName, subcategoryName, filename string) string {
	if subcategoryName == "" {
		return "/" + path.Join(categoryName, filename)
	}
	return "/" + path.Join(categoryName, subcategoryName, filename)
}

// publishProductCreated отправляет событие о новом товаре
// Сбой Kafka не является ошибкой прогона: строка уже создана
func (s *ReconcileService) publishProductCreated(r *run, product *entity.Product) {
	event := entity.ProductEvent{
		EventType:     eventProductCreated,
		ProductID:     product.ID,
		Name:          product.Name,
		SKU:           product.SKU,
		Price:         product.Price.InexactFloat64(),
		CategoryID:    product.CategoryID,
		SubcategoryID: product.SubcategoryID,
		RunID:         r.opts.RunID,
		Timestamp:     s.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("Failed to marshal product event")
		return
	}

	if err := s.publisher.PublishMessage(r.ctx, product.ID.String(), payload); err != nil {
		logger.Warn().Err(err).Str("product_id", product.ID.String()).Msg("Failed to publish product event")
	}
}

func (s *ReconcileService) recordSkipped(r *run, entityType, name string) {
	r.summary.SkippedExisting++
	metrics.RecordImportEntity(entityType, metrics.OutcomeSkipped)
	logger.Debug().Str("run_id", r.opts.RunID).Str("entity", entityType).Str("name", name).Msg("Already exists, skipped")
}

func (s *ReconcileService) recordFailure(r *run, entityType, name string, err error) {
	r.summary.AddError(entityType, name, err)
	metrics.RecordImportEntity(entityType, metrics.OutcomeFailed)
	logger.Error().Err(err).Str("run_id", r.opts.RunID).Str("entity", entityType).Str("name", name).Msg("Catalog reconciliation step failed")
}
