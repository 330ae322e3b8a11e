package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/repository"
	"furniadmin/catalog-service/internal/app/catalog/util"
	"furniadmin/pkg/logger"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
)

// LockKey - ключ межпроцессной блокировки импорта
const LockKey = "catalog-import"

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// ImportService координирует прогоны импорта:
// блокировка, движок reconciliation, история прогонов, кеш категорий и метрики
type ImportService struct {
	engine *ReconcileService
	runs   repository.RunRepository
	locker util.RunLocker
	cache  util.CategoryCache

	// Блокировка внутри процесса, межпроцессную дает locker
	mu sync.Mutex
}

// NewImportService создает сервис импорта с внедрением зависимостей
// runs, locker и cache могут быть nil
func NewImportService(
	engine *ReconcileService,
	runs repository.RunRepository,
	locker util.RunLocker,
	cache util.CategoryCache,
) *ImportService {
	if locker == nil {
		locker = util.NoopLocker{}
	}
	if cache == nil {
		cache = util.NoopCache{}
	}

	return &ImportService{
		engine: engine,
		runs:   runs,
		locker: locker,
		cache:  cache,
	}
}

// Run выполняет импорт манифеста, nil означает встроенный манифест
// Возвращает ErrImportInProgress, если другой импорт уже идет
func (s *ImportService) Run(ctx context.Context, trigger string, m *manifest.Manifest) (*entity.RunSummary, error) {
	return s.run(ctx, trigger, m, false)
}

// DryRun выполняет только проверки существования и показывает, что было бы создано
func (s *ImportService) DryRun(ctx context.Context, trigger string, m *manifest.Manifest) (*entity.RunSummary, error) {
	return s.run(ctx, trigger, m, true)
}

func (s *ImportService) run(ctx context.Context, trigger string, m *manifest.Manifest, dryRun bool) (*entity.RunSummary, error) {
	if m == nil {
		var err error
		if m, err = manifest.Default(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	} else if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	if !s.mu.TryLock() {
		metrics.ImportLockContention.Inc()
		return nil, ErrImportInProgress
	}
	defer s.mu.Unlock()

	// Прогон не прерывается отменой запроса, блокировка держится до конца прогона
	runCtx := context.WithoutCancel(ctx)

	release, acquired, err := s.locker.TryLock(runCtx, LockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !acquired {
		metrics.ImportLockContention.Inc()
		return nil, ErrImportInProgress
	}
	defer release()

	summary := s.engine.Reconcile(runCtx, m, ReconcileOptions{
		RunID:   uuid.NewString(),
		Trigger: trigger,
		DryRun:  dryRun,
	})

	metrics.RecordImportRun(trigger, summary.Status(), summary.FinishedAt.Sub(summary.StartedAt))

	// Витрина читает категории из кеша, новые категории должны появиться сразу
	if !dryRun && summary.CreatedCategories > 0 {
		if err := s.cache.DeleteCategories(runCtx); err != nil {
			logger.Warn().Err(err).Str("run_id", summary.ID).Msg("Failed to invalidate categories cache")
		}
	}

	if s.runs != nil {
		if err := s.runs.Save(runCtx, summary); err != nil {
			logger.Error().Err(err).Str("run_id", summary.ID).Msg("Failed to save import run")
		}
	}

	return summary, nil
}

// ListRuns возвращает последние прогоны, новые первыми
func (s *ImportService) ListRuns(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	if s.runs == nil {
		return []entity.RunSummary{}, nil
	}

	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}

	return runs, nil
}

// GetRun возвращает прогон по ID
func (s *ImportService) GetRun(ctx context.Context, id string) (*entity.RunSummary, error) {
	if s.runs == nil {
		return nil, ErrRunNotFound
	}

	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	return run, nil
}
