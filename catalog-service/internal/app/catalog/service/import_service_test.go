package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/repository"
	"furniadmin/catalog-service/internal/app/catalog/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type importFixture struct {
	store  *memStore
	runs   *mocks.MockRunRepository
	locker *mocks.MockRunLocker
	cache  *mocks.MockCategoryCache
	svc    *ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		store:  newMemStore(),
		runs:   new(mocks.MockRunRepository),
		locker: new(mocks.MockRunLocker),
		cache:  new(mocks.MockCategoryCache),
	}
	f.svc = NewImportService(newTestEngine(f.store.store()), f.runs, f.locker, f.cache)
	return f
}

// ==================== Run ====================

func TestImportService_Run_Success(t *testing.T) {
	f := newImportFixture()
	released := false

	f.locker.On("TryLock", mock.Anything, LockKey).Return(func() { released = true }, true, nil)
	f.cache.On("DeleteCategories", mock.Anything).Return(nil)
	f.runs.On("Save", mock.Anything, mock.AnythingOfType("*entity.RunSummary")).Return(nil)

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))

	require.NoError(t, err)
	assert.Equal(t, entity.TriggerHTTP, summary.Trigger)
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, 4, summary.CreatedProducts)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
	assert.True(t, released)

	f.locker.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.runs.AssertExpectations(t)
}

func TestImportService_Run_NilManifestUsesDefault(t *testing.T) {
	f := newImportFixture()

	f.locker.On("TryLock", mock.Anything, LockKey).Return(func() {}, true, nil)
	f.cache.On("DeleteCategories", mock.Anything).Return(nil)
	f.runs.On("Save", mock.Anything, mock.Anything).Return(nil)

	summary, err := f.svc.Run(context.Background(), entity.TriggerSchedule, nil)

	require.NoError(t, err)
	assert.Equal(t, 7, summary.CreatedCategories)
}

func TestImportService_Run_NoCacheInvalidationWithoutNewCategories(t *testing.T) {
	f := newImportFixture()
	f.store.categories = append(f.store.categories, entity.Category{Name: "sofa"})

	f.locker.On("TryLock", mock.Anything, LockKey).Return(func() {}, true, nil)
	f.runs.On("Save", mock.Anything, mock.Anything).Return(nil)

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))

	require.NoError(t, err)
	assert.Equal(t, 0, summary.CreatedCategories)
	f.cache.AssertNotCalled(t, "DeleteCategories", mock.Anything)
}

func TestImportService_Run_CacheAndHistoryErrorsIgnored(t *testing.T) {
	f := newImportFixture()

	f.locker.On("TryLock", mock.Anything, LockKey).Return(func() {}, true, nil)
	f.cache.On("DeleteCategories", mock.Anything).Return(errors.New("redis down"))
	f.runs.On("Save", mock.Anything, mock.Anything).Return(errors.New("mongo down"))

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))

	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
}

func TestImportService_Run_LockHeldElsewhere(t *testing.T) {
	f := newImportFixture()

	f.locker.On("TryLock", mock.Anything, LockKey).Return(nil, false, nil)

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))

	assert.ErrorIs(t, err, ErrImportInProgress)
	assert.Nil(t, summary)
	assert.Empty(t, f.store.categories)
	f.runs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImportService_Run_LockError(t *testing.T) {
	f := newImportFixture()

	f.locker.On("TryLock", mock.Anything, LockKey).Return(nil, false, errors.New("redis unavailable"))

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrImportInProgress)
	assert.Contains(t, err.Error(), "failed to acquire import lock")
	assert.Nil(t, summary)
}

func TestImportService_Run_InvalidManifest(t *testing.T) {
	f := newImportFixture()

	summary, err := f.svc.Run(context.Background(), entity.TriggerHTTP, &manifest.Manifest{})

	assert.ErrorIs(t, err, ErrInvalidManifest)
	assert.Nil(t, summary)
	f.locker.AssertNotCalled(t, "TryLock", mock.Anything, mock.Anything)
}

func TestImportService_Run_ConcurrentRunRejectedInProcess(t *testing.T) {
	f := newImportFixture()
	entered := make(chan struct{})
	proceed := make(chan struct{})

	f.locker.On("TryLock", mock.Anything, LockKey).
		Run(func(mock.Arguments) {
			close(entered)
			<-proceed
		}).
		Return(func() {}, true, nil).Once()
	f.cache.On("DeleteCategories", mock.Anything).Return(nil)
	f.runs.On("Save", mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.svc.Run(context.Background(), entity.TriggerHTTP, mustParse(t, sofaManifest))
		assert.NoError(t, err)
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not start")
	}

	_, err := f.svc.Run(context.Background(), entity.TriggerSchedule, mustParse(t, sofaManifest))
	assert.ErrorIs(t, err, ErrImportInProgress)

	close(proceed)
	wg.Wait()
}

func TestImportService_DryRun_SkipsCacheInvalidation(t *testing.T) {
	f := newImportFixture()

	f.locker.On("TryLock", mock.Anything, LockKey).Return(func() {}, true, nil)
	f.runs.On("Save", mock.Anything, mock.MatchedBy(func(run *entity.RunSummary) bool {
		return run.DryRun
	})).Return(nil)

	summary, err := f.svc.DryRun(context.Background(), entity.TriggerCLI, mustParse(t, sofaManifest))

	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.CreatedCategories)
	assert.Empty(t, f.store.categories)
	f.cache.AssertNotCalled(t, "DeleteCategories", mock.Anything)
	f.runs.AssertExpectations(t)
}

func TestImportService_Run_WithoutOptionalDependencies(t *testing.T) {
	svc := NewImportService(newTestEngine(newMemStore().store()), nil, nil, nil)

	summary, err := svc.Run(context.Background(), entity.TriggerCLI, mustParse(t, sofaManifest))

	require.NoError(t, err)
	assert.Equal(t, 4, summary.CreatedProducts)
}

// ==================== History ====================

func TestImportService_ListRuns_ClampsLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"default", 0, 20},
		{"negative", -5, 20},
		{"within range", 50, 50},
		{"above max", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportFixture()
			f.runs.On("List", mock.Anything, tt.expected).Return([]entity.RunSummary{{ID: "a"}}, nil)

			runs, err := f.svc.ListRuns(context.Background(), tt.limit)

			require.NoError(t, err)
			assert.Len(t, runs, 1)
			f.runs.AssertExpectations(t)
		})
	}
}

func TestImportService_ListRuns_RepoError(t *testing.T) {
	f := newImportFixture()
	f.runs.On("List", mock.Anything, 20).Return(nil, errors.New("mongo down"))

	runs, err := f.svc.ListRuns(context.Background(), 0)

	assert.Nil(t, runs)
	assert.Contains(t, err.Error(), "failed to list import runs")
}

func TestImportService_GetRun(t *testing.T) {
	f := newImportFixture()
	f.runs.On("GetByID", mock.Anything, "known").Return(&entity.RunSummary{ID: "known"}, nil)
	f.runs.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrRunNotFound)

	run, err := f.svc.GetRun(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "known", run.ID)

	run, err = f.svc.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.Nil(t, run)
}

func TestImportService_HistoryWithoutRepository(t *testing.T) {
	svc := NewImportService(newTestEngine(newMemStore().store()), nil, nil, nil)

	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = svc.GetRun(context.Background(), "any")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
