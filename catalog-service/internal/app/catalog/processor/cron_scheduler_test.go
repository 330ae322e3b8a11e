package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/repository/mocks"
	"furniadmin/catalog-service/internal/app/catalog/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func completedRun() *entity.RunSummary {
	return &entity.RunSummary{ID: "run-1", Trigger: entity.TriggerSchedule, CreatedProducts: 3}
}

// ===================== NewCronScheduler =====================

func TestNewCronScheduler(t *testing.T) {
	mockSvc := new(mocks.MockImportService)

	scheduler := NewCronScheduler(mockSvc, nil)

	assert.NotNil(t, scheduler.cron)
	assert.NotNil(t, scheduler.source)
	assert.Empty(t, scheduler.GetEntries())
}

// ===================== Start =====================

func TestCronScheduler_Start_WithoutInitialRun(t *testing.T) {
	mockSvc := new(mocks.MockImportService)
	scheduler := NewCronScheduler(mockSvc, nil)

	err := scheduler.Start(context.Background(), "0 3 * * *", false)

	require.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)
	mockSvc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)

	scheduler.Stop()
}

func TestCronScheduler_Start_InitialRun(t *testing.T) {
	mockSvc := new(mocks.MockImportService)
	scheduler := NewCronScheduler(mockSvc, nil)

	mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, (*manifest.Manifest)(nil)).
		Return(completedRun(), nil).Once()

	err := scheduler.Start(context.Background(), "0 3 * * *", true)

	require.NoError(t, err)
	scheduler.Stop()
	mockSvc.AssertExpectations(t)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	scheduler := NewCronScheduler(new(mocks.MockImportService), nil)

	err := scheduler.Start(context.Background(), "invalid cron expression", true)

	assert.Error(t, err)
	assert.Empty(t, scheduler.GetEntries())
}

// ===================== runImport =====================

func TestCronScheduler_RunImport(t *testing.T) {
	tests := []struct {
		name    string
		summary *entity.RunSummary
		err     error
	}{
		{"completed", completedRun(), nil},
		{"another run in progress", nil, service.ErrImportInProgress},
		{"lock backend unavailable", nil, errors.New("lock backend unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockImportService)
			scheduler := NewCronScheduler(mockSvc, nil)

			mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, (*manifest.Manifest)(nil)).
				Return(tt.summary, tt.err).Once()

			assert.NotPanics(t, func() {
				scheduler.runImport(context.Background())
			})
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCronScheduler_RunImport_ContinuesAfterErrors(t *testing.T) {
	mockSvc := new(mocks.MockImportService)
	scheduler := NewCronScheduler(mockSvc, nil)

	mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, mock.Anything).
		Return(nil, service.ErrImportInProgress).Once()
	mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, mock.Anything).
		Return(nil, errors.New("lock backend unavailable")).Once()
	mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, mock.Anything).
		Return(completedRun(), nil).Once()

	for range 3 {
		scheduler.runImport(context.Background())
	}

	mockSvc.AssertNumberOfCalls(t, "Run", 3)
}

// ===================== Job execution =====================

func TestCronScheduler_JobExecution(t *testing.T) {
	mockSvc := new(mocks.MockImportService)
	scheduler := NewCronScheduler(mockSvc, nil)

	// cron не запускает задачи чаще раза в секунду
	var calls atomic.Int32
	mockSvc.On("Run", mock.Anything, entity.TriggerSchedule, mock.Anything).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(completedRun(), nil)

	require.NoError(t, scheduler.Start(context.Background(), "@every 1s", false))

	assert.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 3500*time.Millisecond, 50*time.Millisecond)

	scheduler.Stop()
}

// ===================== Manifest source =====================

func TestCronScheduler_ManifestLoadFailureSkipsRun(t *testing.T) {
	mockSvc := new(mocks.MockImportService)
	source := func() (*manifest.Manifest, error) {
		return nil, errors.New("file not found")
	}
	scheduler := NewCronScheduler(mockSvc, source)

	require.NoError(t, scheduler.Start(context.Background(), "0 3 * * *", true))
	scheduler.Stop()

	mockSvc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestFileManifest(t *testing.T) {
	t.Run("empty path means default", func(t *testing.T) {
		m, err := FileManifest("")()
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("reads file on every call", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sofa:\n  products: [a.jpg]\n"), 0o644))
		source := FileManifest(path)

		m, err := source()
		require.NoError(t, err)
		assert.Equal(t, "sofa", m.Categories[0].Name)

		require.NoError(t, os.WriteFile(path, []byte("chair:\n  products: [b.jpg]\n"), 0o644))

		m, err = source()
		require.NoError(t, err)
		assert.Equal(t, "chair", m.Categories[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FileManifest(filepath.Join(t.TempDir(), "absent.yaml"))()
		assert.Error(t, err)
	})
}
