package processor

import (
	"context"
	"errors"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/service"
	"furniadmin/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ManifestSource возвращает манифест для очередного прогона
// nil манифест означает встроенный манифест по умолчанию
type ManifestSource func() (*manifest.Manifest, error)

// FileManifest читает манифест с диска перед каждым прогоном,
// поэтому правки файла подхватываются без рестарта
func FileManifest(path string) ManifestSource {
	if path == "" {
		return func() (*manifest.Manifest, error) { return nil, nil }
	}
	return func() (*manifest.Manifest, error) {
		return manifest.LoadFile(path)
	}
}

type CronScheduler struct {
	cron      *cron.Cron
	importSvc service.ImportServiceInterface
	source    ManifestSource
}

func NewCronScheduler(importSvc service.ImportServiceInterface, source ManifestSource) *CronScheduler {
	cronLogger := zerologCronLogger{}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if source == nil {
		source = FileManifest("")
	}

	return &CronScheduler{
		cron:      c,
		importSvc: importSvc,
		source:    source,
	}
}

// Start регистрирует периодический импорт каталога
// runOnStart выполняет первый прогон сразу, не дожидаясь расписания
func (s *CronScheduler) Start(ctx context.Context, schedule string, runOnStart bool) error {
	logger.Info().Str("schedule", schedule).Msg("Starting catalog import scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runImport(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Catalog import scheduler started")

	if runOnStart {
		logger.Info().Msg("Performing initial catalog import...")
		s.runImport(ctx)
	}

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping catalog import scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Catalog import scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) runImport(ctx context.Context) {
	m, err := s.source()
	if err != nil {
		logger.Error().Err(err).Msg("Scheduled import skipped: failed to load manifest")
		return
	}

	summary, err := s.importSvc.Run(ctx, entity.TriggerSchedule, m)
	switch {
	case errors.Is(err, service.ErrImportInProgress):
		logger.Warn().Msg("Scheduled import skipped: another run is in progress")
	case err != nil:
		logger.Error().Err(err).Msg("Scheduled import failed")
	default:
		logger.Info().
			Str("run_id", summary.ID).
			Str("status", summary.Status()).
			Int("created", summary.Created()).
			Int("errors", len(summary.Errors)).
			Msg("Scheduled import completed")
	}
}

// zerologCronLogger направляет внутренние сообщения cron в общий логгер
type zerologCronLogger struct{}

func (zerologCronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (zerologCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
