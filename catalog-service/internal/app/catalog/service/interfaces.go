package service

import (
	"context"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
)

// ImportServiceInterface - то, что нужно HTTP слою и планировщику
type ImportServiceInterface interface {
	Run(ctx context.Context, trigger string, m *manifest.Manifest) (*entity.RunSummary, error)
	DryRun(ctx context.Context, trigger string, m *manifest.Manifest) (*entity.RunSummary, error)
	ListRuns(ctx context.Context, limit int) ([]entity.RunSummary, error)
	GetRun(ctx context.Context, id string) (*entity.RunSummary, error)
}

var _ ImportServiceInterface = (*ImportService)(nil)
