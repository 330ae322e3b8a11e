package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"furniadmin/catalog-service/internal/app/catalog/entity"
	"furniadmin/catalog-service/internal/app/catalog/manifest"
	"furniadmin/catalog-service/internal/app/catalog/service"
	"furniadmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Манифест каталога - десятки килобайт, больше принимать незачем
const maxManifestBytes = 1 << 20

// ImportHandler обрабатывает HTTP запросы импорта каталога
type ImportHandler struct {
	importService service.ImportServiceInterface
	validator     *validator.Validate
}

// NewImportHandler создает новый обработчик импорта
func NewImportHandler(importService service.ImportServiceInterface) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		validator:     validator.New(),
	}
}

// RunImport обрабатывает POST /imports
// Тело - манифест в YAML или JSON, пустое тело означает встроенный манифест
// ?dry_run=true только показывает, что было бы создано
func (h *ImportHandler) RunImport(c *gin.Context) {
	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid dry_run parameter"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxManifestBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read request body"})
		return
	}
	if len(body) > maxManifestBytes {
		c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: "Manifest is too large"})
		return
	}

	var m *manifest.Manifest
	if len(body) > 0 {
		if m, err = manifest.Parse(body); err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid manifest", Message: err.Error()})
			return
		}
	}

	run := h.importService.Run
	if dryRun {
		run = h.importService.DryRun
	}

	summary, err := run(c.Request.Context(), entity.TriggerHTTP, m)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportInProgress):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Catalog import already in progress"})
		case errors.Is(err, service.ErrInvalidManifest):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid manifest", Message: err.Error()})
		default:
			logger.Error().Err(err).Msg("Catalog import failed to start")
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to run catalog import"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListRuns обрабатывает GET /imports?limit=N
func (h *ImportHandler) ListRuns(c *gin.Context) {
	var query entity.ListRunsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	if err := h.validator.Struct(query); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	runs, err := h.importService.ListRuns(c.Request.Context(), query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list import runs"})
		return
	}

	c.JSON(http.StatusOK, entity.RunListResponse{
		Runs:  runs,
		Total: len(runs),
	})
}

// GetRun обрабатывает GET /imports/:id
func (h *ImportHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Run ID is required"})
		return
	}

	run, err := h.importService.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Import run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get import run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
