package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck проверяет одну зависимость сервиса
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	critical map[string]HealthCheck
	optional map[string]HealthCheck
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewHealthHandler создает обработчик health check
// Падение critical делает сервис unhealthy, optional дает только предупреждение
func NewHealthHandler(critical, optional map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{critical: critical, optional: optional}
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.critical)+len(h.optional))
	overallStatus := "healthy"

	for _, name := range sortedNames(h.critical) {
		if err := h.critical[name](ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	for _, name := range sortedNames(h.optional) {
		if err := h.optional[name](ctx); err != nil {
			checks[name] = "warning: " + err.Error()
		} else {
			checks[name] = "healthy"
		}
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:    overallStatus,
		Service:   serviceName,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

// Liveness обрабатывает GET /health/liveness
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "alive")
}

func sortedNames(checks map[string]HealthCheck) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
