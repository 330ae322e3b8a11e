package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"furniadmin/pkg/logger"
	"furniadmin/pkg/metrics"
)

const serviceName = "catalog-service"

// SetupRoutes настраивает маршруты админского API импорта каталога
func SetupRoutes(importHandler *ImportHandler, healthHandler *HealthHandler, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	// JSON логирование HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// Админка открывается из браузера на своем домене
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", healthHandler.Health)
	router.GET("/health/liveness", healthHandler.Liveness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Импорт доступен только сотрудникам админки
	imports := router.Group("/imports")
	imports.Use(authMiddleware.Authenticate())
	imports.Use(authMiddleware.RequireRole("admin", "manager"))
	{
		imports.POST("", importHandler.RunImport)
		imports.GET("", importHandler.ListRuns)
		imports.GET("/:id", importHandler.GetRun)
	}

	return router
}
