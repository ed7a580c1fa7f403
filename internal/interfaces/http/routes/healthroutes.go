package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/piprapay/ppgateway/internal/interfaces/http/handlers"
)

type HealthRouteConfig struct {
	HealthHandler *handlers.HealthHandler
	// MetricsPath is empty when metrics are disabled.
	MetricsPath string
}

func SetupHealthRoutes(engine *gin.Engine, cfg *HealthRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.Health)

	if cfg.MetricsPath != "" {
		engine.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
}
