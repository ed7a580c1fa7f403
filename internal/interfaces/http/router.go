package http

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/piprapay/ppgateway/internal/infrastructure/metrics"
	"github.com/piprapay/ppgateway/internal/interfaces/http/middleware"
	"github.com/piprapay/ppgateway/internal/interfaces/http/routes"

	_ "github.com/piprapay/ppgateway/docs"
)

// SetupRoutes installs middleware and every route on the container's engine.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID(c.log))
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	if c.cfg.Metrics.Enabled {
		c.engine.Use(metrics.GinMiddleware())
	}

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	metricsPath := ""
	if c.cfg.Metrics.Enabled {
		metricsPath = c.cfg.Metrics.Path
	}

	routes.SetupHealthRoutes(c.engine, &routes.HealthRouteConfig{
		HealthHandler: c.hdlrs.health,
		MetricsPath:   metricsPath,
	})

	routes.SetupPaymentRoutes(c.engine, &routes.PaymentRouteConfig{
		PaymentHandler: c.hdlrs.payment,
	})
}
