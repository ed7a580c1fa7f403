package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/shared/version"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports liveness and whether the database answers.
// @Summary Health check
// @Description Report liveness and whether the database answers
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	database := "up"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "degraded"
			database = "down"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Database: database,
		Version:  version.Version,
	})
}
