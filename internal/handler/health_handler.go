package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fileservice/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storage port.ObjectStorage
	bucket  string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storage port.ObjectStorage, bucket string) *HealthHandler {
	return &HealthHandler{storage: storage, bucket: bucket}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Reports whether the configured bucket is reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.storage.Ping(c.Request.Context(), h.bucket); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "storage not reachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
