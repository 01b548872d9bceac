package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the service status and the last market API probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.upstream == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}
	last := h.upstream.Last()
	status := "healthy"
	if !last.Healthy {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "upstream": last})
}

// Ready godoc
// @Summary      Readiness check
// @Description  Returns 200 once startup data has loaded, 503 before
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if h.readiness == nil || !h.readiness.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
