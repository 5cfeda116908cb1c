package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/core/services"
)

type HealthHandler struct {
	sync *services.Controller
}

func NewHealthHandler(sync *services.Controller) *HealthHandler {
	return &HealthHandler{sync: sync}
}

func (h *HealthHandler) Health(c *gin.Context) {
	state := "unknown"
	if h.sync != nil {
		state = string(h.sync.State())
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"sync":   state,
	})
}
