package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/core/domain"
	"github.com/nulzo/model-sync-api/internal/store"
)

type AuditHandler struct {
	repo store.Repository
}

func NewAuditHandler(repo store.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}

func (h *AuditHandler) ListSyncRuns(c *gin.Context) {
	rows, err := h.repo.SyncRuns().GetRecent(c.Request.Context(), limitParam(c))
	if err != nil {
		_ = c.Error(domain.InternalError("failed to read sync runs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *AuditHandler) ListDispatches(c *gin.Context) {
	rows, err := h.repo.Dispatches().GetRecent(c.Request.Context(), limitParam(c))
	if err != nil {
		_ = c.Error(domain.InternalError("failed to read dispatch logs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
