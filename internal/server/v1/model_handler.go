package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/gateway"
	"github.com/nulzo/model-sync-api/pkg/schema"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// modelView is the consumer projection of a registry record. The
// backend field is routing-internal and never exposed.
type modelView struct {
	ID            string           `json:"id"`
	Object        string           `json:"object"`
	Name          string           `json:"name"`
	Reasoning     bool             `json:"reasoning"`
	Modalities    []string         `json:"modalities"`
	Cost          schema.ModelCost `json:"cost"`
	ContextWindow int              `json:"context_window"`
	MaxOutput     int              `json:"max_output"`
	Free          bool             `json:"free"`
}

func (h *ModelHandler) ListModels(c *gin.Context) {
	registry := h.service.ListModels()

	data := make([]modelView, 0, len(registry))
	for _, m := range registry {
		data = append(data, modelView{
			ID:            m.ID,
			Object:        "model",
			Name:          m.Name,
			Reasoning:     m.Reasoning,
			Modalities:    m.Modalities,
			Cost:          m.Cost,
			ContextWindow: m.ContextWindow,
			MaxOutput:     m.MaxOutput,
			Free:          m.Free(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}
