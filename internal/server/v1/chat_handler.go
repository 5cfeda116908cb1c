package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/core/domain"
	"github.com/nulzo/model-sync-api/internal/gateway"
	"github.com/nulzo/model-sync-api/pkg/schema"
)

type ChatHandler struct {
	service gateway.Service
}

func NewChatHandler(service gateway.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	var req schema.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(domain.ParseValidationError(err)))
		return
	}

	if req.Stream {
		h.handleStream(c, &req)
		return
	}

	resp, err := h.service.Chat(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleStream relays the upstream SSE stream. Dispatch-time failures
// (unknown model, missing credential, upstream error) are emitted as an
// error event on the stream itself, not as a bare HTTP error.
func (h *ChatHandler) handleStream(c *gin.Context, req *schema.ChatRequest) {
	streamChan, gateErr := h.service.StreamChat(c.Request.Context(), req)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	if gateErr != nil {
		writeStreamError(c.Writer, gateErr)
		_, _ = io.WriteString(c.Writer, "data: [DONE]\n\n")
		c.Writer.Flush()
		return
	}

	c.Stream(func(w io.Writer) bool {
		result, ok := <-streamChan
		if !ok {
			_, _ = io.WriteString(w, "data: [DONE]\n\n")
			return false
		}

		if result.Err != nil {
			writeStreamError(w, result.Err)
			return false
		}

		if result.Response != nil {
			data, err := json.Marshal(result.Response)
			if err == nil {
				_, err = fmt.Fprintf(w, "data: %s\n\n", data)
				return err == nil
			}
		}
		return true
	})
}

func writeStreamError(w io.Writer, err error) {
	code := http.StatusInternalServerError
	if appErr, ok := err.(*domain.Error); ok {
		code = appErr.Code
	}

	errResp := schema.ChatResponse{
		Object: "chat.completion.chunk",
		Choices: []schema.Choice{{
			FinishReason: "error",
			Error: &schema.ErrorResponse{
				Code:    code,
				Message: err.Error(),
			},
		}},
	}
	data, _ := json.Marshal(errResp)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
