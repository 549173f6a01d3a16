package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Dispatcher *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{Dispatcher: d}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/messages", h.messages) // POST /mcp/messages
}

func (h *Handler) messages(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var payload any = map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	call := ParseEnvelope(payload)

	// Upstream calls run to completion even if the caller goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	res, err := h.Dispatcher.Dispatch(ctx, call)
	if err != nil {
		h.Dispatcher.Logger.Error("tool call failed", "tool", call.Tool, "client_id", call.ClientID, "error", err)
		res = ServerError(err)
	}
	c.JSON(res.Status, res.Body)
}

// Recovery converts a panic anywhere in the chain into the same 500 body a
// failed dispatch produces.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		res := ServerError(recovered)
		c.AbortWithStatusJSON(res.Status, res.Body)
	})
}
