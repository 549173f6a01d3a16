package push

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// ClientIDHeader carries the stream's client id, including generated ones.
const ClientIDHeader = "X-Client-Id"

type Handler struct {
	Registry  *Registry
	Heartbeat time.Duration // 0 disables keep-alive comments
	Logger    hclog.Logger
}

func NewHandler(reg *Registry, heartbeat time.Duration, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{Registry: reg, Heartbeat: heartbeat, Logger: logger}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/stream", h.stream) // GET /mcp/stream?client_id=
	rg.GET("/ws", h.ws)         // GET /mcp/ws?client_id=
}

func clientID(c *gin.Context) string {
	// Used as given, untrimmed, to match the ids POSTed tool calls carry.
	if id := c.Query("client_id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func (h *Handler) stream(c *gin.Context) {
	id := clientID(c)

	hdr := c.Writer.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	hdr.Set(ClientIDHeader, id)
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	sink := newSSESink(c.Writer)
	h.Registry.Open(id, sink)
	defer func() {
		h.Registry.Close(id, sink)
		sink.close()
		h.Logger.Info("stream client disconnected", "client_id", id)
	}()

	if err := sink.comment("connected to client " + id); err != nil {
		return
	}
	h.Logger.Info("stream client connected", "client_id", id)

	var tick <-chan time.Time
	if h.Heartbeat > 0 {
		t := time.NewTicker(h.Heartbeat)
		defer t.Stop()
		tick = t.C
	}

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case <-tick:
			if err := sink.comment("keepalive"); err != nil {
				return
			}
		}
	}
}

func (h *Handler) ws(c *gin.Context) {
	id := clientID(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, http.Header{ClientIDHeader: []string{id}})
	if err != nil {
		h.Logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sink := &wsSink{ws: ws}
	h.Registry.Open(id, sink)
	h.Logger.Info("ws client connected", "client_id", id)

	_ = sink.Send(welcome{Type: "welcome", Transport: "websocket", ClientID: id})

	// Incoming frames are ignored; reading only detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.Registry.Close(id, sink)
	_ = ws.Close()
	h.Logger.Info("ws client disconnected", "client_id", id)
}

var (
	_ Sink = (*sseSink)(nil)
	_ Sink = (*wsSink)(nil)
)
