package push

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreamServer(t *testing.T, heartbeat time.Duration) (*httptest.Server, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := NewRegistry(nil)
	r := gin.New()
	NewHandler(reg, heartbeat, nil).RegisterRoutes(r.Group("/mcp"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, reg
}

func readFrame(t *testing.T, br *bufio.Reader) string {
	t.Helper()
	line, err := br.ReadString('\n')
	require.NoError(t, err)
	blank, err := br.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "\n", blank)
	return strings.TrimSuffix(line, "\n")
}

func TestStream_ConnectAckAndEvents(t *testing.T) {
	srv, reg := newStreamServer(t, 0)

	resp, err := http.Get(srv.URL + "/mcp/stream?client_id=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "abc", resp.Header.Get(ClientIDHeader))

	br := bufio.NewReader(resp.Body)
	assert.Equal(t, ":connected to client abc", readFrame(t, br))

	require.True(t, reg.Notify("abc", map[string]string{"type": "status", "status": "searching"}))
	frame := readFrame(t, br)
	require.True(t, strings.HasPrefix(frame, "data:"), frame)
	assert.JSONEq(t, `{"type":"status","status":"searching"}`, strings.TrimPrefix(frame, "data:"))
}

func TestStream_GeneratesClientID(t *testing.T) {
	srv, reg := newStreamServer(t, 0)

	resp, err := http.Get(srv.URL + "/mcp/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	id := resp.Header.Get(ClientIDHeader)
	require.NotEmpty(t, id)

	br := bufio.NewReader(resp.Body)
	assert.Equal(t, ":connected to client "+id, readFrame(t, br))
	assert.True(t, reg.Notify(id, "x"))
}

func TestStream_ClientIDNotTrimmed(t *testing.T) {
	srv, reg := newStreamServer(t, 0)

	resp, err := http.Get(srv.URL + "/mcp/stream?client_id=%20abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	br := bufio.NewReader(resp.Body)
	assert.Equal(t, ":connected to client  abc", readFrame(t, br))

	assert.False(t, reg.Notify("abc", "x"))
	require.True(t, reg.Notify(" abc", "x"))
	assert.Equal(t, "data:x", readFrame(t, br))
}

func TestStream_DisconnectRemovesEntry(t *testing.T) {
	srv, reg := newStreamServer(t, 0)

	resp, err := http.Get(srv.URL + "/mcp/stream?client_id=gone")
	require.NoError(t, err)
	readFrame(t, bufio.NewReader(resp.Body))
	require.Equal(t, 1, reg.Count())

	resp.Body.Close()

	assert.Eventually(t, func() bool { return reg.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, reg.Notify("gone", "x"))
}

func TestStream_Heartbeat(t *testing.T) {
	srv, _ := newStreamServer(t, 20*time.Millisecond)

	resp, err := http.Get(srv.URL + "/mcp/stream?client_id=hb")
	require.NoError(t, err)
	defer resp.Body.Close()

	br := bufio.NewReader(resp.Body)
	readFrame(t, br)
	assert.Equal(t, ":keepalive", readFrame(t, br))
}

func TestWebSocket_WelcomeAndEvents(t *testing.T) {
	srv, reg := newStreamServer(t, 0)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/mcp/ws?client_id=w1"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Equal(t, "w1", resp.Header.Get(ClientIDHeader))

	var hello welcome
	require.NoError(t, ws.ReadJSON(&hello))
	assert.Equal(t, "websocket", hello.Transport)
	assert.Equal(t, "w1", hello.ClientID)

	require.True(t, reg.Notify("w1", map[string]any{"type": "tool_result"}))
	var ev map[string]any
	require.NoError(t, ws.ReadJSON(&ev))
	assert.Equal(t, "tool_result", ev["type"])

	ws.Close()
	assert.Eventually(t, func() bool { return reg.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
