package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler answers with the method name; "slow" waits before answering.
type echoHandler struct{}

func (echoHandler) HandleMessage(ctx context.Context, data []byte) *jsonrpc.Response {
	var req jsonrpc.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}
	if req.ID == nil {
		return nil
	}
	if req.Method == "slow" {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
		}
	}
	resp := jsonrpc.NewResult(req.ID, map[string]string{"method": req.Method})
	return &resp
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWebSocketConnection(t *testing.T) {
	ws := dial(t, NewServer(echoHandler{}, 0))

	req, err := jsonrpc.NewRequest(1, "resumes/list", map[string]string{"userId": "u1"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(req))

	var resp jsonrpc.Response
	require.NoError(t, ws.ReadJSON(&resp))
	assert.Equal(t, "1", string(*resp.ID))
	assert.JSONEq(t, `{"method":"resumes/list"}`, string(resp.Result))
}

func TestWebSocket_RequestsAreConcurrent(t *testing.T) {
	ws := dial(t, NewServer(echoHandler{}, 0))

	slow, _ := jsonrpc.NewRequest(1, "slow", nil)
	fast, _ := jsonrpc.NewRequest(2, "fast", nil)
	require.NoError(t, ws.WriteJSON(slow))
	require.NoError(t, ws.WriteJSON(fast))

	var first, second jsonrpc.Response
	require.NoError(t, ws.ReadJSON(&first))
	require.NoError(t, ws.ReadJSON(&second))

	assert.Equal(t, "2", string(*first.ID), "fast request must not wait behind slow one")
	assert.Equal(t, "1", string(*second.ID))
}

func TestWebSocket_NotificationGetsNoResponse(t *testing.T) {
	ws := dial(t, NewServer(echoHandler{}, 0))

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","method":"ping"}`)))
	req, _ := jsonrpc.NewRequest(5, "after", nil)
	require.NoError(t, ws.WriteJSON(req))

	var resp jsonrpc.Response
	require.NoError(t, ws.ReadJSON(&resp))
	assert.Equal(t, "5", string(*resp.ID))
}

func TestWebSocket_ReadLimitClosesConnection(t *testing.T) {
	ws := dial(t, NewServer(echoHandler{}, 64))

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 1024))))
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	assert.Error(t, err)
}
