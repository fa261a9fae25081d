package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasel/wasel/internal/app"
	"github.com/wasel/wasel/internal/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Coordinator) {
	t.Helper()
	cfg := &config.Config{
		Mode:           "release",
		StaticPath:     t.TempDir(),
		ReadLimit:      32768,
		SendBuffer:     32,
		ChatRateLimit:  0,
		ChatRateWindow: time.Second,
		Secret:         "test-secret",
	}
	coord := app.NewCoordinator(nil)
	srv := httptest.NewServer(SetupRouter(context.Background(), cfg, coord))
	t.Cleanup(srv.Close)
	return srv, coord
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(v any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(v))
}

// expect reads frames until one of the wanted type arrives.
func (c *wsClient) expect(typ string) map[string]any {
	c.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(c.t, c.conn.SetReadDeadline(deadline))
		_, data, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %q", typ)
		var m map[string]any
		require.NoError(c.t, json.Unmarshal(data, &m))
		if m["type"] == typ {
			return m
		}
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := stdhttp.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestJoinAndUsersEndpoint(t *testing.T) {
	srv, coord := newTestServer(t)

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "join", "name": "Alice"})
	list := alice.expect("users_list")
	assert.Equal(t, []any{"Alice"}, list["users"])

	assert.Equal(t, []string{"Alice"}, coord.Users())

	resp, err := stdhttp.Get(srv.URL + "/api/users")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Users []string `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Alice"}, body.Users)
}

func TestJoinEmptyNameRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	c := dial(t, srv)
	c.send(map[string]any{"type": "join", "name": ""})
	evt := c.expect("error")
	assert.Equal(t, "display name empty", evt["error"])
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t)

	c := dial(t, srv)
	c.send(map[string]any{"type": "ping"})
	c.expect("pong")
}

func TestChatRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "join", "name": "Alice"})
	alice.expect("users_list")

	bob := dial(t, srv)
	bob.send(map[string]any{"type": "join", "name": "Bob"})
	bob.expect("users_list")

	joined := alice.expect("user_joined")
	assert.Equal(t, "Bob", joined["username"])

	bob.send(map[string]any{"type": "send_message", "text": "hi Alice"})

	for _, c := range []*wsClient{alice, bob} {
		msg := c.expect("receive_message")
		assert.Equal(t, "Bob", msg["username"])
		assert.Equal(t, "hi Alice", msg["text"])
		assert.NotEmpty(t, msg["id"])
	}
}

func TestCallFlowOverWebsocket(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "join", "name": "Alice"})
	alice.expect("users_list")

	bob := dial(t, srv)
	bob.send(map[string]any{"type": "join", "name": "Bob"})
	bob.expect("users_list")

	bob.send(map[string]any{"type": "initiate_call", "targetName": "Alice", "callType": "video"})

	initiated := bob.expect("call_initiated")
	assert.Equal(t, "Alice", initiated["targetUser"])
	callID, _ := initiated["callId"].(string)
	require.NotEmpty(t, callID)

	incoming := alice.expect("incoming_call")
	assert.Equal(t, "Bob", incoming["caller"])
	assert.Equal(t, callID, incoming["callId"])

	alice.send(map[string]any{"type": "call_response", "callId": callID, "response": "accept"})
	alice.expect("call_accepted")
	bob.expect("call_accepted")

	// Signaling is relayed opaquely to the other party.
	bob.send(map[string]any{
		"type":   "webrtc_offer",
		"callId": callID,
		"offer":  map[string]any{"sdp": "v=0 test", "type": "offer"},
	})
	offer := alice.expect("webrtc_offer")
	assert.Equal(t, callID, offer["callId"])
	assert.Equal(t, "v=0 test", offer["offer"].(map[string]any)["sdp"])

	bob.send(map[string]any{"type": "toggle_mute", "callId": callID, "isMuted": true})
	muted := alice.expect("participant_muted")
	assert.Equal(t, "Bob", muted["username"])
	assert.Equal(t, true, muted["isMuted"])

	bob.send(map[string]any{"type": "end_call", "callId": callID})
	assert.Equal(t, callID, alice.expect("call_ended")["callId"])
	assert.Equal(t, callID, bob.expect("call_ended")["callId"])
}

func TestDisconnectEndsPendingCall(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "join", "name": "Alice"})
	alice.expect("users_list")

	bob := dial(t, srv)
	bob.send(map[string]any{"type": "join", "name": "Bob"})
	bob.expect("users_list")

	bob.send(map[string]any{"type": "initiate_call", "targetName": "Alice", "callType": "audio"})
	initiated := bob.expect("call_initiated")
	callID, _ := initiated["callId"].(string)
	alice.expect("incoming_call")

	// The ringing target drops before responding.
	alice.conn.Close()

	ended := bob.expect("call_ended")
	assert.Equal(t, callID, ended["callId"])
	assert.Equal(t, "Alice", ended["endedBy"])
	assert.Equal(t, "peer disconnected", ended["reason"])

	left := bob.expect("user_left")
	assert.Equal(t, "Alice", left["username"])
}
