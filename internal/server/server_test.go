package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/game"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	cfg.GameSeed = 7
	srv := NewServer(cfg)

	room, err := srv.createRoom(cfg.DefaultRoomName)
	require.NoError(t, err)
	srv.defaultRoomID = room.ID

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg WireMessage) {
	t.Helper()
	data, err := wireCodec.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readFrame(t *testing.T, conn *websocket.Conn) WireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg WireMessage
	require.NoError(t, wireCodec.Unmarshal(data, &msg))
	return msg
}

// join performs the handshake and returns the server-assigned player id.
func join(t *testing.T, conn *websocket.Conn, name string) string {
	t.Helper()
	send(t, conn, WireMessage{Type: TypePlayerJoin, PlayerName: name})

	echo := readFrame(t, conn)
	require.Equal(t, TypePlayerJoin, echo.Type)
	require.Equal(t, name, echo.PlayerName)
	require.NotEmpty(t, echo.PlayerID)

	list := readFrame(t, conn)
	require.Equal(t, TypeRoomList, list.Type)
	require.Len(t, list.Rooms, 1)
	return echo.PlayerID
}

func TestJoinHandshake(t *testing.T) {
	srv, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")

	require.Eventually(t, func() bool {
		return srv.GetStats().PlayerCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJoinBroadcastReachesOthers(t *testing.T) {
	_, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")

	c2 := dial(t, ts)
	bobID := join(t, c2, "bob")

	notice := readFrame(t, c1)
	require.Equal(t, TypePlayerJoin, notice.Type)
	require.Equal(t, "bob", notice.PlayerName)
	require.Equal(t, bobID, notice.PlayerID)
	require.Equal(t, uint8(2), notice.PlayerIndex)
}

func TestMousePositionRelayExcludesSender(t *testing.T) {
	_, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")
	c2 := dial(t, ts)
	bobID := join(t, c2, "bob")
	readFrame(t, c1) // bob's join notice

	x, y := 120.5, 88.0
	send(t, c2, WireMessage{
		Type:      TypeMousePosition,
		PlayerID:  bobID,
		X:         &x,
		Y:         &y,
		Timestamp: 42,
	})

	relay := readFrame(t, c1)
	require.Equal(t, TypeMousePosition, relay.Type)
	require.Equal(t, bobID, relay.PlayerID)
	require.NotNil(t, relay.X)
	require.Equal(t, x, *relay.X)
	require.Equal(t, uint64(42), relay.Timestamp)
}

func TestGameActionRelayAndRecording(t *testing.T) {
	srv, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")
	c2 := dial(t, ts)
	bobID := join(t, c2, "bob")
	readFrame(t, c1) // bob's join notice

	send(t, c2, WireMessage{
		Type:       TypeGameAction,
		PlayerID:   bobID,
		PlayerName: "bob",
		Action:     "draw_card",
	})

	relay := readFrame(t, c1)
	require.Equal(t, TypeGameAction, relay.Type)
	require.Equal(t, "draw_card", relay.Action)

	value, ok := srv.rooms.Load(srv.defaultRoomID)
	require.True(t, ok)
	room := value.(*Room)
	require.Eventually(t, func() bool {
		room.mu.Lock()
		defer room.mu.Unlock()
		return ecs.Count[game.Action](room.world) == 1
	}, time.Second, 10*time.Millisecond, "action queued for the next tick")
}

func TestJoinRoomWithUnknownIDFails(t *testing.T) {
	_, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")

	send(t, c1, WireMessage{Type: TypeJoinRoom, RoomID: "no-such-room"})
	reply := readFrame(t, c1)
	require.Equal(t, TypeError, reply.Type)
	require.Equal(t, ErrRoomNotFound.Error(), reply.Message)
}

func TestMessageBeforeJoinRejected(t *testing.T) {
	_, ts := newTestServer(t)

	c1 := dial(t, ts)
	send(t, c1, WireMessage{Type: TypeGameAction, Action: "draw_card"})
	reply := readFrame(t, c1)
	require.Equal(t, TypeError, reply.Type)
}

func TestDisconnectBroadcastsPlayerLeft(t *testing.T) {
	srv, ts := newTestServer(t)

	c1 := dial(t, ts)
	join(t, c1, "alice")
	c2 := dial(t, ts)
	bobID := join(t, c2, "bob")
	readFrame(t, c1) // bob's join notice

	require.NoError(t, c2.Close())

	notice := readFrame(t, c1)
	require.Equal(t, TypePlayerLeft, notice.Type)
	require.Equal(t, bobID, notice.PlayerID)
	require.Equal(t, "bob", notice.PlayerName)

	require.Eventually(t, func() bool {
		return srv.GetStats().PlayerCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}
