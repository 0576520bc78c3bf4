// Package client provides a high-level WebSocket client SDK for solsync
// game servers.
package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/solsync/solsync/internal/core/observability/log"
	"github.com/solsync/solsync/internal/server"
)

// FrameHandler handles one inbound frame of a given wire type.
type FrameHandler func(msg server.WireMessage) error

// Config holds configuration for the client
type Config struct {
	// Connection settings
	ServerURL      string
	ConnectTimeout time.Duration

	// Message settings
	MaxMessageSize int64

	// Logging
	LogLevel log.Level
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() Config {
	return Config{
		ServerURL:      "ws://127.0.0.1:8101/ws",
		ConnectTimeout: 30 * time.Second,
		MaxMessageSize: 64 * 1024,
		LogLevel:       log.LevelInfo,
	}
}

// Client is a connection to a solsync server. Handlers registered with On
// run on the read loop goroutine.
type Client struct {
	config Config
	logger log.Log

	conn *websocket.Conn

	// Identity assigned by the server after Join.
	playerID   string
	playerName string
	colorIndex uint8

	handlers     map[string][]FrameHandler
	handlerMutex sync.RWMutex

	writeMutex sync.Mutex

	connected int32 // atomic bool
	closed    int32 // atomic bool
	joined    chan struct{}
	done      chan struct{}
}

// New creates a client from the given configuration.
func New(config Config) *Client {
	return &Client{
		config:   config,
		logger:   log.New(config.LogLevel).With(log.String("component", "client")),
		handlers: make(map[string][]FrameHandler),
		joined:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// On registers a handler for a wire message type.
func (c *Client) On(frameType string, handler FrameHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.handlers[frameType] = append(c.handlers[frameType], handler)
}

// Connect dials the server and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientClosed
	}
	if !atomic.CompareAndSwapInt32(&c.connected, 0, 1) {
		return ErrAlreadyConnected
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.config.ServerURL, nil)
	if err != nil {
		atomic.StoreInt32(&c.connected, 0)
		return err
	}
	conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn = conn

	go c.readLoop()

	c.logger.Info("connected", log.String("url", c.config.ServerURL))
	return nil
}

// Join introduces the player and waits for the server-assigned identity.
func (c *Client) Join(ctx context.Context, name string) error {
	if atomic.LoadInt32(&c.connected) == 0 {
		return ErrNotConnected
	}

	err := c.send(server.WireMessage{Type: server.TypePlayerJoin, PlayerName: name})
	if err != nil {
		return err
	}

	select {
	case <-c.joined:
		return nil
	case <-c.done:
		return ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PlayerID returns the server-assigned player id, empty before Join
// completes.
func (c *Client) PlayerID() string {
	select {
	case <-c.joined:
		return c.playerID
	default:
		return ""
	}
}

// ColorIndex returns the cursor color assigned by the server.
func (c *Client) ColorIndex() uint8 {
	select {
	case <-c.joined:
		return c.colorIndex
	default:
		return 0
	}
}

// SendCursor reports the local cursor position.
func (c *Client) SendCursor(x, y float64) error {
	id := c.PlayerID()
	if id == "" {
		return ErrNotJoined
	}
	return c.send(server.WireMessage{
		Type:      server.TypeMousePosition,
		PlayerID:  id,
		X:         &x,
		Y:         &y,
		Timestamp: uint64(time.Now().UnixMilli()),
	})
}

// SendAction performs a named game action, optionally at a board position.
func (c *Client) SendAction(action string, x, y *float64) error {
	id := c.PlayerID()
	if id == "" {
		return ErrNotJoined
	}
	return c.send(server.WireMessage{
		Type:       server.TypeGameAction,
		PlayerID:   id,
		PlayerName: c.playerName,
		Action:     action,
		X:          x,
		Y:          y,
		Timestamp:  uint64(time.Now().UnixMilli()),
	})
}

// JoinRoom asks to move into the given room.
func (c *Client) JoinRoom(roomID string) error {
	id := c.PlayerID()
	if id == "" {
		return ErrNotJoined
	}
	return c.send(server.WireMessage{
		Type:     server.TypeJoinRoom,
		RoomID:   roomID,
		PlayerID: id,
	})
}

// LeaveRoom leaves the current room.
func (c *Client) LeaveRoom() error {
	id := c.PlayerID()
	if id == "" {
		return ErrNotJoined
	}
	return c.send(server.WireMessage{Type: server.TypeLeaveRoom, PlayerID: id})
}

// RequestRooms asks for the current room listing.
func (c *Client) RequestRooms() error {
	if atomic.LoadInt32(&c.connected) == 0 {
		return ErrNotConnected
	}
	return c.send(server.WireMessage{Type: server.TypeRoomList})
}

// Close tears the connection down.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	atomic.StoreInt32(&c.connected, 0)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.logger.Info("closed")
	return nil
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) send(msg server.WireMessage) error {
	data, err := server.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if err = c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Error("write failed", log.Error(err))
		return ErrSendFailed
	}
	return nil
}

// readLoop reads frames until the socket closes, dispatching them to the
// registered handlers.
func (c *Client) readLoop() {
	defer close(c.done)
	defer atomic.StoreInt32(&c.connected, 0)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if atomic.LoadInt32(&c.closed) == 0 {
				c.logger.Warn("connection lost", log.Error(err))
			}
			return
		}

		msg, err := server.Unmarshal(data)
		if err != nil {
			c.logger.Warn("unparseable frame", log.Error(err))
			continue
		}

		c.acceptIdentity(msg)
		c.dispatch(msg)
	}
}

// acceptIdentity captures the join echo carrying the assigned identity.
func (c *Client) acceptIdentity(msg server.WireMessage) {
	select {
	case <-c.joined:
		return
	default:
	}
	if msg.Type != server.TypePlayerJoin {
		return
	}
	c.playerID = msg.PlayerID
	c.playerName = msg.PlayerName
	c.colorIndex = msg.PlayerIndex
	close(c.joined)
	c.logger.Info("joined",
		log.String("player", c.playerID),
		log.Uint64("color", uint64(c.colorIndex)),
	)
}

func (c *Client) dispatch(msg server.WireMessage) {
	c.handlerMutex.RLock()
	handlers := append([]FrameHandler(nil), c.handlers[msg.Type]...)
	c.handlerMutex.RUnlock()

	for _, handler := range handlers {
		if err := handler(msg); err != nil {
			c.logger.Warn("frame handler failed",
				log.String("type", msg.Type),
				log.Error(err),
			)
		}
	}
}
