package server

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/solsync/solsync/internal/core/ecs"
)

// Player is one connected client: identity, cursor state and the outbound
// queue its write pump drains. The entity fields refer to the world of the
// room the player currently sits in.
type Player struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RoomID     string  `json:"room_id,omitempty"`
	CursorX    float64 `json:"cursor_x"`
	CursorY    float64 `json:"cursor_y"`
	Connected  bool    `json:"is_connected"`
	ColorIndex uint8   `json:"color_index"`

	entity     ecs.Entity
	connEntity ecs.Entity

	conn *websocket.Conn
	send chan []byte
}

// newPlayer wraps a fresh connection in a player record.
func newPlayer(name string, colorIndex uint8, conn *websocket.Conn, queueSize int) *Player {
	return &Player{
		ID:         uuid.NewString(),
		Name:       name,
		Connected:  true,
		ColorIndex: colorIndex,
		conn:       conn,
		send:       make(chan []byte, queueSize),
	}
}

// enqueue hands data to the write pump without blocking; a full queue
// drops the message.
func (p *Player) enqueue(data []byte) bool {
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

// writePump feeds queued messages to the socket until the queue closes.
func (p *Player) writePump() {
	for data := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
