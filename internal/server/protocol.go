package server

import "github.com/solsync/solsync/pkg/encoding"

// Wire message type tags. Clients send and receive a single tagged JSON
// envelope; the tag picks which fields are meaningful.
const (
	TypePlayerJoin    = "PlayerJoin"
	TypePlayerLeft    = "PlayerLeft"
	TypeMousePosition = "MousePosition"
	TypeGameAction    = "GameAction"
	TypeJoinRoom      = "JoinRoom"
	TypeLeaveRoom     = "LeaveRoom"
	TypeRoomList      = "RoomList"
	TypeError         = "Error"
)

// WireMessage is the tagged envelope exchanged with browser clients.
type WireMessage struct {
	Type string `json:"type"`

	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	PlayerIndex uint8  `json:"player_index,omitempty"`

	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Timestamp uint64   `json:"timestamp,omitempty"`

	Action string `json:"action,omitempty"`

	RoomID string     `json:"room_id,omitempty"`
	Rooms  []RoomInfo `json:"rooms,omitempty"`

	Message string `json:"message,omitempty"`
}

// RoomInfo is the room summary sent in room listings.
type RoomInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount uint32 `json:"player_count"`
	MaxPlayers  uint32 `json:"max_players"`
	GameState   string `json:"game_state"`
}

// wireCodec encodes all client traffic.
var wireCodec encoding.Codec = encoding.JSON{}

// Marshal encodes a wire message for sending.
func Marshal(msg WireMessage) ([]byte, error) {
	return wireCodec.Marshal(msg)
}

// Unmarshal decodes one wire frame.
func Unmarshal(data []byte) (WireMessage, error) {
	var msg WireMessage
	err := wireCodec.Unmarshal(data, &msg)
	return msg, err
}

func joinMessage(playerID, playerName string, colorIndex uint8) WireMessage {
	return WireMessage{
		Type:        TypePlayerJoin,
		PlayerID:    playerID,
		PlayerName:  playerName,
		PlayerIndex: colorIndex,
	}
}

func leftMessage(playerID, playerName string) WireMessage {
	return WireMessage{
		Type:       TypePlayerLeft,
		PlayerID:   playerID,
		PlayerName: playerName,
	}
}

func errorMessage(message string) WireMessage {
	return WireMessage{Type: TypeError, Message: message}
}

func roomListMessage(rooms []RoomInfo) WireMessage {
	return WireMessage{Type: TypeRoomList, Rooms: rooms}
}
