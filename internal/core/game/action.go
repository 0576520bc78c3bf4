package game

import (
	"time"

	"github.com/solsync/solsync/internal/core/ecs"
)

// ActionKind identifies a player action.
type ActionKind uint8

const (
	ActionMoveCard ActionKind = iota
	ActionFlipCard
	ActionDrawCard
	ActionEndTurn
	ActionLeaveGame
	ActionSendMessage
	ActionChangeSettings
)

// String returns the wire name of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionMoveCard:
		return "move_card"
	case ActionFlipCard:
		return "flip_card"
	case ActionDrawCard:
		return "draw_card"
	case ActionEndTurn:
		return "end_turn"
	case ActionLeaveGame:
		return "leave_game"
	case ActionSendMessage:
		return "send_message"
	case ActionChangeSettings:
		return "change_settings"
	default:
		return "unknown"
	}
}

// ParseActionKind maps a wire name back to an ActionKind.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "move_card":
		return ActionMoveCard, true
	case "flip_card":
		return ActionFlipCard, true
	case "draw_card":
		return ActionDrawCard, true
	case "end_turn":
		return ActionEndTurn, true
	case "leave_game":
		return ActionLeaveGame, true
	case "send_message":
		return ActionSendMessage, true
	case "change_settings":
		return ActionChangeSettings, true
	default:
		return 0, false
	}
}

// Action is a queued player action component. Actions are attached to
// short-lived entities; the action system consumes them every tick.
type Action struct {
	Player    ecs.Entity `json:"player"`
	Kind      ActionKind `json:"kind"`
	Timestamp int64      `json:"timestamp"`
	// Data carries the action detail as raw JSON, when the kind needs one.
	Data string `json:"data,omitempty"`
}

// NewAction returns a timestamped action.
func NewAction(player ecs.Entity, kind ActionKind, data string) Action {
	return Action{
		Player:    player,
		Kind:      kind,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}
