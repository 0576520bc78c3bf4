package netsync

import (
	"time"

	"github.com/google/uuid"

	"github.com/solsync/solsync/internal/core/ecs"
)

// Kind classifies a message on the wire.
type Kind uint8

const (
	KindPlayerAction Kind = iota
	KindGameStateSync
	KindPlayerJoinLeave
	KindChat
	KindSystemNotification
	KindPing
	KindPong
	KindError
	KindAuthentication
	KindGameSettings
)

var kindNames = map[Kind]string{
	KindPlayerAction:       "player_action",
	KindGameStateSync:      "game_state_sync",
	KindPlayerJoinLeave:    "player_join_leave",
	KindChat:               "chat",
	KindSystemNotification: "system_notification",
	KindPing:               "ping",
	KindPong:               "pong",
	KindError:              "error",
	KindAuthentication:     "authentication",
	KindGameSettings:       "game_settings",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire name back to its kind.
func ParseKind(name string) (Kind, bool) {
	for kind, n := range kindNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Priority orders message delivery. Higher values drain first.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the wire name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Message is a queued network message awaiting dispatch. Sender and
// Recipient refer to connection entities; NoEntity as recipient means
// broadcast.
type Message struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	Sender    ecs.Entity `json:"sender"`
	Recipient ecs.Entity `json:"recipient"`
	Payload   string     `json:"payload"`
	Timestamp int64      `json:"timestamp"`
	Priority  Priority   `json:"priority"`

	RetryCount uint32 `json:"retry_count"`
}

// NewMessage builds a normal-priority message.
func NewMessage(kind Kind, sender, recipient ecs.Entity, payload string) Message {
	return Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Sender:    sender,
		Recipient: recipient,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
		Priority:  PriorityNormal,
	}
}

// NewPriorityMessage builds a message with an explicit priority.
func NewPriorityMessage(kind Kind, sender, recipient ecs.Entity, payload string, priority Priority) Message {
	m := NewMessage(kind, sender, recipient, payload)
	m.Priority = priority
	return m
}

// IncrementRetry counts a delivery attempt.
func (m *Message) IncrementRetry() {
	m.RetryCount++
}

// Expired reports whether the message is older than the given age.
func (m *Message) Expired(maxAge time.Duration) bool {
	return time.Since(time.Unix(m.Timestamp, 0)) > maxAge
}
