package game

import (
	"time"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/pkg/sequence"
)

// Turns is the turn-tracking component: a round-robin order of player
// entities with an optional per-turn time limit.
type Turns struct {
	order *sequence.Deque[ecs.Entity]

	Current ecs.Entity `json:"current"`
	Number  uint32     `json:"number"`

	StartedAt int64 `json:"started_at"`
	// TimeLimit caps a turn in seconds; 0 means unlimited.
	TimeLimit uint32 `json:"time_limit"`
}

// NewTurns starts turn tracking over the given players, first in the
// slice moving first.
func NewTurns(players []ecs.Entity, timeLimit uint32) Turns {
	order := sequence.NewDeque[ecs.Entity](len(players))
	for _, p := range players {
		order.PushBack(p)
	}
	current, _ := order.Front()
	return Turns{
		order:     order,
		Current:   current,
		Number:    1,
		StartedAt: time.Now().Unix(),
		TimeLimit: timeLimit,
	}
}

// NextTurn rotates to the next player and returns it. It reports false
// when no players remain.
func (t *Turns) NextTurn() (ecs.Entity, bool) {
	if current, ok := t.order.PopFront(); ok {
		t.order.PushBack(current)
	}
	current, ok := t.order.Front()
	if !ok {
		current = ecs.NoEntity
	}
	t.Current = current
	t.Number++
	t.StartedAt = time.Now().Unix()
	return current, ok
}

// Remaining returns the seconds left in the current turn. It reports
// false when the turn is unlimited.
func (t *Turns) Remaining() (uint32, bool) {
	if t.TimeLimit == 0 {
		return 0, false
	}
	elapsed := time.Now().Unix() - t.StartedAt
	if elapsed < 0 {
		elapsed = 0
	}
	if uint64(elapsed) >= uint64(t.TimeLimit) {
		return 0, true
	}
	return t.TimeLimit - uint32(elapsed), true
}

// TimeUp reports whether the current turn has run out of time.
func (t *Turns) TimeUp() bool {
	remaining, limited := t.Remaining()
	return limited && remaining == 0
}

// RemovePlayer drops a player from the rotation, advancing the current
// turn when it was theirs. It reports whether the player was in the order.
func (t *Turns) RemovePlayer(player ecs.Entity) bool {
	found := t.order.RemoveFunc(func(p ecs.Entity) bool { return p == player })
	if t.Current == player {
		current, ok := t.order.Front()
		if !ok {
			current = ecs.NoEntity
		}
		t.Current = current
	}
	return found
}

// PlayerCount returns the number of players in the rotation.
func (t *Turns) PlayerCount() int {
	return t.order.Len()
}
