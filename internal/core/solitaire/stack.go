package solitaire

import (
	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/pkg/sequence"
)

// Stack is a pile component: the ordered card entities in one deck, waste,
// tableau, foundation or free-cell slot, plus the layout parameters the
// client needs to fan them out.
type Stack struct {
	cards *sequence.Deque[ecs.Entity]

	Kind  Location `json:"kind"`
	Index uint32   `json:"index"`

	BaseX   float64 `json:"base_x"`
	BaseY   float64 `json:"base_y"`
	Spacing float64 `json:"spacing"`

	// MaxCapacity caps the pile size; negative means unlimited.
	MaxCapacity int `json:"max_capacity"`
}

// NewStack returns an empty pile of the given kind at the given board
// position. Spacing and capacity follow the pile kind: tableau columns fan
// downward, foundations hold one suit, free cells hold a single card.
func NewStack(kind Location, index uint32, baseX, baseY float64) Stack {
	spacing, capacity := 0.0, -1
	switch kind {
	case LocationTableau:
		spacing = 20.0
	case LocationFoundation:
		capacity = 13
	case LocationFreeCell:
		capacity = 1
	}
	return Stack{
		cards:       sequence.NewDeque[ecs.Entity](capacityHint(capacity)),
		Kind:        kind,
		Index:       index,
		BaseX:       baseX,
		BaseY:       baseY,
		Spacing:     spacing,
		MaxCapacity: capacity,
	}
}

func capacityHint(capacity int) int {
	if capacity > 0 {
		return capacity
	}
	return 13
}

// Push adds a card entity on top of the pile. It reports false when the
// pile is at capacity.
func (s *Stack) Push(card ecs.Entity) bool {
	if s.MaxCapacity > 0 && s.cards.Len() >= s.MaxCapacity {
		return false
	}
	s.cards.PushBack(card)
	return true
}

// Pop removes and returns the top card entity.
func (s *Stack) Pop() (ecs.Entity, bool) {
	return s.cards.PopBack()
}

// Peek returns the top card entity without removing it.
func (s *Stack) Peek() (ecs.Entity, bool) {
	return s.cards.Back()
}

// Remove detaches a specific card entity from anywhere in the pile.
func (s *Stack) Remove(card ecs.Entity) bool {
	return s.cards.RemoveFunc(func(e ecs.Entity) bool { return e == card })
}

// Cards returns the pile contents bottom first.
func (s *Stack) Cards() []ecs.Entity {
	return s.cards.Slice()
}

// Len returns the number of cards in the pile.
func (s *Stack) Len() int {
	return s.cards.Len()
}

// IsEmpty reports whether the pile holds no cards.
func (s *Stack) IsEmpty() bool {
	return s.cards.IsEmpty()
}

// CardPosition returns the display coordinates for the card at the given
// position, bottom being 0. Tableau columns fan downward; every other pile
// stacks in place.
func (s *Stack) CardPosition(position int) (x, y float64) {
	if s.Kind == LocationTableau {
		return s.BaseX, s.BaseY + float64(position)*s.Spacing
	}
	return s.BaseX, s.BaseY
}
