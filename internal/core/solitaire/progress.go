package solitaire

import (
	"time"

	"github.com/solsync/solsync/internal/core/ecs"
)

// Scoring follows the classic desktop rules.
const (
	ScoreFoundation = 10 // card placed on a foundation
	ScoreFlip       = 5  // tableau card turned face up
	// redeals beyond the second cost points
	deckTurnPenalty = 2
	freeRedeals     = 2
)

// hintIdleSeconds is how long a game may sit untouched before the hint
// flag fires.
const hintIdleSeconds = 30

// Progress is the per-game state component: variant, score and completion
// tracking for one running game.
type Progress struct {
	Variant   Variant `json:"variant"`
	Score     uint32  `json:"score"`
	Moves     uint32  `json:"moves"`
	DeckTurns uint32  `json:"deck_turns"`

	StartTime   int64   `json:"start_time"`
	IdleSeconds float64 `json:"idle_seconds"`

	Completed     bool `json:"completed"`
	Won           bool `json:"won"`
	HintAvailable bool `json:"hint_available"`
}

// NewProgress returns the starting state for a game of the given variant.
func NewProgress(variant Variant) Progress {
	return Progress{
		Variant:       variant,
		StartTime:     time.Now().Unix(),
		HintAvailable: true,
	}
}

// RequiredFoundationCards returns how many cards must reach the
// foundations to win the variant.
func (p *Progress) RequiredFoundationCards() int {
	if p.Variant == Spider {
		return 104
	}
	return 52
}

// RecordMove counts a move and awards its points.
func (p *Progress) RecordMove(points uint32) {
	p.Moves++
	p.Score += points
	p.IdleSeconds = 0
}

// RecordDeckTurn counts a pass through the stock; passes beyond the free
// allowance cost points.
func (p *Progress) RecordDeckTurn() {
	p.DeckTurns++
	p.IdleSeconds = 0
	if p.DeckTurns > freeRedeals && p.Score >= deckTurnPenalty {
		p.Score -= deckTurnPenalty
	}
}

// AddIdle accrues idle time since the last player action.
func (p *Progress) AddIdle(dt float64) {
	p.IdleSeconds += dt
}

// CheckCompletion marks the game won when every required card sits on a
// foundation. It reports the completed state.
func (p *Progress) CheckCompletion(w *ecs.World) bool {
	if p.Completed {
		return true
	}
	count := 0
	for _, card := range ecs.Query[Card](w) {
		if card.Location == LocationFoundation {
			count++
		}
	}
	if count >= p.RequiredFoundationCards() {
		p.Completed = true
		p.Won = true
		p.finalizeScore()
		return true
	}
	return false
}

// finalizeScore applies the end-of-game time bonus and move penalty.
func (p *Progress) finalizeScore() {
	elapsed := time.Now().Unix() - p.StartTime

	var bonus uint32
	switch {
	case elapsed < 300:
		bonus = 100
	case elapsed < 600:
		bonus = 50
	}

	var penalty uint32
	switch {
	case p.Moves > 200:
		penalty = 20
	case p.Moves > 100:
		penalty = 10
	}

	p.Score += bonus
	if p.Score >= penalty {
		p.Score -= penalty
	} else {
		p.Score = 0
	}
}
