package solitaire

import (
	"math"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/events/bus"
	"github.com/solsync/solsync/internal/core/observability/log"
)

// EventGameWon is published on the room bus when a game completes.
const EventGameWon = "solitaire.game_won"

// WinData is the payload carried by EventGameWon.
type WinData struct {
	Variant string `json:"variant"`
	Score   uint32 `json:"score"`
	Moves   uint32 `json:"moves"`
}

// MoveRequest asks the move system to relocate a card. Requests are
// attached to their own short-lived entities; the move system consumes and
// removes them every tick, applied or not.
type MoveRequest struct {
	Card   ecs.Entity `json:"card"`
	To     Location   `json:"to"`
	Slot   uint32     `json:"slot"`
	Player ecs.Entity `json:"player"`
}

// MoveSystem validates and applies queued card moves, scoring them and
// flipping newly exposed tableau cards.
type MoveSystem struct {
	log log.Log
}

// NewMoveSystem returns the move system.
func NewMoveSystem(logger log.Log) *MoveSystem {
	return &MoveSystem{log: logger.With(log.String("system", "solitaire.move"))}
}

func (s *MoveSystem) Name() string { return "solitaire.move" }

func (s *MoveSystem) Update(w *ecs.World, _ float64) {
	var requests []ecs.Entity
	for e := range ecs.Query[MoveRequest](w) {
		requests = append(requests, e)
	}

	for _, reqEntity := range requests {
		req, ok := ecs.Get[MoveRequest](w, reqEntity)
		// Requests are consumed whether or not they apply.
		w.RemoveEntity(reqEntity)
		if !ok {
			continue
		}
		s.apply(w, req)
	}
}

func (s *MoveSystem) apply(w *ecs.World, req MoveRequest) {
	card, ok := ecs.Get[Card](w, req.Card)
	if !ok || !card.Movable {
		return
	}
	from, fromSlot := card.Location, card.Slot

	var applied bool
	var points uint32
	switch req.To {
	case LocationFoundation:
		applied = s.moveToFoundation(w, req.Card, &card, req.Slot)
		points = ScoreFoundation
	case LocationTableau:
		applied = s.moveToTableau(w, req.Card, &card, req.Slot)
	default:
		s.log.Debug("unsupported move target", log.String("target", req.To.Name()))
		return
	}
	if !applied {
		s.log.Debug("illegal move rejected",
			log.String("card", card.Label()),
			log.String("to", req.To.Name()),
		)
		return
	}

	if from == LocationTableau {
		points += s.exposeTableauCard(w, fromSlot)
	}
	for _, progress := range ecs.QueryMut[Progress](w) {
		progress.RecordMove(points)
	}
	s.log.Debug("move applied",
		log.String("card", card.Label()),
		log.String("from", from.Name()),
		log.String("to", req.To.Name()),
	)
}

func (s *MoveSystem) moveToFoundation(w *ecs.World, cardEntity ecs.Entity, card *Card, index uint32) bool {
	top, hasTop := FoundationTop(w, index)
	var topRef *Card
	if hasTop {
		topRef = &top
	}
	if !card.CanPlaceOnFoundation(topRef) {
		return false
	}
	mut, ok := ecs.GetMut[Card](w, cardEntity)
	if !ok {
		return false
	}
	mut.Selected = false
	mut.SetLocation(LocationFoundation, index)
	mut.StartAnimation(foundationBaseX+float64(index)*foundationSpacing, foundationY)
	return true
}

func (s *MoveSystem) moveToTableau(w *ecs.World, cardEntity ecs.Entity, card *Card, column uint32) bool {
	top, hasTop := TableauTop(w, column)
	allowed := card.CanPlaceOnEmptyTableau()
	if hasTop {
		allowed = card.CanPlaceOnTableau(&top)
	}
	if !allowed {
		return false
	}
	depth := TableauCount(w, column)
	mut, ok := ecs.GetMut[Card](w, cardEntity)
	if !ok {
		return false
	}
	mut.Selected = false
	mut.SetLocation(LocationTableau, column)
	mut.StartAnimation(
		tableauBaseX+float64(column)*tableauSpacingX,
		tableauBaseY+float64(depth)*tableauSpacingY,
	)
	return true
}

// exposeTableauCard flips the card left on top of a column after a move
// away from it, returning the flip bonus when one turned over.
func (s *MoveSystem) exposeTableauCard(w *ecs.World, column uint32) uint32 {
	var top ecs.Entity
	var topY float64
	found := false
	for e, card := range ecs.Query[Card](w) {
		if card.Location != LocationTableau || card.Slot != column {
			continue
		}
		if !found || card.DisplayY > topY {
			top, topY, found = e, card.DisplayY, true
		}
	}
	if !found {
		return 0
	}
	card, ok := ecs.GetMut[Card](w, top)
	if !ok || card.FaceUp {
		return 0
	}
	card.FlipUp()
	s.log.Debug("tableau card exposed", log.String("card", card.Label()))
	return ScoreFlip
}

// animationSpeed is how fast cards glide, in pixels per second.
const animationSpeed = 500.0

// animationSnapDistance is how close a card must be to its target before
// it snaps into place.
const animationSnapDistance = 2.0

// AnimationSystem glides animating cards toward their targets.
type AnimationSystem struct{}

// NewAnimationSystem returns the animation system.
func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (s *AnimationSystem) Name() string { return "solitaire.animation" }

func (s *AnimationSystem) Update(w *ecs.World, dt float64) {
	for _, card := range ecs.QueryMut[Card](w) {
		if !card.Animating {
			continue
		}
		dx := card.TargetX - card.DisplayX
		dy := card.TargetY - card.DisplayY
		distance := math.Hypot(dx, dy)
		if distance < animationSnapDistance {
			card.FinishAnimation()
			continue
		}
		ratio := animationSpeed * dt / distance
		if ratio > 1 {
			ratio = 1
		}
		card.DisplayX += dx * ratio
		card.DisplayY += dy * ratio
	}
}

// ProgressSystem accrues idle time, fires the hint flag and detects
// completion, announcing wins on the room bus.
type ProgressSystem struct {
	log log.Log
	bus bus.EventBus
}

// NewProgressSystem returns the progress system. events may be nil when no
// one listens.
func NewProgressSystem(logger log.Log, events bus.EventBus) *ProgressSystem {
	return &ProgressSystem{
		log: logger.With(log.String("system", "solitaire.progress")),
		bus: events,
	}
}

func (s *ProgressSystem) Name() string { return "solitaire.progress" }

func (s *ProgressSystem) Update(w *ecs.World, dt float64) {
	for _, progress := range ecs.QueryMut[Progress](w) {
		if progress.Completed {
			continue
		}
		progress.AddIdle(dt)

		if progress.CheckCompletion(w) {
			s.log.Info("game won",
				log.String("variant", progress.Variant.Name()),
				log.Uint64("score", uint64(progress.Score)),
				log.Uint64("moves", uint64(progress.Moves)),
			)
			if s.bus != nil {
				_ = s.bus.Publish(bus.NewEvent(EventGameWon, s.Name(), WinData{
					Variant: progress.Variant.Name(),
					Score:   progress.Score,
					Moves:   progress.Moves,
				}))
			}
			continue
		}

		if progress.IdleSeconds > hintIdleSeconds && progress.HintAvailable {
			progress.HintAvailable = false
			s.log.Debug("hint suggested", log.Float64("idle_seconds", progress.IdleSeconds))
		}
	}
}
