package game

import (
	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/events/bus"
	"github.com/solsync/solsync/internal/core/observability/log"
)

// Events published on the room bus.
const (
	EventPhaseChanged = "game.phase_changed"
	EventTurnChanged  = "game.turn_changed"
)

// PhaseChange is the payload carried by EventPhaseChanged.
type PhaseChange struct {
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// TurnChange is the payload carried by EventTurnChanged.
type TurnChange struct {
	Player uint64 `json:"player"`
	Number uint32 `json:"number"`
}

// PhaseSystem advances session phases: a waiting session with enough
// players starts, and a starting session begins play on the next tick.
type PhaseSystem struct {
	log log.Log
	bus bus.EventBus
}

// NewPhaseSystem returns the phase system. events may be nil.
func NewPhaseSystem(logger log.Log, events bus.EventBus) *PhaseSystem {
	return &PhaseSystem{
		log: logger.With(log.String("system", "game.phase")),
		bus: events,
	}
}

func (s *PhaseSystem) Name() string { return "game.phase" }

func (s *PhaseSystem) Update(w *ecs.World, _ float64) {
	for _, session := range ecs.QueryMut[Session](w) {
		var target Phase
		switch session.Phase {
		case PhaseWaitingForPlayers:
			if !session.CanStart() {
				continue
			}
			target = PhaseStarting
		case PhaseStarting:
			target = PhasePlaying
		default:
			continue
		}
		s.transition(session, target)
	}
}

func (s *PhaseSystem) transition(session *Session, target Phase) {
	from := session.Phase
	if !session.ChangePhase(target) {
		return
	}
	s.log.Info("session phase changed",
		log.String("session", session.ID),
		log.String("from", from.String()),
		log.String("to", target.String()),
	)
	if s.bus != nil {
		_ = s.bus.Publish(bus.NewEvent(EventPhaseChanged, s.Name(), PhaseChange{
			SessionID: session.ID,
			From:      from.String(),
			To:        target.String(),
		}))
	}
}

// TurnSystem rotates turns whose time limit has expired.
type TurnSystem struct {
	log log.Log
	bus bus.EventBus
}

// NewTurnSystem returns the turn system. events may be nil.
func NewTurnSystem(logger log.Log, events bus.EventBus) *TurnSystem {
	return &TurnSystem{
		log: logger.With(log.String("system", "game.turn")),
		bus: events,
	}
}

func (s *TurnSystem) Name() string { return "game.turn" }

func (s *TurnSystem) Update(w *ecs.World, _ float64) {
	for _, turns := range ecs.QueryMut[Turns](w) {
		if !turns.TimeUp() {
			continue
		}
		expired := turns.Current
		next, ok := turns.NextTurn()
		s.log.Info("turn expired",
			log.Uint64("expired_player", expired.ID()),
			log.Uint64("next_player", next.ID()),
			log.Uint64("turn", uint64(turns.Number)),
		)
		if ok && s.bus != nil {
			_ = s.bus.Publish(bus.NewEvent(EventTurnChanged, s.Name(), TurnChange{
				Player: next.ID(),
				Number: turns.Number,
			}))
		}
	}
}

// ActionHandler applies one queued player action to the world.
type ActionHandler func(w *ecs.World, action Action) error

// ActionSystem drains queued Action components every tick. EndTurn and
// LeaveGame are handled in place; other kinds dispatch to registered
// handlers, so the transport layer can bind card actions to the rules
// engine without this package depending on it.
type ActionSystem struct {
	log      log.Log
	handlers map[ActionKind]ActionHandler
}

// NewActionSystem returns the action system.
func NewActionSystem(logger log.Log) *ActionSystem {
	return &ActionSystem{
		log:      logger.With(log.String("system", "game.action")),
		handlers: make(map[ActionKind]ActionHandler),
	}
}

// Handle registers a handler for an action kind, replacing any previous
// one.
func (s *ActionSystem) Handle(kind ActionKind, handler ActionHandler) {
	s.handlers[kind] = handler
}

func (s *ActionSystem) Name() string { return "game.action" }

func (s *ActionSystem) Update(w *ecs.World, _ float64) {
	var queued []ecs.Entity
	for e := range ecs.Query[Action](w) {
		queued = append(queued, e)
	}

	for _, actionEntity := range queued {
		action, ok := ecs.Get[Action](w, actionEntity)
		// Actions are consumed whether or not they apply.
		w.RemoveEntity(actionEntity)
		if !ok {
			continue
		}
		s.apply(w, action)
	}
}

func (s *ActionSystem) apply(w *ecs.World, action Action) {
	if handler, ok := s.handlers[action.Kind]; ok {
		if err := handler(w, action); err != nil {
			s.log.Warn("action handler failed",
				log.String("kind", action.Kind.String()),
				log.Uint64("player", action.Player.ID()),
				log.Error(err),
			)
		}
		return
	}

	switch action.Kind {
	case ActionEndTurn:
		for _, turns := range ecs.QueryMut[Turns](w) {
			if turns.Current == action.Player {
				turns.NextTurn()
			}
		}
	case ActionLeaveGame:
		for _, turns := range ecs.QueryMut[Turns](w) {
			turns.RemovePlayer(action.Player)
		}
		for _, session := range ecs.QueryMut[Session](w) {
			session.RemovePlayer()
		}
	default:
		s.log.Debug("unhandled action",
			log.String("kind", action.Kind.String()),
			log.Uint64("player", action.Player.ID()),
		)
	}
}
