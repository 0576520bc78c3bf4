package game

import (
	"github.com/google/uuid"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/observability/log"
)

// Manager wraps the common session operations behind simple calls.
type Manager struct {
	log log.Log
}

// NewManager returns a session manager.
func NewManager(logger log.Log) *Manager {
	return &Manager{log: logger.With(log.String("component", "game"))}
}

// CreateSession spawns a session entity waiting for players and returns
// it with the generated session id.
func (m *Manager) CreateSession(w *ecs.World, maxPlayers uint32) (ecs.Entity, string) {
	sessionID := uuid.NewString()
	e := w.CreateEntity()
	ecs.Add(w, e, NewSession(sessionID, maxPlayers))
	m.log.Info("session created",
		log.String("session", sessionID),
		log.Uint64("max_players", uint64(maxPlayers)),
	)
	return e, sessionID
}

// JoinPlayer counts a player into the session and reports whether there
// was room.
func (m *Manager) JoinPlayer(w *ecs.World, sessionEntity, player ecs.Entity) bool {
	session, ok := ecs.GetMut[Session](w, sessionEntity)
	if !ok || !session.AddPlayer() {
		return false
	}
	m.log.Info("player joined session",
		log.String("session", session.ID),
		log.Uint64("player", player.ID()),
		log.Uint64("players", uint64(session.CurrentPlayers)),
	)
	return true
}

// LeavePlayer counts a player out of the session and drops them from any
// turn rotation.
func (m *Manager) LeavePlayer(w *ecs.World, sessionEntity, player ecs.Entity) bool {
	session, ok := ecs.GetMut[Session](w, sessionEntity)
	if !ok || !session.RemovePlayer() {
		return false
	}
	for _, turns := range ecs.QueryMut[Turns](w) {
		turns.RemovePlayer(player)
	}
	m.log.Info("player left session",
		log.String("session", session.ID),
		log.Uint64("player", player.ID()),
		log.Uint64("players", uint64(session.CurrentPlayers)),
	)
	return true
}

// StartTurnTracking spawns the turn rotation entity over the given
// players.
func (m *Manager) StartTurnTracking(w *ecs.World, players []ecs.Entity, timeLimit uint32) ecs.Entity {
	e := w.CreateEntity()
	ecs.Add(w, e, NewTurns(players, timeLimit))
	m.log.Info("turn tracking started",
		log.Int("players", len(players)),
		log.Uint64("time_limit", uint64(timeLimit)),
	)
	return e
}

// RecordAction queues a player action for the next tick.
func (m *Manager) RecordAction(w *ecs.World, player ecs.Entity, kind ActionKind, data string) ecs.Entity {
	e := w.CreateEntity()
	ecs.Add(w, e, NewAction(player, kind, data))
	m.log.Debug("action recorded",
		log.String("kind", kind.String()),
		log.Uint64("player", player.ID()),
	)
	return e
}
