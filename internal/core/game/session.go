// Package game manages multiplayer sessions on the ecs runtime: the session
// phase machine, round-robin turn tracking and the queue of player actions
// applied each tick.
package game

import "time"

// Phase is the lifecycle stage of a session.
type Phase uint8

const (
	PhaseWaitingForPlayers Phase = iota
	PhaseStarting
	PhasePlaying
	PhasePaused
	PhaseFinished
	PhaseAborted
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "waiting_for_players"
	case PhaseStarting:
		return "starting"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CanTransitionTo reports whether the phase machine allows moving to
// target. Aborting is allowed from anywhere; finished and aborted sessions
// can only restart into the waiting phase.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseAborted {
		return true
	}
	switch {
	case p == PhaseWaitingForPlayers && target == PhaseStarting:
		return true
	case p == PhaseStarting && target == PhasePlaying:
		return true
	case p == PhasePlaying && (target == PhasePaused || target == PhaseFinished):
		return true
	case p == PhasePaused && target == PhasePlaying:
		return true
	case (p == PhaseFinished || p == PhaseAborted) && target == PhaseWaitingForPlayers:
		return true
	default:
		return false
	}
}

// Settings holds the tunable rules of a session.
type Settings struct {
	// TimeLimit caps the whole game in seconds; 0 means unlimited.
	TimeLimit uint32 `json:"time_limit" yaml:"time_limit"`
	// TurnTimeLimit caps a single turn in seconds; 0 means unlimited.
	TurnTimeLimit   uint32 `json:"turn_time_limit" yaml:"turn_time_limit"`
	DebugMode       bool   `json:"debug_mode" yaml:"debug_mode"`
	AutoSave        bool   `json:"auto_save" yaml:"auto_save"`
	AllowSpectators bool   `json:"allow_spectators" yaml:"allow_spectators"`
}

// DefaultSettings returns the standard session rules.
func DefaultSettings() Settings {
	return Settings{
		TimeLimit:       0,
		TurnTimeLimit:   30,
		AutoSave:        true,
		AllowSpectators: true,
	}
}

// Session is the per-session component: one per running game room.
type Session struct {
	ID    string `json:"id"`
	Phase Phase  `json:"phase"`

	StartTime      int64  `json:"start_time"`
	MaxPlayers     uint32 `json:"max_players"`
	CurrentPlayers uint32 `json:"current_players"`

	Settings Settings `json:"settings"`
}

// NewSession returns a session waiting for players.
func NewSession(id string, maxPlayers uint32) Session {
	return Session{
		ID:         id,
		Phase:      PhaseWaitingForPlayers,
		StartTime:  time.Now().Unix(),
		MaxPlayers: maxPlayers,
		Settings:   DefaultSettings(),
	}
}

// CanStart reports whether enough players have joined to begin.
func (s *Session) CanStart() bool {
	return s.Phase == PhaseWaitingForPlayers &&
		s.CurrentPlayers >= 2 &&
		s.CurrentPlayers <= s.MaxPlayers
}

// ChangePhase moves the session to phase when the transition is legal and
// reports whether it happened.
func (s *Session) ChangePhase(phase Phase) bool {
	if !s.Phase.CanTransitionTo(phase) {
		return false
	}
	s.Phase = phase
	return true
}

// AddPlayer counts a joining player, refusing past capacity.
func (s *Session) AddPlayer() bool {
	if s.CurrentPlayers >= s.MaxPlayers {
		return false
	}
	s.CurrentPlayers++
	return true
}

// RemovePlayer counts a leaving player.
func (s *Session) RemovePlayer() bool {
	if s.CurrentPlayers == 0 {
		return false
	}
	s.CurrentPlayers--
	return true
}
