package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseTransitions(t *testing.T) {
	t.Run("LegalPath", func(t *testing.T) {
		require.True(t, PhaseWaitingForPlayers.CanTransitionTo(PhaseStarting))
		require.True(t, PhaseStarting.CanTransitionTo(PhasePlaying))
		require.True(t, PhasePlaying.CanTransitionTo(PhasePaused))
		require.True(t, PhasePaused.CanTransitionTo(PhasePlaying))
		require.True(t, PhasePlaying.CanTransitionTo(PhaseFinished))
		require.True(t, PhaseFinished.CanTransitionTo(PhaseWaitingForPlayers))
	})

	t.Run("AbortFromAnywhere", func(t *testing.T) {
		for _, p := range []Phase{PhaseWaitingForPlayers, PhaseStarting, PhasePlaying, PhasePaused, PhaseFinished} {
			require.True(t, p.CanTransitionTo(PhaseAborted))
		}
	})

	t.Run("IllegalJumps", func(t *testing.T) {
		require.False(t, PhaseWaitingForPlayers.CanTransitionTo(PhasePlaying))
		require.False(t, PhasePlaying.CanTransitionTo(PhaseStarting))
		require.False(t, PhaseFinished.CanTransitionTo(PhasePlaying))
		require.False(t, PhasePaused.CanTransitionTo(PhaseFinished))
	})
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("session-1", 4)
	require.Equal(t, PhaseWaitingForPlayers, s.Phase)
	require.False(t, s.CanStart())

	require.True(t, s.AddPlayer())
	require.False(t, s.CanStart(), "one player is not enough")
	require.True(t, s.AddPlayer())
	require.True(t, s.CanStart())

	t.Run("CapacityEnforced", func(t *testing.T) {
		require.True(t, s.AddPlayer())
		require.True(t, s.AddPlayer())
		require.False(t, s.AddPlayer())
		require.Equal(t, uint32(4), s.CurrentPlayers)
	})

	t.Run("ChangePhaseValidates", func(t *testing.T) {
		require.False(t, s.ChangePhase(PhasePlaying))
		require.True(t, s.ChangePhase(PhaseStarting))
		require.True(t, s.ChangePhase(PhasePlaying))
		require.Equal(t, PhasePlaying, s.Phase)
	})

	t.Run("RemovePlayerFloorsAtZero", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			require.True(t, s.RemovePlayer())
		}
		require.False(t, s.RemovePlayer())
	})
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.Zero(t, s.TimeLimit)
	require.Equal(t, uint32(30), s.TurnTimeLimit)
	require.True(t, s.AutoSave)
	require.True(t, s.AllowSpectators)
	require.False(t, s.DebugMode)
}
