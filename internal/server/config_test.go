package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	contents := `
host: 0.0.0.0
port: 9200
game_variant: spider
tick_rate: 60
max_players_per_room: 8
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9200", cfg.Addr())
	require.Equal(t, "spider", cfg.GameVariant)
	require.Equal(t, time.Second/60, cfg.TickInterval())
	require.Equal(t, uint32(8), cfg.MaxPlayersPerRoom)

	// Untouched fields keep their defaults.
	require.Equal(t, "Main Room", cfg.DefaultRoomName)
	require.Equal(t, int64(64*1024), cfg.MaxMessageSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("BadPort", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Port = -1
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("BadVariant", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GameVariant = "pyramid"
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("BadTickRate", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TickRate = 0
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}
