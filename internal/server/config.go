package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solsync/solsync/internal/core/solitaire"
)

// Config holds server configuration
type Config struct {
	// Network settings
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Message settings
	MaxMessageSize  int64 `yaml:"max_message_size"`
	ReadBufferSize  int   `yaml:"read_buffer_size"`
	WriteBufferSize int   `yaml:"write_buffer_size"`
	SendQueueSize   int   `yaml:"send_queue_size"`

	// Room settings
	MaxRooms          int    `yaml:"max_rooms"`
	MaxPlayersPerRoom uint32 `yaml:"max_players_per_room"`
	DefaultRoomName   string `yaml:"default_room_name"`

	// Game settings
	GameVariant string `yaml:"game_variant"`
	GameSeed    uint64 `yaml:"game_seed"`

	// Simulation settings
	TickRate int `yaml:"tick_rate"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:              "127.0.0.1",
		Port:              8101,
		MaxMessageSize:    64 * 1024,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		SendQueueSize:     64,
		MaxRooms:          100,
		MaxPlayersPerRoom: 4,
		DefaultRoomName:   "Main Room",
		GameVariant:       "klondike",
		GameSeed:          0,
		TickRate:          30,
		LogLevel:          "info",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	}
	if c.MaxPlayersPerRoom == 0 {
		return fmt.Errorf("%w: max players per room is zero", ErrInvalidConfig)
	}
	if _, ok := solitaire.ParseVariant(c.GameVariant); !ok {
		return fmt.Errorf("%w: game variant %q", ErrInvalidConfig, c.GameVariant)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TickInterval returns the duration between simulation ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
