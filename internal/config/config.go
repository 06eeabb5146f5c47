// Package config provides YAML-based server configuration loading.
package config

import (
	"time"

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/driver"
)

// Polling delay bounds for the /api/state endpoint, shared by the server's
// runtime setter.
const (
	MinPollingDelay = 0
	MaxPollingDelay = 2 * time.Second
)

// Config contains all configuration for the snakecast server.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	SSH     SSHConfig     `yaml:"ssh"`
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	Polling PollingConfig `yaml:"polling"`
}

// HTTPConfig defines the HTTP/WebSocket listener.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// SSHConfig defines the optional SSH spectator server.
type SSHConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`    // Empty means ~/.snakecast/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"` // 0 disables the timeout
}

// StorageConfig defines where snapshots and scores are kept.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// GameConfig defines engine and driver parameters.
type GameConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Seed         int64         `yaml:"seed"`       // 0 = time based
	AutoStart    bool          `yaml:"auto_start"` // Start ticking without a player
}

// PollingConfig defines how polling spectators are served.
type PollingConfig struct {
	Delay       time.Duration `yaml:"delay"`
	PushUpdates bool          `yaml:"push_updates"`
}

// Validate fills empty fields from the defaults and clamps durations into
// their allowed ranges.
func (c *Config) Validate() {
	def := Default()

	if c.HTTP.Address == "" {
		c.HTTP.Address = def.HTTP.Address
	}
	if c.SSH.Address == "" {
		c.SSH.Address = def.SSH.Address
	}
	if c.SSH.IdleTimeout < 0 {
		c.SSH.IdleTimeout = 0
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Game.TickInterval == 0 {
		c.Game.TickInterval = def.Game.TickInterval
	}

	c.Game.TickInterval = core.ClampDuration(c.Game.TickInterval, driver.MinInterval, driver.MaxInterval)
	c.Polling.Delay = core.ClampDuration(c.Polling.Delay, MinPollingDelay, MaxPollingDelay)
}
