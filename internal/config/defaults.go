package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snakecast.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address: ":8000",
		},
		SSH: SSHConfig{
			Enabled:     false,
			Address:     ":2222",
			IdleTimeout: 10 * time.Minute,
		},
		Storage: StorageConfig{
			Path: "~/.snakecast/game.db",
		},
		Game: GameConfig{
			TickInterval: 500 * time.Millisecond,
		},
		Polling: PollingConfig{
			Delay:       100 * time.Millisecond,
			PushUpdates: true,
		},
	}
}
