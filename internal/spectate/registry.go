package spectate

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakecast/internal/snake"
)

// Subject is the part of the engine the registry needs.
type Subject interface {
	Subscribe(obs snake.Observer) bool
	Unsubscribe(obs snake.Observer) bool
}

// Registry tracks live spectators across all transports.
// Thread-safe for concurrent access.
type Registry struct {
	subject Subject
	logger  *log.Logger

	mu       sync.RWMutex
	channels map[string]*Channel
}

// NewRegistry creates a registry that attaches spectators to subject.
func NewRegistry(subject Subject, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		subject:  subject,
		logger:   logger,
		channels: make(map[string]*Channel),
	}
}

// Attach registers the channel and subscribes it to the engine.
// Returns false if a spectator with the same ID is already attached.
func (r *Registry) Attach(ch *Channel) bool {
	r.mu.Lock()
	if _, exists := r.channels[ch.ID()]; exists {
		r.mu.Unlock()
		return false
	}
	r.channels[ch.ID()] = ch
	count := len(r.channels)
	r.mu.Unlock()

	r.subject.Subscribe(ch)
	r.logger.Info("spectator attached", "id", ch.ID(), "kind", ch.Kind(), "spectators", count)
	return true
}

// Detach unsubscribes the channel, unregisters it and closes it.
// Safe to call for channels that were never attached or already detached.
func (r *Registry) Detach(ch *Channel) {
	r.subject.Unsubscribe(ch)

	r.mu.Lock()
	_, existed := r.channels[ch.ID()]
	delete(r.channels, ch.ID())
	count := len(r.channels)
	r.mu.Unlock()

	ch.Close()
	if existed {
		r.logger.Info("spectator detached", "id", ch.ID(), "kind", ch.Kind(),
			"dropped", ch.Dropped(), "spectators", count)
	}
}

// Count returns the number of attached spectators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// CloseAll detaches every spectator. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	all := make([]*Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		all = append(all, ch)
	}
	r.mu.RUnlock()

	for _, ch := range all {
		r.Detach(ch)
	}
}
