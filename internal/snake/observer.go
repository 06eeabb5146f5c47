package snake

import "slices"

// Observer receives a copy of the game state after every change.
// Notify runs on a goroutine that mutated the engine, with no engine lock
// held, and must not block; transports should queue the state and return.
// States reach each observer in the order they were produced.
type Observer interface {
	// ID identifies the observer. Subscribing twice with the same ID is a no-op.
	ID() string

	// Notify delivers a state copy. A returned error is logged and otherwise ignored.
	Notify(state GameState) error
}

type observerFunc struct {
	id string
	fn func(GameState) error
}

func (o observerFunc) ID() string                   { return o.id }
func (o observerFunc) Notify(state GameState) error { return o.fn(state) }

// ObserverFunc adapts a plain function to the Observer interface.
func ObserverFunc(id string, fn func(GameState) error) Observer {
	return observerFunc{id: id, fn: fn}
}

// Subscribe registers an observer. Returns false if an observer with the
// same ID is already registered.
func (e *Engine) Subscribe(obs Observer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(obs.ID()) >= 0 {
		return false
	}
	e.observers = append(e.observers, obs)
	return true
}

// Unsubscribe removes the observer with the same ID. Returns false if it was
// not registered.
func (e *Engine) Unsubscribe(obs Observer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(obs.ID())
	if i < 0 {
		return false
	}
	e.observers = slices.Delete(e.observers, i, i+1)
	return true
}

// ObserverCount returns the number of registered observers.
func (e *Engine) ObserverCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.observers)
}

// indexOf must be called with e.mu held.
func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.observers, func(o Observer) bool {
		return o.ID() == id
	})
}

// drain delivers queued publications until the queue is empty. Only one
// goroutine drains at a time; others return at once and their states are
// delivered by the active drainer, in order. No engine lock is held while
// observers run, so Notify may call back into the engine.
func (e *Engine) drain() {
	e.qmu.Lock()
	if e.publishing {
		e.qmu.Unlock()
		return
	}
	e.publishing = true

	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue[0] = publication{}
		e.queue = e.queue[1:]
		e.qmu.Unlock()

		e.publish(next.observers, next.state)

		e.qmu.Lock()
	}
	e.publishing = false
	e.qmu.Unlock()
}

// publish delivers state to each observer in subscription order. A failing
// or panicking observer is logged and skipped.
func (e *Engine) publish(observers []Observer, state GameState) {
	for _, obs := range observers {
		e.notify(obs, state.Clone())
	}
}

func (e *Engine) notify(obs Observer, state GameState) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("observer panicked", "observer", obs.ID(), "panic", r)
		}
	}()

	if err := obs.Notify(state); err != nil {
		e.logger.Warn("error notifying observer", "observer", obs.ID(), "error", err)
	}
}
