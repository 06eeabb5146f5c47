package snake

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakecast/internal/core"
)

// Store persists state snapshots. SaveState appends a new record; LatestState
// returns the most recent one, or nil when the store is empty.
type Store interface {
	SaveState(state GameState) error
	LatestState() (*GameState, error)
}

// ScoreRecorder receives the final score of every finished game.
// This lets the engine feed a leaderboard without depending on the storage package.
type ScoreRecorder interface {
	SaveScore(gameID string, score int) (int64, error)
}

// Options configures a new engine.
type Options struct {
	// Seed for fruit placement. 0 means seed from the current time.
	Seed int64

	// Logger for persistence and observer failures. Defaults to log.Default().
	Logger *log.Logger
}

// Engine owns the live game state and the observer registry.
// All mutations and reads are serialized by one mutex.
type Engine struct {
	store  Store
	scores ScoreRecorder
	logger *log.Logger
	rng    *rand.Rand

	mu        sync.Mutex
	state     GameState
	ticks     uint64
	observers []Observer

	// Published states wait in queue until the current drainer delivers
	// them. qmu is only ever taken after mu, and is never held during Notify.
	qmu        sync.Mutex
	queue      []publication
	publishing bool
}

// publication is one state and the observers registered when it was produced.
type publication struct {
	state     GameState
	observers []Observer
}

// New creates an engine and restores the latest snapshot from store.
// A nil store runs the engine in memory only.
func New(store Store, opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		store:  store,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
	e.state = e.loadOrCreate()
	return e
}

// SetScoreRecorder sets the optional leaderboard sink.
func (e *Engine) SetScoreRecorder(r ScoreRecorder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scores = r
}

// loadOrCreate resumes a running game from the store, or starts a fresh one
// carrying the stored high score.
func (e *Engine) loadOrCreate() GameState {
	if e.store == nil {
		return NewGameState(0)
	}

	latest, err := e.store.LatestState()
	switch {
	case err != nil:
		e.logger.Warn("could not load latest snapshot, starting fresh", "error", err)
		return NewGameState(0)
	case latest == nil:
		return NewGameState(0)
	case !latest.Valid():
		e.logger.Warn("latest snapshot is corrupt, starting fresh")
		return NewGameState(0)
	case latest.GameOver:
		return NewGameState(latest.HighScore)
	}

	e.logger.Info("resumed game", "score", latest.Score, "length", len(latest.Snake))
	return latest.Clone()
}

// State returns a deep copy of the current state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// SetDirection changes the travel direction for the next tick. Reversing
// straight into the body and steering a finished game are ignored. Returns
// true if d is now the current direction.
func (e *Engine) SetDirection(d core.Direction) bool {
	e.mu.Lock()

	if !d.Valid() || e.state.GameOver || d == e.state.Direction.Opposite() {
		e.mu.Unlock()
		return false
	}
	if d == e.state.Direction {
		e.mu.Unlock()
		return true
	}

	e.state.Direction = d
	e.release(false)
	return true
}

// Tick advances the game by one cell. It is a no-op once the game is over.
func (e *Engine) Tick() {
	e.mu.Lock()

	if e.state.GameOver {
		e.mu.Unlock()
		return
	}

	e.ticks++
	e.step()
	e.release(true)
}

// step applies one simulation step. Must be called with e.mu held.
func (e *Engine) step() {
	s := &e.state
	head := s.Head().Step(s.Direction)

	if !Grid.Contains(head) || s.Occupies(head) {
		s.GameOver = true
		if s.Score > s.HighScore {
			s.HighScore = s.Score
		}
		e.recordScore(s.Score)
		return
	}

	s.Snake = slices.Insert(s.Snake, 0, head)

	if head == s.Fruit {
		s.Score += FruitReward
		s.Fruit = e.randomCell()
		return
	}

	s.Snake = s.Snake[:len(s.Snake)-1]
}

// randomCell picks any grid cell, including ones under the snake.
func (e *Engine) randomCell() core.Position {
	return core.Position{
		X: e.rng.Intn(Grid.Width),
		Y: e.rng.Intn(Grid.Height),
	}
}

// Reset starts a new game, keeping the high score.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state = NewGameState(e.state.HighScore)
	e.ticks = 0
	e.release(true)
}

// release persists (optionally) and queues the current state, releases
// e.mu, then delivers queued states. States enter the queue under e.mu, so
// observers see them in the order they were produced.
func (e *Engine) release(persist bool) {
	if persist {
		e.persist()
	}

	e.qmu.Lock()
	e.queue = append(e.queue, publication{
		state:     e.state.Clone(),
		observers: slices.Clone(e.observers),
	})
	e.qmu.Unlock()
	e.mu.Unlock()

	e.drain()
}

// persist must be called with e.mu held. Failures are logged and the game
// keeps running in memory.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.SaveState(e.state); err != nil {
		e.logger.Error("could not persist snapshot", "error", err)
	}
}

// recordScore must be called with e.mu held.
func (e *Engine) recordScore(score int) {
	if e.scores == nil || score <= 0 {
		return
	}
	if _, err := e.scores.SaveScore(GameID, score); err != nil {
		e.logger.Warn("could not record score", "score", score, "error", err)
	}
}
