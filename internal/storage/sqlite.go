// Package storage provides SQLite-based persistence for game snapshots and scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/snake"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// StateRecord is one persisted snapshot row.
type StateRecord struct {
	ID        int64
	State     snake.GameState
	CreatedAt time.Time
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Compile-time checks for the engine-facing interfaces.
var (
	_ snake.Store         = (*Store)(nil)
	_ snake.ScoreRecorder = (*Store)(nil)
)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Pragmas are applied to every new connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Single connection: inserts stay in engine order.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS game_state (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			snake TEXT NOT NULL,
			fruit TEXT NOT NULL,
			score INTEGER NOT NULL,
			game_over INTEGER NOT NULL,
			direction TEXT NOT NULL,
			high_score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveState appends a snapshot. Rows are never updated or deleted.
func (s *Store) SaveState(state snake.GameState) error {
	body, err := json.Marshal(state.Snake)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snake: %w", err)
	}
	fruit, err := json.Marshal(state.Fruit)
	if err != nil {
		return fmt.Errorf("storage: cannot encode fruit: %w", err)
	}

	gameOver := 0
	if state.GameOver {
		gameOver = 1
	}

	_, err = s.db.Exec(
		`INSERT INTO game_state (snake, fruit, score, game_over, direction, high_score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(body), string(fruit), state.Score, gameOver, string(state.Direction), state.HighScore,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save state: %w", err)
	}
	return nil
}

// LatestState returns the most recently appended snapshot.
// Returns nil with no error if the table is empty.
func (s *Store) LatestState() (*snake.GameState, error) {
	row := s.db.QueryRow(
		`SELECT id, snake, fruit, score, game_over, direction, high_score, created_at
		 FROM game_state
		 ORDER BY id DESC
		 LIMIT 1`,
	)

	rec, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec.State, nil
}

// RecentStates returns up to limit snapshots, newest first.
func (s *Store) RecentStates(limit int) ([]StateRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, snake, fruit, score, game_over, direction, high_score, created_at
		 FROM game_state
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query states: %w", err)
	}
	defer rows.Close()

	var records []StateRecord
	for rows.Next() {
		rec, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// StateCount returns the number of stored snapshots.
func (s *Store) StateCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM game_state").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count states: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (StateRecord, error) {
	var (
		rec       StateRecord
		body      string
		fruit     string
		gameOver  int
		direction string
		createdAt any
	)

	err := row.Scan(&rec.ID, &body, &fruit, &rec.State.Score, &gameOver, &direction, &rec.State.HighScore, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("storage: cannot scan state: %w", err)
	}

	if err := json.Unmarshal([]byte(body), &rec.State.Snake); err != nil {
		return rec, fmt.Errorf("storage: corrupt snake in row %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(fruit), &rec.State.Fruit); err != nil {
		return rec, fmt.Errorf("storage: corrupt fruit in row %d: %w", rec.ID, err)
	}
	dir, err := core.ParseDirection(direction)
	if err != nil {
		return rec, fmt.Errorf("storage: corrupt direction in row %d: %w", rec.ID, err)
	}

	rec.State.Direction = dir
	rec.State.GameOver = gameOver != 0
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// parseTimestamp handles both time.Time and string datetimes from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
