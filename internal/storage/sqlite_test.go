package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/snake"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dbPath
}

func TestStoreOpenClose(t *testing.T) {
	store, dbPath := openTestStore(t)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestLatestStateEmpty(t *testing.T) {
	store, _ := openTestStore(t)

	state, err := store.LatestState()
	if err != nil {
		t.Fatalf("LatestState() failed: %v", err)
	}
	if state != nil {
		t.Errorf("Expected nil state on empty table, got %+v", state)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	store, _ := openTestStore(t)

	want := snake.GameState{
		Snake:     []core.Position{{X: 4, Y: 2}, {X: 3, Y: 2}},
		Fruit:     core.Position{X: 7, Y: 9},
		Score:     20,
		GameOver:  true,
		Direction: core.DirLeft,
		HighScore: 50,
	}
	if err := store.SaveState(want); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}

	got, err := store.LatestState()
	if err != nil {
		t.Fatalf("LatestState() failed: %v", err)
	}
	if got == nil {
		t.Fatal("LatestState() returned nil after save")
	}
	if !got.Equal(want) {
		t.Errorf("LatestState() = %+v, want %+v", *got, want)
	}
}

func TestLatestStateIsNewestRow(t *testing.T) {
	store, _ := openTestStore(t)

	for score := 0; score <= 30; score += 10 {
		s := snake.NewGameState(0)
		s.Score = score
		if err := store.SaveState(s); err != nil {
			t.Fatalf("SaveState() failed: %v", err)
		}
	}

	got, err := store.LatestState()
	if err != nil {
		t.Fatalf("LatestState() failed: %v", err)
	}
	if got.Score != 30 {
		t.Errorf("Expected newest score 30, got %d", got.Score)
	}

	n, err := store.StateCount()
	if err != nil {
		t.Fatalf("StateCount() failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 rows, got %d", n)
	}
}

func TestRecentStates(t *testing.T) {
	store, _ := openTestStore(t)

	for i := 0; i < 5; i++ {
		s := snake.NewGameState(0)
		s.Score = i * 10
		store.SaveState(s)
	}

	records, err := store.RecentStates(3)
	if err != nil {
		t.Fatalf("RecentStates() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	expected := []int{40, 30, 20}
	for i, rec := range records {
		if rec.State.Score != expected[i] {
			t.Errorf("Record %d: expected score %d, got %d", i, expected[i], rec.State.Score)
		}
		if i > 0 && rec.ID >= records[i-1].ID {
			t.Errorf("Records not newest first: %d after %d", rec.ID, records[i-1].ID)
		}
	}
}

func TestCorruptRowIsReported(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.db.Exec(
		`INSERT INTO game_state (snake, fruit, score, game_over, direction, high_score)
		 VALUES ('not json', '{}', 0, 0, 'RIGHT', 0)`,
	)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	if _, err := store.LatestState(); err == nil {
		t.Error("Expected error for corrupt snake column")
	}
}

func TestReopenResumesState(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "resume.db")

	first, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s := snake.NewGameState(70)
	s.Score = 30
	if err := first.SaveState(s); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}
	first.Close()

	second, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	got, err := second.LatestState()
	if err != nil {
		t.Fatalf("LatestState() failed: %v", err)
	}
	if got == nil || !got.Equal(s) {
		t.Errorf("Reopened state = %+v, want %+v", got, s)
	}
}

func TestEngineResumesFromStore(t *testing.T) {
	store, _ := openTestStore(t)

	e := snake.New(store, snake.Options{Seed: 1})
	e.Tick()
	e.Tick()
	want := e.State()

	resumed := snake.New(store, snake.Options{Seed: 1})
	if got := resumed.State(); !got.Equal(want) {
		t.Errorf("Resumed state = %+v, want %+v", got, want)
	}
}

func TestStoreSaveAndRetrieveScores(t *testing.T) {
	store, _ := openTestStore(t)

	testScores := []struct {
		gameID string
		score  int
	}{
		{"snake", 100},
		{"snake", 250},
		{"snake", 150},
		{"other", 500},
	}

	for _, ts := range testScores {
		id, err := store.SaveScore(ts.gameID, ts.score)
		if err != nil {
			t.Fatalf("SaveScore(%s, %d) failed: %v", ts.gameID, ts.score, err)
		}
		if id <= 0 {
			t.Errorf("SaveScore returned invalid ID: %d", id)
		}
	}

	scores, err := store.TopScores("snake", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 snake scores, got %d", len(scores))
	}

	expected := []int{250, 150, 100}
	for i, s := range scores {
		if s.Score != expected[i] {
			t.Errorf("Score %d: expected %d, got %d", i, expected[i], s.Score)
		}
		if s.GameID != "snake" {
			t.Errorf("Score %d: expected gameID 'snake', got %q", i, s.GameID)
		}
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store, _ := openTestStore(t)

	for i := 1; i <= 15; i++ {
		store.SaveScore("snake", i*10)
	}

	scores, err := store.TopScores("snake", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores with limit 5, got %d", len(scores))
	}
	if scores[0].Score != 150 {
		t.Errorf("Expected top score 150, got %d", scores[0].Score)
	}
}

func TestStoreHighScore(t *testing.T) {
	store, _ := openTestStore(t)

	high, err := store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("snake", 100)
	store.SaveScore("snake", 300)
	store.SaveScore("snake", 200)

	high, err = store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
