package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.tanks/tanks.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".tanks", "tanks.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestSaveMatchAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	journal := []engine.Record{
		{Turn: 1, Kind: "move", Actor: "player1", From: 0, To: 3},
		{Turn: 1, Kind: "battle", Actor: "player1", Target: "player2"},
		{Turn: 1, Kind: "damage", Actor: "player1", Target: "player2", Value: 12.5, Health: 0},
		{Turn: 1, Kind: "gameover", Actor: "player1", Target: "player2", Value: 1},
	}
	saved, err := store.SaveMatch("tanks", engine.Report{Winner: "Alice", Loser: "Bob", Turns: 7}, journal)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if saved.ID == 0 || saved.MatchID == "" || saved.Events != 4 {
		t.Errorf("SaveMatch() = %+v", saved)
	}

	got, err := store.MatchByID(saved.MatchID)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nil")
	}
	if got.Winner != "Alice" || got.Loser != "Bob" || got.Turns != 7 || got.GameID != "tanks" {
		t.Errorf("MatchByID() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	decoded, err := store.Journal(saved.MatchID)
	if err != nil {
		t.Fatalf("Journal() failed: %v", err)
	}
	if len(decoded) != len(journal) {
		t.Fatalf("Journal() returned %d records, expected %d", len(decoded), len(journal))
	}
	for i := range journal {
		if decoded[i] != journal[i] {
			t.Errorf("record %d = %+v, expected %+v", i, decoded[i], journal[i])
		}
	}
}

func TestSaveMatchGeneratesDistinctIDs(t *testing.T) {
	store := openTestStore(t)
	report := engine.Report{Winner: "A", Loser: "B", Turns: 3}

	a, err := store.SaveMatch("tanks", report, nil)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	b, err := store.SaveMatch("tanks", report, nil)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if a.MatchID == b.MatchID {
		t.Error("match IDs should be unique")
	}

	records, err := store.Journal(a.MatchID)
	if err != nil {
		t.Fatalf("Journal() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("empty journal decoded to %v", records)
	}
}

func TestSaveMatchRejectsIncompleteReport(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveMatch("tanks", engine.Report{Winner: "A"}, nil); !errors.Is(err, ErrIncompleteReport) {
		t.Errorf("SaveMatch() error = %v, expected ErrIncompleteReport", err)
	}
}

func TestMatchByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.MatchByID("does-not-exist")
	if err != nil || got != nil {
		t.Errorf("MatchByID() = %v, %v; expected nil, nil", got, err)
	}
	records, err := store.Journal("does-not-exist")
	if err != nil || records != nil {
		t.Errorf("Journal() = %v, %v; expected nil, nil", records, err)
	}
}

func TestRecentMatches(t *testing.T) {
	store := openTestStore(t)

	for i, r := range []struct {
		game   string
		winner string
	}{
		{"tanks", "A"},
		{"tanks-arena", "B"},
		{"tanks", "C"},
	} {
		if _, err := store.SaveMatch(r.game, engine.Report{Winner: r.winner, Loser: "X", Turns: i + 1}, nil); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	all, err := store.RecentMatches("", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("RecentMatches(all) returned %d, expected 3", len(all))
	}
	if all[0].Winner != "C" {
		t.Errorf("newest match first: got winner %s", all[0].Winner)
	}

	classic, err := store.RecentMatches("tanks", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(classic) != 2 {
		t.Errorf("RecentMatches(tanks) returned %d, expected 2", len(classic))
	}

	limited, err := store.RecentMatches("", 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("RecentMatches(limit 1) = %d, %v", len(limited), err)
	}

	if err := store.ClearMatches("tanks"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	remaining, _ := store.RecentMatches("", 10)
	if len(remaining) != 1 || remaining[0].GameID != "tanks-arena" {
		t.Errorf("after ClearMatches: %+v", remaining)
	}
}

func TestPlayerRecordsAndStats(t *testing.T) {
	store := openTestStore(t)

	duels := []engine.Report{
		{Winner: "Alice", Loser: "Bob", Turns: 10},
		{Winner: "Alice", Loser: "Carol", Turns: 20},
		{Winner: "Bob", Loser: "Alice", Turns: 6},
	}
	for _, d := range duels {
		if _, err := store.SaveMatch("tanks", d, nil); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	records, err := store.PlayerRecords(10)
	if err != nil {
		t.Fatalf("PlayerRecords() failed: %v", err)
	}
	want := []PlayerRecord{
		{Name: "Alice", Wins: 2, Losses: 1},
		{Name: "Bob", Wins: 1, Losses: 1},
		{Name: "Carol", Wins: 0, Losses: 1},
	}
	if len(records) != len(want) {
		t.Fatalf("PlayerRecords() = %+v", records)
	}
	for i, w := range want {
		r := records[i]
		if r.Name != w.Name || r.Wins != w.Wins || r.Losses != w.Losses {
			t.Errorf("record %d = %+v, expected %+v", i, r, w)
		}
	}
	if records[0].Played() != 3 {
		t.Errorf("Played() = %d, expected 3", records[0].Played())
	}

	stats, err := store.GetGameStats("tanks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.MatchCount != 3 || stats.LongestDuel != 20 || stats.AvgTurns != 12 {
		t.Errorf("GetGameStats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	empty, err := store.GetGameStats("unplayed")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.MatchCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetGameStats(unplayed) = %+v", empty)
	}
}
