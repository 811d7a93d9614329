package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

func newTestScoreboard(t *testing.T) (ScoreboardModel, storage.MatchResult) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	saved, err := store.SaveMatch("stub", engine.Report{Winner: "Rommel", Loser: "Patton", Turns: 7}, nil)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	m := NewScoreboardModel(store, 100, 30)
	m.tabs = []scoreTab{{id: "stub", title: "Stub"}, {id: playersTab, title: playersTab}}
	m.tabCursor = 0
	m.load()
	return m, saved
}

func TestScoreboardShowsMatches(t *testing.T) {
	m, _ := newTestScoreboard(t)

	out := m.View()
	for _, want := range []string{"Rommel", "Patton", "Stub"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestScoreboardTabs(t *testing.T) {
	m, _ := newTestScoreboard(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.current().id != playersTab {
		t.Fatalf("tab = %q, expected %q", m.current().id, playersTab)
	}
	if len(m.players) != 2 {
		t.Errorf("players = %d, expected 2", len(m.players))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(ScoreboardModel).current().id != "stub" {
		t.Error("tab should wrap around")
	}
}

func TestScoreboardCopyMatchID(t *testing.T) {
	m, saved := newTestScoreboard(t)

	next, _ := m.Update(runeKey('c'))
	m = next.(ScoreboardModel)

	// Headless machines have no clipboard; the ID is shown either way.
	if !strings.Contains(m.status, saved.MatchID) {
		t.Errorf("status = %q, expected it to mention %s", m.status, saved.MatchID)
	}
}

func TestScoreboardBack(t *testing.T) {
	m, _ := newTestScoreboard(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back to the menu")
	}
	if cmd == nil {
		t.Error("esc should quit the history program")
	}
}
