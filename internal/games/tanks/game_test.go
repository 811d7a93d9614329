package tanks

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

// isolate keeps user and local config files out of the search order.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	testChdir(t, t.TempDir())
}

func press(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func newGame(t *testing.T, seed int64) *Game {
	t.Helper()
	isolate(t)
	g := New("")
	g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 30, TickRate: 30})
	if err := g.SetupError(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return g
}

// withDuel swaps in a fixed two-tank board: Player One at (0,0) facing
// east, Player Two at (2,0) facing west, nothing else on a 10x10 grid.
func withDuel(t *testing.T, g *Game) {
	t.Helper()
	grid := engine.NewGrid(10, 10)
	a := engine.NewTank("player1", "Player One", 100, 10, engine.NewWeapon("player1DefaultWeapon", "default", 10))
	b := engine.NewTank("player2", "Player Two", 100, 10, engine.NewWeapon("player2DefaultWeapon", "default", 10))
	a.Facing, b.Facing = engine.East, engine.West
	_ = grid.Set(0, a)
	_ = grid.Set(2, b)
	e, err := engine.NewFromGrid(engine.DefaultSettings(), grid, []*engine.Tank{a, b}, engine.Options{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("NewFromGrid: %v", err)
	}
	g.engine = e
	g.journal = engine.NewJournal(e)
	g.feed = nil
	e.Subscribe(g.onEvent)
	g.snapCursor()
}

// tickUntil steps with no input until the phase leaves PhaseMoving.
func tickUntil(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if g.engine.Phase() != engine.PhaseMoving {
			return
		}
		g.Step(core.NewInputFrame())
	}
	t.Fatal("move never finished")
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"tanks", "tanks-arena"} {
		if !registry.Exists(id) {
			t.Errorf("%s not registered", id)
		}
	}
	g, err := registry.Create("tanks-arena")
	if err != nil {
		t.Fatalf("Create(tanks-arena): %v", err)
	}
	if g.Title() != "Tanks (Arena)" {
		t.Errorf("Title = %q", g.Title())
	}
	if _, ok := g.(registry.Renamer); !ok {
		t.Error("tanks should support renaming")
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(t, 12345)
	g2 := newGame(t, 12345)

	inputs := []core.InputFrame{
		press(core.ActionRight), press(core.ActionDown), press(core.ActionPass),
		press(core.ActionLeft), press(core.ActionConfirm),
	}
	for _, in := range inputs {
		g1.Step(in)
		g2.Step(in)
	}
	for i := 0; i < 50; i++ {
		g1.Step(core.NewInputFrame())
		g2.Step(core.NewInputFrame())
	}

	if !reflect.DeepEqual(g1.engine.Snapshot(), g2.engine.Snapshot()) {
		t.Error("same seed and inputs produced different boards")
	}
	if !reflect.DeepEqual(g1.Feed(), g2.Feed()) {
		t.Errorf("feeds differ:\n%v\n%v", g1.Feed(), g2.Feed())
	}
}

func TestResetStartsSelecting(t *testing.T) {
	g := newGame(t, 7)
	st := g.State()
	if st.Turn != 1 || st.Phase != engine.PhaseSelecting.String() || st.GameOver {
		t.Errorf("State = %+v", st)
	}
	pos, _ := g.engine.Active().Position()
	x, y := g.engine.Grid().XY(pos)
	if g.Cursor() != (core.Point{X: x, Y: y}) {
		t.Errorf("cursor = %v, expected on active tank at (%d,%d)", g.Cursor(), x, y)
	}
	if len(g.Feed()) == 0 || !strings.HasPrefix(g.Feed()[0], "Turn 1:") {
		t.Errorf("feed = %v", g.Feed())
	}
}

func TestCursorClampedToBoard(t *testing.T) {
	g := newGame(t, 3)
	for i := 0; i < 30; i++ {
		g.Step(press(core.ActionUp))
		g.Step(press(core.ActionLeft))
	}
	if g.Cursor() != (core.Point{}) {
		t.Errorf("cursor = %v, expected (0,0)", g.Cursor())
	}
	for i := 0; i < 30; i++ {
		g.Step(press(core.ActionDown))
		g.Step(press(core.ActionRight))
	}
	want := core.Point{X: g.engine.Grid().Width() - 1, Y: g.engine.Grid().Height() - 1}
	if g.Cursor() != want {
		t.Errorf("cursor = %v, expected %v", g.Cursor(), want)
	}
}

func TestPassHandsOverTurn(t *testing.T) {
	g := newGame(t, 9)
	first := g.engine.Active().ID()

	g.Step(press(core.ActionPass))

	if g.engine.Turn() != 2 || g.engine.Active().ID() == first {
		t.Errorf("turn %d active %s after pass", g.engine.Turn(), g.engine.Active().ID())
	}
	pos, _ := g.engine.Active().Position()
	x, y := g.engine.Grid().XY(pos)
	if g.Cursor() != (core.Point{X: x, Y: y}) {
		t.Error("cursor should snap to the new active tank")
	}
}

func TestConfirmAnimatesMove(t *testing.T) {
	g := newGame(t, 1)
	withDuel(t, g)
	a, _ := g.engine.Tank("player1")

	g.cursor = core.Point{X: 0, Y: 3}
	g.Step(press(core.ActionConfirm))
	if g.engine.Phase() != engine.PhaseMoving {
		t.Fatalf("phase = %s, expected moving", g.engine.Phase())
	}

	// The first step waits for stepEvery ticks.
	for i := 0; i < g.stepEvery-1; i++ {
		g.Step(core.NewInputFrame())
	}
	if pos, _ := a.Position(); pos != 0 {
		t.Fatalf("tank moved early to %d", pos)
	}

	tickUntil(t, g)
	if pos, _ := a.Position(); pos != 30 {
		t.Errorf("tank at %d, expected 30", pos)
	}
	if a.Facing != engine.South {
		t.Errorf("facing = %s, expected south", a.Facing)
	}
	if g.engine.Active().ID() != "player2" {
		t.Error("turn should pass after the move")
	}
}

func TestConfirmIllegalShowsMessage(t *testing.T) {
	g := newGame(t, 1)
	withDuel(t, g)

	g.cursor = core.Point{X: 1, Y: 1} // diagonal
	res := g.Step(press(core.ActionConfirm))

	if g.engine.Phase() != engine.PhaseSelecting || g.engine.Turn() != 1 {
		t.Error("illegal move should not change the phase or turn")
	}
	if res.Message != "Can't move there" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestBattleToGameOver(t *testing.T) {
	g := newGame(t, 1)
	withDuel(t, g)

	g.cursor = core.Point{X: 1, Y: 0}
	g.Step(press(core.ActionConfirm))
	tickUntil(t, g)
	if g.engine.Phase() != engine.PhaseInBattle {
		t.Fatalf("phase = %s, expected in battle", g.engine.Phase())
	}

	res := g.Step(press(core.ActionLeft))
	if res.Message != "In battle: attack or defend" {
		t.Errorf("message = %q", res.Message)
	}

	if _, _, ok := g.MatchReport(); ok {
		t.Error("MatchReport should not be ready during battle")
	}

	for i := 0; i < 100 && g.engine.Phase() != engine.PhaseGameOver; i++ {
		g.Step(press(core.ActionAttack))
	}
	if !g.State().GameOver {
		t.Fatal("duel never ended")
	}
	if g.State().Winner != "Player One" {
		t.Errorf("winner = %q, expected Player One", g.State().Winner)
	}

	report, records, ok := g.MatchReport()
	if !ok {
		t.Fatal("MatchReport not ready after game over")
	}
	if report.Winner != "Player One" || report.Loser != "Player Two" {
		t.Errorf("report = %+v", report)
	}
	if len(records) == 0 || records[len(records)-1].Kind != "gameover" {
		t.Errorf("journal should end with gameover, got %d records", len(records))
	}

	g.Step(press(core.ActionRestart))
	if g.State().GameOver || g.engine.Turn() != 1 {
		t.Errorf("restart did not start a new duel: %+v", g.State())
	}
}

func TestDefendKey(t *testing.T) {
	g := newGame(t, 1)
	withDuel(t, g)
	g.cursor = core.Point{X: 1, Y: 0}
	g.Step(press(core.ActionConfirm))
	tickUntil(t, g)

	g.Step(press(core.ActionDefend))
	a, _ := g.engine.Tank("player1")
	if !a.Defending {
		t.Error("defend key should raise the guard")
	}
	if g.engine.Active().ID() != "player2" {
		t.Error("defending ends the turn")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := newGame(t, 5)
	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionPass))
	if g.engine.Turn() != 1 {
		t.Error("input should be ignored while paused")
	}
	if !g.State().Paused {
		t.Error("state should report paused")
	}
	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionPass))
	if g.engine.Turn() != 2 {
		t.Error("pass should work after unpausing")
	}
}

func TestRenameActive(t *testing.T) {
	g := newGame(t, 2)
	if err := g.RenameActive("  Rommel "); err != nil {
		t.Fatalf("RenameActive: %v", err)
	}
	if g.ActiveName() != "Rommel" {
		t.Errorf("ActiveName = %q", g.ActiveName())
	}
	if err := g.RenameActive("   "); !errors.Is(err, engine.ErrIllegalAction) {
		t.Errorf("blank rename error = %v", err)
	}
	feed := g.Feed()
	if !strings.Contains(feed[len(feed)-1], "is now Rommel") {
		t.Errorf("feed tail = %q", feed[len(feed)-1])
	}
}

func TestPlayerNamesOverride(t *testing.T) {
	SetPlayerNames("Alice", "")
	t.Cleanup(func() { SetPlayerNames() })

	g := newGame(t, 4)
	names := map[string]bool{}
	for _, tk := range g.engine.Tanks() {
		names[tk.Name()] = true
	}
	if !names["Alice"] || !names["Player Two"] {
		t.Errorf("tank names = %v", names)
	}
}

func TestBadConfigReportsSetupError(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  width: 2\n  height: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := New("")
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 30})
	if g.SetupError() == nil {
		t.Fatal("expected a setup error for a 2x2 grid")
	}
	if !g.State().GameOver {
		t.Error("a failed setup reports game over")
	}
	g.Step(press(core.ActionConfirm))

	scr := core.NewScreen(80, 30)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Setup failed") {
		t.Error("render should show the setup failure")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, 11)
	scr := core.NewScreen(80, 30)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"Tanks", "Turn 1", "Player One", "Player Two", "HP 100"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if !strings.ContainsAny(out, "▲▶▼◀") {
		t.Error("render should draw tanks")
	}
	if !strings.Contains(out, "[") {
		t.Error("render should draw the cursor")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t, 11)
	scr := core.NewScreen(20, 8)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("expected too-small notice, got:\n%s", scr.String())
	}
}

func TestRenderOverlays(t *testing.T) {
	g := newGame(t, 11)
	g.Step(press(core.ActionPause))
	scr := core.NewScreen(80, 30)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Paused") {
		t.Error("pause overlay missing")
	}
}
