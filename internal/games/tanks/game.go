// Package tanks adapts the duel engine to the platform's tick-based game
// loop: a sector cursor, hot-seat intents, step-by-step move animation and
// an event feed.
package tanks

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

const (
	stepDelayMs = 150 // pause between two animated grid steps
	feedSize    = 50  // event feed lines kept in memory
)

// Package-level options set by the CLI before games are created.
var (
	configPath  string
	playerNames []string
	logger      = log.New(io.Discard)
)

// SetConfigPath sets a custom YAML config file used by every preset.
func SetConfigPath(path string) {
	configPath = path
}

// SetPlayerNames overrides player display names in turn order.
// Empty entries keep the configured name.
func SetPlayerNames(names ...string) {
	playerNames = append([]string(nil), names...)
}

// SetLogger sets the logger handed to every new engine.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	for _, preset := range config.Presets() {
		registry.Register(GameID(preset), func() registry.Game {
			return New(preset)
		})
	}
}

// GameID maps a preset to its registry ID.
func GameID(preset string) string {
	if preset == "" || preset == config.PresetClassic {
		return "tanks"
	}
	return "tanks-" + preset
}

// Game is one hot-seat duel on a terminal screen.
type Game struct {
	preset string
	cfg    config.TanksConfig
	rng    *rand.Rand

	engine  *engine.Engine
	journal *engine.Journal

	cursor     core.Point
	cursorTurn int // turn the cursor was last snapped for

	tickRate   int
	stepEvery  int
	stepTicker int

	feed     []string
	message  string
	paused   bool
	setupErr error

	screenW int
	screenH int
}

// New creates a duel for the named preset.
func New(preset string) *Game {
	if preset == "" {
		preset = config.PresetClassic
	}
	return &Game{preset: preset}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID(g.preset)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.preset == config.PresetClassic {
		return "Tanks"
	}
	return "Tanks (" + strings.ToUpper(g.preset[:1]) + g.preset[1:] + ")"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	switch g.preset {
	case config.PresetClassic:
		return "Hot-seat tank duel on a 10x10 grid"
	case config.PresetArena:
		return "Wider arena, longer moves, more pickups"
	default:
		return "Hot-seat tank duel"
	}
}

// Reset loads the configuration and starts a fresh duel.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.feed = nil
	g.message = ""
	g.paused = false
	g.setupErr = nil
	g.engine = nil
	g.journal = nil
	g.stepTicker = 0
	g.cursorTurn = 0

	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.stepEvery = max(1, g.tickRate*stepDelayMs/1000)

	tc, err := config.Load(configPath, g.preset)
	if err != nil {
		g.setupErr = err
		return
	}
	for i, name := range playerNames {
		tc.SetPlayerName(i, name)
	}
	g.cfg = tc

	e, err := engine.New(tc.Settings(), engine.Options{
		Rand:   rand.New(rand.NewSource(g.rng.Int63())),
		Logger: logger.With("game", g.ID()),
	})
	if err != nil {
		g.setupErr = err
		return
	}
	g.engine = e
	g.journal = engine.NewJournal(e)
	e.Subscribe(g.onEvent)

	g.pushFeed(fmt.Sprintf("Turn 1: %s", e.Active().Name()))
	g.snapCursor()
}

// Engine returns the running duel, or nil if setup failed.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// SetupError returns the reason the last Reset could not start a duel.
func (g *Game) SetupError() error {
	return g.setupErr
}

// Cursor returns the selected board position.
func (g *Game) Cursor() core.Point {
	return g.cursor
}

// Feed returns the event feed, oldest first.
func (g *Game) Feed() []string {
	return append([]string(nil), g.feed...)
}

// Step advances the game by one UI tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State(), Message: g.message}
	}

	if input.Has(core.ActionRestart) && g.engine.Phase() == engine.PhaseGameOver {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	switch g.engine.Phase() {
	case engine.PhaseMoving:
		g.animate()
	case engine.PhaseSelecting:
		g.moveCursor(input)
		g.selectingInput(input)
	case engine.PhaseInBattle:
		g.battleInput(input)
	}

	if g.engine.Turn() != g.cursorTurn && g.engine.Phase() != engine.PhaseMoving {
		g.snapCursor()
	}
	return core.StepResult{State: g.State(), Message: g.message}
}

// animate executes one grid step every stepEvery ticks.
func (g *Game) animate() {
	g.stepTicker++
	if g.stepTicker < g.stepEvery {
		return
	}
	g.stepTicker = 0
	step, err := g.engine.StepMove()
	if err != nil {
		g.reject(err)
		return
	}
	g.cursor = g.point(step.To)
}

func (g *Game) moveCursor(input core.InputFrame) {
	next := g.cursor
	switch {
	case input.Has(core.ActionUp):
		next = next.Add(0, -1)
	case input.Has(core.ActionDown):
		next = next.Add(0, 1)
	case input.Has(core.ActionLeft):
		next = next.Add(-1, 0)
	case input.Has(core.ActionRight):
		next = next.Add(1, 0)
	}
	board := core.NewRect(0, 0, g.engine.Grid().Width(), g.engine.Grid().Height())
	g.cursor = board.ClampPoint(next)
}

func (g *Game) selectingInput(input core.InputFrame) {
	active := g.engine.Active().ID()
	switch {
	case input.Has(core.ActionConfirm):
		dest, err := g.engine.Grid().SectorAt(g.cursor.X, g.cursor.Y)
		if err != nil {
			g.reject(err)
			return
		}
		if err := g.engine.RequestMove(active, dest); err != nil {
			g.reject(err)
			if errors.Is(err, engine.ErrIllegalAction) {
				g.message = "Can't move there"
			}
			return
		}
		g.message = ""
		g.stepTicker = 0
	case input.Has(core.ActionPass):
		if err := g.engine.RequestPass(active); err != nil {
			g.reject(err)
			return
		}
		g.message = ""
	}
}

func (g *Game) battleInput(input core.InputFrame) {
	active := g.engine.Active().ID()
	var err error
	switch {
	case input.Has(core.ActionAttack), input.Has(core.ActionConfirm):
		err = g.engine.RequestAttack(active)
	case input.Has(core.ActionDefend):
		err = g.engine.RequestDefend(active)
	case input.Has(core.ActionUp), input.Has(core.ActionDown), input.Has(core.ActionLeft), input.Has(core.ActionRight), input.Has(core.ActionPass):
		g.message = "In battle: attack or defend"
		return
	default:
		return
	}
	if err != nil {
		g.reject(err)
		return
	}
	g.message = ""
}

// reject turns an engine error into a status line.
func (g *Game) reject(err error) {
	msg := err.Error()
	for _, prefix := range []string{engine.ErrIllegalAction.Error() + ": ", "engine: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	g.message = msg
	logger.Debug("intent rejected", "game", g.ID(), "err", err)
}

// snapCursor places the cursor on the active tank.
func (g *Game) snapCursor() {
	if pos, ok := g.engine.Active().Position(); ok {
		g.cursor = g.point(pos)
	}
	g.cursorTurn = g.engine.Turn()
}

func (g *Game) point(s engine.Sector) core.Point {
	x, y := g.engine.Grid().XY(s)
	return core.Point{X: x, Y: y}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{Paused: g.paused}
	if g.engine == nil {
		st.GameOver = true
		return st
	}
	st.Turn = g.engine.Turn()
	st.Active = g.engine.Active().Name()
	st.Phase = g.engine.Phase().String()
	st.GameOver = g.engine.Phase() == engine.PhaseGameOver
	if w := g.engine.Winner(); w != nil {
		st.Winner = w.Name()
	}
	return st
}

// ActiveName returns the display name of the tank whose turn it is.
func (g *Game) ActiveName() string {
	if g.engine == nil {
		return ""
	}
	return g.engine.Active().Name()
}

// RenameActive renames the tank whose turn it is.
func (g *Game) RenameActive(name string) error {
	if g.engine == nil {
		return g.setupErr
	}
	return g.engine.RequestRename(g.engine.Active().ID(), name)
}

// MatchReport returns the outcome and event journal of a finished duel.
func (g *Game) MatchReport() (engine.Report, []engine.Record, bool) {
	if g.engine == nil {
		return engine.Report{}, nil, false
	}
	r, ok := g.engine.Report()
	if !ok {
		return engine.Report{}, nil, false
	}
	return r, g.journal.Records(), true
}

func (g *Game) pushFeed(line string) {
	g.feed = append(g.feed, line)
	if len(g.feed) > feedSize {
		g.feed = g.feed[len(g.feed)-feedSize:]
	}
}

// onEvent turns engine events into feed lines.
func (g *Game) onEvent(ev engine.Event) {
	name := func(id string) string {
		if t, ok := g.engine.Tank(id); ok {
			return t.Name()
		}
		return id
	}

	switch ev := ev.(type) {
	case engine.TurnStarted:
		g.pushFeed(fmt.Sprintf("Turn %d: %s", ev.Turn, name(ev.Tank)))
	case engine.TurnPassed:
		g.pushFeed(fmt.Sprintf("%s holds position", name(ev.Tank)))
	case engine.MoveStarted:
		dir := ""
		if len(ev.Path) > 0 {
			dir = ev.Path[0].Direction.String()
		}
		g.pushFeed(fmt.Sprintf("%s moves %d %s", name(ev.Tank), len(ev.Path), dir))
	case engine.WeaponSwapped:
		weapon := ""
		if t, ok := g.engine.Tank(ev.Tank); ok {
			weapon = t.Weapon.Name()
		}
		g.pushFeed(fmt.Sprintf("%s picks up %s (%g)", name(ev.Tank), weapon, ev.PickedDamage))
	case engine.ShieldCollected:
		g.pushFeed(fmt.Sprintf("%s gains shield +%g (%g)", name(ev.Tank), ev.Value, ev.TankShield))
	case engine.BattleStarted:
		g.pushFeed(fmt.Sprintf("Battle! %s vs %s", name(ev.Attacker), name(ev.Defender)))
	case engine.Defended:
		g.pushFeed(fmt.Sprintf("%s braces for impact", name(ev.Tank)))
	case engine.DamageApplied:
		blocked := ""
		if ev.Blocked {
			blocked = " (blocked)"
		}
		g.pushFeed(fmt.Sprintf("%s hits %s for %g%s, HP %g SH %g",
			name(ev.Attacker), name(ev.Defender), ev.Damage, blocked, ev.Health, ev.Shield))
	case engine.TankDestroyed:
		g.pushFeed(fmt.Sprintf("%s is destroyed", name(ev.Tank)))
	case engine.GameOver:
		g.pushFeed(fmt.Sprintf("%s wins after %d turns", name(ev.Winner), ev.Turns))
	case engine.Renamed:
		g.pushFeed(fmt.Sprintf("%s is now %s", ev.OldName, ev.NewName))
	}
}
