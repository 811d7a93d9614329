package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is the global turn state.
type Phase int

const (
	PhaseSelecting Phase = iota // active tank may choose a destination
	PhaseMoving                 // a move is being executed step by step
	PhaseInBattle               // active tank and its opponent are fighting
	PhaseGameOver               // terminal
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseMoving:
		return "moving"
	case PhaseInBattle:
		return "in battle"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Options carries the injected collaborators of an Engine.
type Options struct {
	// Rand drives empty-sector shuffles and opponent choice.
	// Defaults to a time-seeded source.
	Rand *rand.Rand

	// Logger receives structured simulation logs. Defaults to a discarding logger.
	Logger *log.Logger
}

// Engine is one duel. It is not safe for concurrent use: every intent and
// every StepMove call must come from the same goroutine or queue.
type Engine struct {
	settings Settings
	grid     *Grid
	tanks    []*Tank
	rng      *rand.Rand
	log      *log.Logger

	active int
	phase  Phase
	turn   int
	view   *View
	legal  MoveSet
	move   *pendingMove

	winner *Tank
	loser  *Tank

	subscribers []func(Event)
}

// pendingMove is the remainder of an accepted move request.
type pendingMove struct {
	tank *Tank
	dest Sector
	path []PathStep
	next int
}

// New validates the settings, populates a fresh grid and starts the first turn.
func New(settings Settings, opts Options) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(settings, NewGrid(settings.Width, settings.Height), opts)
	if err := e.populate(); err != nil {
		return nil, err
	}
	e.startTurn()
	return e, nil
}

// NewFromGrid starts a duel on a grid the caller has already laid out.
// Every tank must be placed on the grid; turn order follows the slice.
// Width, Height and Players in settings are taken from the grid and tanks.
func NewFromGrid(settings Settings, g *Grid, tanks []*Tank, opts Options) (*Engine, error) {
	if len(tanks) < 2 {
		return nil, errors.New("engine: need at least two tanks")
	}
	if settings.MoveLimit < 1 {
		return nil, fmt.Errorf("engine: move limit must be at least 1, got %d", settings.MoveLimit)
	}
	settings.Width, settings.Height = g.Width(), g.Height()
	settings.Players = settings.Players[:0:0]
	for _, t := range tanks {
		pos, ok := t.Position()
		if !ok {
			return nil, fmt.Errorf("engine: tank %s is not placed", t.ID())
		}
		if occupant, _ := g.TankAt(pos); occupant != t {
			return nil, fmt.Errorf("engine: tank %s is not on the grid at %d", t.ID(), pos)
		}
		settings.Players = append(settings.Players, t.Name())
	}

	e := newEngine(settings, g, opts)
	e.tanks = append(e.tanks, tanks...)
	e.startTurn()
	return e, nil
}

func newEngine(settings Settings, g *Grid, opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		settings: settings,
		grid:     g,
		rng:      rng,
		log:      logger.With("component", "engine"),
		legal:    NewMoveSet(),
	}
}

// Subscribe registers fn to receive every event, synchronously and in order.
func (e *Engine) Subscribe(fn func(Event)) {
	e.subscribers = append(e.subscribers, fn)
}

func (e *Engine) emit(ev Event) {
	for _, fn := range e.subscribers {
		fn(ev)
	}
}

// Settings returns the settings the duel was created with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Grid returns the grid. Callers must treat it as read-only.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Tanks returns the tanks in turn order.
func (e *Engine) Tanks() []*Tank {
	out := make([]*Tank, len(e.tanks))
	copy(out, e.tanks)
	return out
}

// Tank returns the tank with the given id.
func (e *Engine) Tank(id string) (*Tank, bool) {
	for _, t := range e.tanks {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// Active returns the tank whose turn it is.
func (e *Engine) Active() *Tank {
	return e.tanks[e.active]
}

// ActiveIndex returns the index of the active tank in turn order.
func (e *Engine) ActiveIndex() int {
	return e.active
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Turn returns the 1-based turn counter.
func (e *Engine) Turn() int {
	return e.turn
}

// LegalMoves returns the destinations open to the active tank, ascending.
// Empty outside PhaseSelecting.
func (e *Engine) LegalMoves() []Sector {
	return e.legal.Sorted()
}

// IsLegal reports whether the active tank may move to s this turn.
func (e *Engine) IsLegal(s Sector) bool {
	return e.phase == PhaseSelecting && e.legal.Has(s)
}

// Winner returns the winning tank once the game is over.
func (e *Engine) Winner() *Tank {
	return e.winner
}

// Loser returns the destroyed tank once the game is over.
func (e *Engine) Loser() *Tank {
	return e.loser
}

// Destination returns the target of the move in progress.
func (e *Engine) Destination() (Sector, bool) {
	if e.move == nil {
		return 0, false
	}
	return e.move.dest, true
}

// Report summarizes a finished duel.
type Report struct {
	Winner string
	Loser  string
	Turns  int
}

// Report returns the outcome; ok is false while the duel is running.
func (e *Engine) Report() (r Report, ok bool) {
	if e.phase != PhaseGameOver || e.winner == nil || e.loser == nil {
		return Report{}, false
	}
	return Report{Winner: e.winner.Name(), Loser: e.loser.Name(), Turns: e.turn}, true
}

// actor validates that id names the active, living tank.
func (e *Engine) actor(id string) (*Tank, error) {
	if e.phase == PhaseGameOver {
		return nil, fmt.Errorf("%w: game is over", ErrIllegalAction)
	}
	t, ok := e.Tank(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tank %q", ErrIllegalAction, id)
	}
	if t != e.Active() {
		return nil, fmt.Errorf("%w: %s is not the active tank", ErrIllegalAction, id)
	}
	if t.Destroyed() {
		return nil, fmt.Errorf("%w: %s is destroyed", ErrIllegalAction, id)
	}
	return t, nil
}
