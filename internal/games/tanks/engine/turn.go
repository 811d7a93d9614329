package engine

import (
	"context"
	"fmt"
	"strings"
)

// Step describes one completed grid step of a move.
type Step struct {
	Tank      string
	From      Sector
	To        Sector
	Direction Direction
	Turned    bool // the tank rotated to face Direction before stepping
	Battle    bool // the step ended next to an enemy and started a battle
	Done      bool // no further steps remain in this move
}

// startTurn activates the first living tank without advancing the counter.
func (e *Engine) startTurn() {
	e.turn = 1
	e.active = 0
	for i, t := range e.tanks {
		if !t.Destroyed() {
			e.active = i
			break
		}
	}
	e.beginTurn()
}

// nextTurn hands control to the next living tank in turn order.
func (e *Engine) nextTurn() {
	n := len(e.tanks)
	for i := 1; i <= n; i++ {
		idx := (e.active + i) % n
		if !e.tanks[idx].Destroyed() {
			e.active = idx
			break
		}
	}
	e.turn++
	e.beginTurn()
}

// beginTurn rebinds the view to the active tank and decides its phase.
func (e *Engine) beginTurn() {
	t := e.Active()
	pos, _ := t.Position()
	if e.view == nil {
		e.view = NewView(e.grid, pos)
	} else {
		e.view.Rebind(pos)
	}

	if t.InBattle {
		e.phase = PhaseInBattle
		e.legal = NewMoveSet()
	} else {
		e.phase = PhaseSelecting
		e.legal = e.view.LegalMoves(e.settings.MoveLimit)
	}

	e.log.Debug("turn started", "turn", e.turn, "tank", t.ID(), "phase", e.phase, "legal", e.legal.Len())
	e.emit(TurnStarted{
		Turn:       e.turn,
		Tank:       t.ID(),
		InBattle:   t.InBattle,
		LegalMoves: e.legal.Sorted(),
	})
}

// RequestMove starts moving the active tank towards dest.
// A request for the tank's own sector passes the turn. Any destination
// outside the current legal set is rejected with ErrIllegalAction and
// leaves the engine untouched. On success the engine enters PhaseMoving;
// the caller drives the move with StepMove or RunMove.
func (e *Engine) RequestMove(id string, dest Sector) error {
	t, err := e.actor(id)
	if err != nil {
		return err
	}
	if e.phase != PhaseSelecting {
		return fmt.Errorf("%w: cannot move while %s", ErrIllegalAction, e.phase)
	}

	from, _ := t.Position()
	if dest == from {
		return e.pass(t)
	}
	if !e.legal.Has(dest) {
		return fmt.Errorf("%w: sector %d is not a legal move for %s", ErrIllegalAction, dest, id)
	}

	path, err := e.view.DirectionsTo(dest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalAction, err)
	}

	e.move = &pendingMove{tank: t, dest: dest, path: path}
	e.phase = PhaseMoving
	e.legal = NewMoveSet()

	e.log.Debug("move started", "tank", id, "from", from, "to", dest, "steps", len(path))
	e.emit(MoveStarted{Tank: id, From: from, To: dest, Path: append([]PathStep(nil), path...)})
	return nil
}

// RequestPass ends the active tank's turn without moving.
func (e *Engine) RequestPass(id string) error {
	t, err := e.actor(id)
	if err != nil {
		return err
	}
	if e.phase != PhaseSelecting {
		return fmt.Errorf("%w: cannot pass while %s", ErrIllegalAction, e.phase)
	}
	return e.pass(t)
}

func (e *Engine) pass(t *Tank) error {
	e.emit(TurnPassed{Tank: t.ID()})
	e.nextTurn()
	return nil
}

// StepMove executes exactly one step of the move in progress. After the
// step the tank picks up whatever lies in the new sector and, if an enemy
// is adjacent, a battle starts and the rest of the path is dropped. When
// the last step completes without a battle the turn passes.
func (e *Engine) StepMove() (Step, error) {
	if e.phase != PhaseMoving || e.move == nil {
		return Step{}, ErrNoMoveInProgress
	}
	m := e.move
	t := m.tank
	ps := m.path[m.next]
	m.next++

	from, _ := t.Position()
	turned := t.Facing != ps.Direction
	t.Facing = ps.Direction
	if err := e.grid.Move(t, ps.To); err != nil {
		// Only reachable if the grid was mutated behind the engine's back.
		return Step{}, err
	}
	e.view.Rebind(ps.To)

	step := Step{Tank: t.ID(), From: from, To: ps.To, Direction: ps.Direction, Turned: turned}
	e.emit(EntityMoved{Entity: t.ID(), From: from, To: ps.To, Direction: ps.Direction, Turned: turned})

	e.pickup(t, ps.To)

	if opp, dir, ok := e.adjacentEnemy(t); ok {
		e.move = nil
		e.startBattle(t, opp, dir)
		step.Battle, step.Done = true, true
		return step, nil
	}

	if m.next >= len(m.path) {
		e.move = nil
		step.Done = true
		e.nextTurn()
	}
	return step, nil
}

// RunMove requests a move and drives it to completion, calling onStep
// after every step so the caller can animate it. ctx is checked between
// steps only; a step that has begun always completes. If ctx ends first
// the move stays pending and can be resumed with StepMove.
func (e *Engine) RunMove(ctx context.Context, id string, dest Sector, onStep func(Step) error) error {
	if err := e.RequestMove(id, dest); err != nil {
		return err
	}
	for e.phase == PhaseMoving {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, err := e.StepMove()
		if err != nil {
			return err
		}
		if onStep != nil {
			if err := onStep(step); err != nil {
				return err
			}
		}
	}
	return nil
}

// RequestRename changes the display name of the active tank.
// Surrounding whitespace is trimmed; an empty name is rejected.
func (e *Engine) RequestRename(id, name string) error {
	t, err := e.actor(id)
	if err != nil {
		return err
	}
	if e.phase == PhaseMoving {
		return fmt.Errorf("%w: cannot rename while moving", ErrIllegalAction)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrIllegalAction)
	}
	old := t.Name()
	if old == name {
		return nil
	}
	t.name = name
	e.emit(Renamed{Tank: id, OldName: old, NewName: name})
	return nil
}
