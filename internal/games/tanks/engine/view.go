package engine

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// View answers directional questions for one observer sector.
// The owning tank rebinds it every time it relocates.
type View struct {
	grid     *Grid
	observer Sector
}

// NewView binds a view to a grid and an observer sector.
func NewView(g *Grid, observer Sector) *View {
	return &View{grid: g, observer: observer}
}

// Observer returns the origin of directional queries.
func (v *View) Observer() Sector {
	return v.observer
}

// Rebind moves the observer.
func (v *View) Rebind(observer Sector) {
	v.observer = observer
}

// Target returns the sector dist steps away in dir.
// East and west never leave the observer's row: crossing a row boundary
// fails with ErrOutOfBounds instead of wrapping.
func (v *View) Target(dir Direction, dist int) (Sector, error) {
	if !v.grid.IsInside(v.observer) {
		return 0, fmt.Errorf("%w: observer %d", ErrOutOfBounds, v.observer)
	}

	var target Sector
	switch dir {
	case North:
		target = v.observer - Sector(v.grid.width*dist)
	case South:
		target = v.observer + Sector(v.grid.width*dist)
	case East, West:
		x, _ := v.grid.XY(v.observer)
		nx := x + dist
		if dir == West {
			nx = x - dist
		}
		if nx < 0 || nx >= v.grid.width {
			return 0, fmt.Errorf("%w: %s %d from %d crosses row", ErrOutOfBounds, dir, dist, v.observer)
		}
		target = v.observer + Sector(nx-x)
	default:
		return 0, fmt.Errorf("%w: direction %d", ErrOutOfBounds, dir)
	}

	if !v.grid.IsInside(target) {
		return 0, fmt.Errorf("%w: %s %d from %d", ErrOutOfBounds, dir, dist, v.observer)
	}
	return target, nil
}

// Neighbor is one cardinal neighbor of the observer.
// Err is ErrOutOfBounds (wrapped) when the neighbor is off the grid.
type Neighbor struct {
	Direction Direction
	Sector    Sector
	Err       error
}

// Neighbors returns the four sectors at distance 1, in N, E, S, W order.
func (v *View) Neighbors() []Neighbor {
	out := make([]Neighbor, 0, len(Directions))
	for _, dir := range Directions {
		s, err := v.Target(dir, 1)
		out = append(out, Neighbor{Direction: dir, Sector: s, Err: err})
	}
	return out
}

// PathStep is a single-sector move taken in Direction.
type PathStep struct {
	To        Sector
	Direction Direction
}

// DirectionsTo splits a straight line from the observer to dest into single steps.
// dest must share the observer's row or column, otherwise ErrNotAligned.
// A destination equal to the observer yields an empty path.
func (v *View) DirectionsTo(dest Sector) ([]PathStep, error) {
	if !v.grid.IsInside(dest) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, dest)
	}
	if dest == v.observer {
		return nil, nil
	}

	ox, oy := v.grid.XY(v.observer)
	dx, dy := v.grid.XY(dest)

	var dir Direction
	var distance int
	switch {
	case oy == dy && dx > ox:
		dir, distance = East, dx-ox
	case oy == dy:
		dir, distance = West, ox-dx
	case ox == dx && dy > oy:
		dir, distance = South, dy-oy
	case ox == dx:
		dir, distance = North, oy-dy
	default:
		return nil, fmt.Errorf("%w: %d -> %d", ErrNotAligned, v.observer, dest)
	}

	path := make([]PathStep, 0, distance)
	for i := 1; i <= distance; i++ {
		to, err := v.Target(dir, i)
		if err != nil {
			return nil, err
		}
		path = append(path, PathStep{To: to, Direction: dir})
	}
	return path, nil
}

// LegalMoves walks outward in each direction up to maxDistance and collects
// enterable sectors. A walk stops at the grid edge or at the first sector
// holding a blocker; that sector and everything beyond it are excluded.
func (v *View) LegalMoves(maxDistance int) MoveSet {
	set := NewMoveSet()
	for _, dir := range Directions {
		for dist := 1; dist <= maxDistance; dist++ {
			target, err := v.Target(dir, dist)
			if err != nil {
				break
			}
			if v.grid.Blocked(target) {
				break
			}
			set.add(target)
		}
	}
	return set
}

// MoveSet is the set of sectors a tank may enter this turn.
// The zero value is an empty, read-only set.
type MoveSet struct {
	set mapset.Set[Sector]
}

// NewMoveSet returns an empty set.
func NewMoveSet() MoveSet {
	return MoveSet{set: mapset.New[Sector]()}
}

func (m MoveSet) add(s Sector) {
	m.set.Put(s)
}

// Has reports whether s is in the set.
func (m MoveSet) Has(s Sector) bool {
	return m.set.Has(s)
}

// Len returns the number of sectors in the set.
func (m MoveSet) Len() int {
	return m.set.Size()
}

// Sorted returns the sectors in ascending order.
func (m MoveSet) Sorted() []Sector {
	out := make([]Sector, 0, m.Len())
	m.set.Each(func(s Sector) {
		out = append(out, s)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
