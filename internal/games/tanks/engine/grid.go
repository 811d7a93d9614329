// Package engine implements the tank duel simulation: the sector grid,
// directional queries, turn sequencing and battle resolution.
// It has no knowledge of terminals or rendering; collaborators drive it
// through Request* intents and observe it through events and snapshots.
package engine

import (
	"fmt"
	"math/rand"
)

// Sector addresses one grid cell in row-major order: s = y*width + x.
type Sector int

// Grid owns the placement of every entity.
// An entity is in at most one sector at a time.
type Grid struct {
	width   int
	height  int
	sectors [][]Entity // length width*height
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:   width,
		height:  height,
		sectors: make([][]Entity, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Size returns the number of sectors.
func (g *Grid) Size() int {
	return g.width * g.height
}

// IsInside reports whether 0 <= s < width*height.
func (g *Grid) IsInside(s Sector) bool {
	return s >= 0 && int(s) < g.Size()
}

// XY returns the column and row of a sector.
func (g *Grid) XY(s Sector) (x, y int) {
	return int(s) % g.width, int(s) / g.width
}

// SectorAt returns the sector for a column and row.
func (g *Grid) SectorAt(x, y int) (Sector, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	return Sector(y*g.width + x), nil
}

// Get returns a copy of the sector content.
func (g *Grid) Get(s Sector) ([]Entity, error) {
	if !g.IsInside(s) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, s)
	}
	content := make([]Entity, len(g.sectors[s]))
	copy(content, g.sectors[s])
	return content, nil
}

// Set appends a single entity to the sector and records its position.
func (g *Grid) Set(s Sector, e Entity) error {
	if !g.IsInside(s) {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, s)
	}
	g.sectors[s] = append(g.sectors[s], e)
	e.place(s)
	return nil
}

// Replace swaps the whole content of a sector for the given list.
// Entities dropped from the sector lose their position.
func (g *Grid) Replace(s Sector, content []Entity) error {
	if !g.IsInside(s) {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, s)
	}
	for _, old := range g.sectors[s] {
		if !containsEntity(content, old) {
			old.unplace()
		}
	}
	g.sectors[s] = append([]Entity(nil), content...)
	for _, e := range content {
		e.place(s)
	}
	return nil
}

// Remove filters an entity out of a sector. Absent entities are ignored.
func (g *Grid) Remove(s Sector, e Entity) {
	if !g.IsInside(s) {
		return
	}
	content := g.sectors[s]
	kept := content[:0]
	removed := false
	for _, other := range content {
		if other == e {
			removed = true
			continue
		}
		kept = append(kept, other)
	}
	// Clear the tail so removed entities are not retained by the backing array.
	for i := len(kept); i < len(content); i++ {
		content[i] = nil
	}
	g.sectors[s] = kept

	if removed {
		if pos, ok := e.Position(); ok && pos == s {
			e.unplace()
		}
	}
}

// Move relocates an entity to target in one step: it is appended to the
// target and removed from its recorded position.
func (g *Grid) Move(e Entity, target Sector) error {
	if !g.IsInside(target) {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, target)
	}
	from, placed := e.Position()
	if placed && from == target {
		return nil
	}
	g.sectors[target] = append(g.sectors[target], e)
	if placed {
		g.Remove(from, e)
	}
	e.place(target)
	return nil
}

// IsEmpty reports whether the sector exists and holds nothing.
func (g *Grid) IsEmpty(s Sector) bool {
	return g.IsInside(s) && len(g.sectors[s]) == 0
}

// Blocked reports whether the sector holds anything that blocks movement.
// Sectors outside the grid are blocked.
func (g *Grid) Blocked(s Sector) bool {
	if !g.IsInside(s) {
		return true
	}
	for _, e := range g.sectors[s] {
		if e.BlocksMovement() {
			return true
		}
	}
	return false
}

// TankAt returns the first tank in the sector, if any.
func (g *Grid) TankAt(s Sector) (*Tank, bool) {
	if !g.IsInside(s) {
		return nil, false
	}
	for _, e := range g.sectors[s] {
		if t, ok := isTank(e); ok {
			return t, true
		}
	}
	return nil, false
}

// Each calls fn for every placed entity in sector order.
func (g *Grid) Each(fn func(s Sector, e Entity)) {
	for i, content := range g.sectors {
		for _, e := range content {
			fn(Sector(i), e)
		}
	}
}

// Count returns how many entities of a kind are on the grid.
func (g *Grid) Count(k Kind) int {
	n := 0
	g.Each(func(_ Sector, e Entity) {
		if e.Kind() == k {
			n++
		}
	})
	return n
}

// RandomEmptySectors returns up to count distinct empty sectors in random order.
// When column > 0 the candidates are restricted to that 1-indexed column.
// Fewer qualifying sectors than count is not an error; all of them are returned.
func (g *Grid) RandomEmptySectors(rng *rand.Rand, count, column int) []Sector {
	candidates := make([]Sector, 0, g.Size())
	for i := range g.sectors {
		s := Sector(i)
		if len(g.sectors[i]) != 0 {
			continue
		}
		if column > 0 {
			if x, _ := g.XY(s); x != column-1 {
				continue
			}
		}
		candidates = append(candidates, s)
	}

	shuffle(rng, candidates)

	if count < 0 {
		count = 0
	}
	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates
}

// shuffle is a Durstenfeld shuffle driven by the injected source.
func shuffle(rng *rand.Rand, s []Sector) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func containsEntity(list []Entity, e Entity) bool {
	for _, other := range list {
		if other == e {
			return true
		}
	}
	return false
}
