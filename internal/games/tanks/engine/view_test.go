package engine

import (
	"errors"
	"testing"
)

func TestViewTarget(t *testing.T) {
	g := NewGrid(10, 10)

	tests := []struct {
		name     string
		observer Sector
		dir      Direction
		dist     int
		want     Sector
		wantErr  error
	}{
		{"north", 55, North, 2, 35, nil},
		{"south", 55, South, 3, 85, nil},
		{"east", 55, East, 4, 59, nil},
		{"west", 55, West, 5, 50, nil},
		{"north off grid", 5, North, 1, 0, ErrOutOfBounds},
		{"south off grid", 95, South, 1, 0, ErrOutOfBounds},
		{"east crosses row", 9, East, 1, 0, ErrOutOfBounds},
		{"west crosses row", 10, West, 1, 0, ErrOutOfBounds},
		{"east stays in row", 17, East, 2, 19, nil},
		{"east beyond row end", 17, East, 3, 0, ErrOutOfBounds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewView(g, tc.observer).Target(tc.dir, tc.dist)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, expected %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Target = %d, expected %d", got, tc.want)
			}
		})
	}
}

func TestViewHorizontalNeverChangesRow(t *testing.T) {
	g := NewGrid(7, 5)
	for obs := Sector(0); obs < Sector(g.Size()); obs++ {
		_, row := g.XY(obs)
		v := NewView(g, obs)
		for _, dir := range []Direction{East, West} {
			for d := 1; d <= 8; d++ {
				s, err := v.Target(dir, d)
				if err != nil {
					continue
				}
				if _, r := g.XY(s); r != row {
					t.Fatalf("Target(%s,%d) from %d landed in row %d, expected %d", dir, d, obs, r, row)
				}
			}
		}
	}
}

func TestViewNeighbors(t *testing.T) {
	g := NewGrid(3, 3)
	ns := NewView(g, 0).Neighbors()
	if len(ns) != 4 {
		t.Fatalf("got %d neighbors, expected 4", len(ns))
	}
	for i, dir := range Directions {
		if ns[i].Direction != dir {
			t.Errorf("neighbor %d direction = %s, expected %s", i, ns[i].Direction, dir)
		}
	}
	if !errors.Is(ns[0].Err, ErrOutOfBounds) || !errors.Is(ns[3].Err, ErrOutOfBounds) {
		t.Error("north and west of the corner should be out of bounds")
	}
	if ns[1].Err != nil || ns[1].Sector != 1 {
		t.Errorf("east neighbor = %d, %v", ns[1].Sector, ns[1].Err)
	}
	if ns[2].Err != nil || ns[2].Sector != 3 {
		t.Errorf("south neighbor = %d, %v", ns[2].Sector, ns[2].Err)
	}
}

func TestViewDirectionsTo(t *testing.T) {
	g := NewGrid(10, 10)
	v := NewView(g, 44)

	path, err := v.DirectionsTo(47)
	if err != nil {
		t.Fatalf("DirectionsTo(47): %v", err)
	}
	want := []PathStep{{45, East}, {46, East}, {47, East}}
	if len(path) != len(want) {
		t.Fatalf("path = %v, expected %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("step %d = %v, expected %v", i, path[i], want[i])
		}
	}

	path, err = v.DirectionsTo(24)
	if err != nil || len(path) != 2 || path[1] != (PathStep{24, North}) {
		t.Errorf("DirectionsTo(24) = %v, %v", path, err)
	}

	path, err = v.DirectionsTo(44)
	if err != nil || len(path) != 0 {
		t.Errorf("DirectionsTo(self) = %v, %v", path, err)
	}

	if _, err := v.DirectionsTo(55); !errors.Is(err, ErrNotAligned) {
		t.Errorf("diagonal error = %v, expected ErrNotAligned", err)
	}
	if _, err := v.DirectionsTo(100); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("off-grid error = %v, expected ErrOutOfBounds", err)
	}
}

func TestViewLegalMoves(t *testing.T) {
	// 5x5, observer in the middle (12).
	// Obstacle two steps north (2), tank one step west (11),
	// shield one step east (13) which does not block.
	g := NewGrid(5, 5)
	_ = g.Set(2, NewObstacle("o"))
	_ = g.Set(11, NewTank("p2", "Two", 100, 0, NewWeapon("d", "default", 10)))
	_ = g.Set(13, NewShield("s", 20))

	moves := NewView(g, 12).LegalMoves(3)
	want := []Sector{7, 13, 14, 17, 22}
	got := moves.Sorted()
	if len(got) != len(want) {
		t.Fatalf("LegalMoves = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LegalMoves = %v, expected %v", got, want)
		}
	}
	for _, s := range []Sector{2, 11, 10, 12} {
		if moves.Has(s) {
			t.Errorf("LegalMoves should not contain %d", s)
		}
	}
}

func TestViewLegalMovesRespectsDistance(t *testing.T) {
	g := NewGrid(9, 9)
	obs := Sector(40)
	for d := 0; d <= 5; d++ {
		moves := NewView(g, obs).LegalMoves(d)
		if moves.Len() != 4*d {
			t.Errorf("LegalMoves(%d) has %d sectors, expected %d", d, moves.Len(), 4*d)
		}
		ox, oy := g.XY(obs)
		for _, s := range moves.Sorted() {
			x, y := g.XY(s)
			if dist := abs(x-ox) + abs(y-oy); dist > d {
				t.Errorf("LegalMoves(%d) includes %d at distance %d", d, s, dist)
			}
		}
	}
}

func TestMoveSetZeroValue(t *testing.T) {
	var m MoveSet
	if m.Has(3) || m.Len() != 0 || len(m.Sorted()) != 0 {
		t.Error("zero MoveSet should be empty")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
