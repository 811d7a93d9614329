package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGridIsInside(t *testing.T) {
	g := NewGrid(4, 3)
	for s := Sector(-3); s < Sector(g.Size()+3); s++ {
		want := s >= 0 && int(s) < 12
		if got := g.IsInside(s); got != want {
			t.Errorf("IsInside(%d) = %v, expected %v", s, got, want)
		}
	}
}

func TestGridXY(t *testing.T) {
	g := NewGrid(10, 10)
	tests := []struct {
		s    Sector
		x, y int
	}{
		{0, 0, 0},
		{9, 9, 0},
		{10, 0, 1},
		{55, 5, 5},
		{99, 9, 9},
	}
	for _, tc := range tests {
		x, y := g.XY(tc.s)
		if x != tc.x || y != tc.y {
			t.Errorf("XY(%d) = (%d,%d), expected (%d,%d)", tc.s, x, y, tc.x, tc.y)
		}
		s, err := g.SectorAt(tc.x, tc.y)
		if err != nil || s != tc.s {
			t.Errorf("SectorAt(%d,%d) = %d, %v", tc.x, tc.y, s, err)
		}
	}

	if _, err := g.SectorAt(10, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SectorAt(10,0) error = %v, expected ErrOutOfBounds", err)
	}
}

func TestGridGetOutOfBounds(t *testing.T) {
	g := NewGrid(3, 3)
	for _, s := range []Sector{-1, 9, 100} {
		if _, err := g.Get(s); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d) error = %v, expected ErrOutOfBounds", s, err)
		}
	}
}

func TestGridSetAndReplace(t *testing.T) {
	g := NewGrid(3, 3)
	w := NewWeapon("w1", "KBM2", 15)
	s := NewShield("s1", 20)

	if err := g.Set(4, w); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Set(4, s); err != nil {
		t.Fatalf("Set: %v", err)
	}
	content, _ := g.Get(4)
	if len(content) != 2 {
		t.Fatalf("sector 4 holds %d entities, expected 2", len(content))
	}

	o := NewObstacle("o1")
	if err := g.Replace(4, []Entity{o}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	content, _ = g.Get(4)
	if len(content) != 1 || content[0] != o {
		t.Fatalf("after Replace sector 4 = %v", content)
	}
	if _, ok := w.Position(); ok {
		t.Error("replaced weapon should lose its position")
	}
	if pos, ok := o.Position(); !ok || pos != 4 {
		t.Errorf("obstacle position = %d, %v", pos, ok)
	}
}

func TestGridRemove(t *testing.T) {
	g := NewGrid(3, 3)
	w := NewWeapon("w1", "KBM2", 15)
	_ = g.Set(2, w)

	g.Remove(2, NewObstacle("absent"))
	if got, _ := g.Get(2); len(got) != 1 {
		t.Fatalf("removing an absent entity changed the sector: %v", got)
	}

	g.Remove(2, w)
	if !g.IsEmpty(2) {
		t.Error("sector should be empty after Remove")
	}
	if _, ok := w.Position(); ok {
		t.Error("removed entity should lose its position")
	}
}

func TestGridMoveKeepsEntityInOneSector(t *testing.T) {
	g := NewGrid(5, 5)
	tank := NewTank("p1", "One", 100, 10, NewWeapon("d", "default", 10))
	_ = g.Set(0, tank)

	for _, target := range []Sector{1, 6, 11, 11, 10} {
		if err := g.Move(tank, target); err != nil {
			t.Fatalf("Move(%d): %v", target, err)
		}
		seen := 0
		g.Each(func(s Sector, e Entity) {
			if e == tank {
				seen++
				if s != target {
					t.Errorf("tank found in %d, expected %d", s, target)
				}
			}
		})
		if seen != 1 {
			t.Fatalf("tank appears in %d sectors after Move(%d)", seen, target)
		}
		if pos, _ := tank.Position(); pos != target {
			t.Errorf("Position() = %d, expected %d", pos, target)
		}
	}

	if err := g.Move(tank, 25); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Move(25) error = %v, expected ErrOutOfBounds", err)
	}
}

func TestGridBlocked(t *testing.T) {
	g := NewGrid(3, 1)
	_ = g.Set(0, NewObstacle("o"))
	_ = g.Set(1, NewShield("s", 20))
	_ = g.Set(2, NewTank("p", "P", 100, 0, NewWeapon("d", "default", 10)))

	tests := []struct {
		s    Sector
		want bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{2, true},
		{3, true},
	}
	for _, tc := range tests {
		if got := g.Blocked(tc.s); got != tc.want {
			t.Errorf("Blocked(%d) = %v, expected %v", tc.s, got, tc.want)
		}
	}
}

func TestRandomEmptySectors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("distinct and empty", func(t *testing.T) {
		g := NewGrid(5, 5)
		_ = g.Set(3, NewObstacle("o"))
		got := g.RandomEmptySectors(rng, 10, 0)
		if len(got) != 10 {
			t.Fatalf("got %d sectors, expected 10", len(got))
		}
		seen := map[Sector]bool{}
		for _, s := range got {
			if seen[s] {
				t.Errorf("sector %d returned twice", s)
			}
			seen[s] = true
			if !g.IsEmpty(s) {
				t.Errorf("sector %d is not empty", s)
			}
		}
	})

	t.Run("column restriction is 1-indexed", func(t *testing.T) {
		g := NewGrid(5, 4)
		got := g.RandomEmptySectors(rng, 10, 2)
		if len(got) != 4 {
			t.Fatalf("got %d sectors, expected the 4 in column 2", len(got))
		}
		for _, s := range got {
			if x, _ := g.XY(s); x != 1 {
				t.Errorf("sector %d is in column %d", s, x+1)
			}
		}
	})

	t.Run("fewer than requested", func(t *testing.T) {
		g := NewGrid(2, 1)
		_ = g.Set(0, NewObstacle("o"))
		got := g.RandomEmptySectors(rng, 5, 0)
		if len(got) != 1 || got[0] != 1 {
			t.Errorf("got %v, expected [1]", got)
		}
	})

	t.Run("seeded source is deterministic", func(t *testing.T) {
		a := NewGrid(6, 6).RandomEmptySectors(rand.New(rand.NewSource(42)), 6, 0)
		b := NewGrid(6, 6).RandomEmptySectors(rand.New(rand.NewSource(42)), 6, 0)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("same seed produced %v and %v", a, b)
			}
		}
	})
}
