package engine

import "fmt"

// WeaponSpec describes a weapon archetype.
type WeaponSpec struct {
	Name   string
	Damage float64
}

// Settings are supplied once when a duel is created.
type Settings struct {
	Width     int
	Height    int
	MoveLimit int // sectors a tank may travel per turn

	TankHealth    float64
	TankShield    float64
	DefaultWeapon WeaponSpec

	Weapons     []WeaponSpec // one pickup is placed per archetype
	ShieldCount int
	ShieldValue float64

	Players []string // display names, in turn order
}

// DefaultSettings mirrors the classic 10x10 duel.
func DefaultSettings() Settings {
	return Settings{
		Width:         10,
		Height:        10,
		MoveLimit:     3,
		TankHealth:    100,
		TankShield:    10,
		DefaultWeapon: WeaponSpec{Name: "default", Damage: 10},
		Weapons: []WeaponSpec{
			{Name: "KBM2", Damage: 15},
			{Name: "KBA3", Damage: 20},
			{Name: "L11A5", Damage: 25},
			{Name: "L30", Damage: 30},
		},
		ShieldCount: 2,
		ShieldValue: 20,
		Players:     []string{"Player One", "Player Two"},
	}
}

// ObstacleColumns returns the 0-indexed columns that receive obstacles:
// odd columns that are neither the first nor the last, so tanks and
// pickups are never walled in.
func (s Settings) ObstacleColumns() []int {
	var cols []int
	for x := 0; x < s.Width; x++ {
		if x == 0 || x == s.Width-1 || x%2 == 0 {
			continue
		}
		cols = append(cols, x)
	}
	return cols
}

// ObstaclesPerColumn is a third of the grid height.
func (s Settings) ObstaclesPerColumn() int {
	return s.Height / 3
}

// EntityCount returns how many sectors setup will fill.
func (s Settings) EntityCount() int {
	return len(s.ObstacleColumns())*s.ObstaclesPerColumn() + len(s.Weapons) + s.ShieldCount + len(s.Players)
}

// Validate checks the setup precondition: the grid must be large enough
// to hold every entity and to seat the tanks in the edge columns.
func (s Settings) Validate() error {
	if s.Width < 2 || s.Height < 1 {
		return fmt.Errorf("engine: grid %dx%d too small", s.Width, s.Height)
	}
	if s.MoveLimit < 1 {
		return fmt.Errorf("engine: move limit must be at least 1, got %d", s.MoveLimit)
	}
	if len(s.Players) < 2 {
		return fmt.Errorf("engine: need at least two players, got %d", len(s.Players))
	}
	if s.TankHealth <= 0 {
		return fmt.Errorf("engine: tank health must be positive, got %g", s.TankHealth)
	}
	if s.TankShield < 0 || s.ShieldValue < 0 || s.ShieldCount < 0 {
		return fmt.Errorf("engine: shield settings must not be negative")
	}
	for _, w := range s.Weapons {
		if w.Damage < 0 {
			return fmt.Errorf("engine: weapon %q has negative damage", w.Name)
		}
	}
	if s.DefaultWeapon.Damage < 0 {
		return fmt.Errorf("engine: default weapon has negative damage")
	}
	if need, have := s.EntityCount(), s.Width*s.Height; need > have {
		return fmt.Errorf("%w: need %d sectors, grid has %d", ErrInsufficientSpace, need, have)
	}
	// Even-indexed players start in the first column, odd-indexed in the last.
	if perColumn := (len(s.Players) + 1) / 2; perColumn > s.Height {
		return fmt.Errorf("%w: %d tanks per edge column, grid height %d", ErrInsufficientSpace, perColumn, s.Height)
	}
	return nil
}

// populate places obstacles, pickups and tanks on an empty grid.
func (e *Engine) populate() error {
	s := e.settings
	g := e.grid

	for _, col := range s.ObstacleColumns() {
		want := s.ObstaclesPerColumn()
		sectors := g.RandomEmptySectors(e.rng, want, col+1)
		if len(sectors) < want {
			return fmt.Errorf("%w: column %d has %d free sectors for %d obstacles", ErrInsufficientSpace, col+1, len(sectors), want)
		}
		for i, sec := range sectors {
			if err := g.Set(sec, NewObstacle(fmt.Sprintf("obstacle%d%d", col, i))); err != nil {
				return err
			}
		}
	}

	weaponSectors := g.RandomEmptySectors(e.rng, len(s.Weapons), 0)
	if len(weaponSectors) < len(s.Weapons) {
		return fmt.Errorf("%w: %d weapons", ErrInsufficientSpace, len(s.Weapons))
	}
	for i, sec := range weaponSectors {
		w := s.Weapons[i]
		if err := g.Set(sec, NewWeapon(fmt.Sprintf("weapon%d", i+1), w.Name, w.Damage)); err != nil {
			return err
		}
	}

	shieldSectors := g.RandomEmptySectors(e.rng, s.ShieldCount, 0)
	if len(shieldSectors) < s.ShieldCount {
		return fmt.Errorf("%w: %d shields", ErrInsufficientSpace, s.ShieldCount)
	}
	for i, sec := range shieldSectors {
		if err := g.Set(sec, NewShield(fmt.Sprintf("shield%d", i+1), s.ShieldValue)); err != nil {
			return err
		}
	}

	for i, name := range s.Players {
		column, facing := 1, East
		if i%2 == 1 {
			column, facing = s.Width, West
		}
		sectors := g.RandomEmptySectors(e.rng, 1, column)
		if len(sectors) == 0 {
			return fmt.Errorf("%w: no free sector in column %d for %s", ErrInsufficientSpace, column, name)
		}
		t := e.newTank(i, name)
		t.Facing = facing
		if err := g.Set(sectors[0], t); err != nil {
			return err
		}
		e.tanks = append(e.tanks, t)
	}

	e.log.Debug("grid populated",
		"width", s.Width,
		"height", s.Height,
		"obstacles", g.Count(KindObstacle),
		"weapons", g.Count(KindWeapon),
		"shields", g.Count(KindShield),
		"tanks", len(e.tanks),
	)
	return nil
}

// newTank builds a tank holding the configured default weapon.
func (e *Engine) newTank(index int, name string) *Tank {
	id := fmt.Sprintf("player%d", index+1)
	dw := e.settings.DefaultWeapon
	weapon := NewWeapon(id+"DefaultWeapon", dw.Name, dw.Damage)
	return NewTank(id, name, e.settings.TankHealth, e.settings.TankShield, weapon)
}
