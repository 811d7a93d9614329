package engine

// Kind identifies the variant behind an Entity.
type Kind int

const (
	KindObstacle Kind = iota
	KindWeapon
	KindShield
	KindTank
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindWeapon:
		return "weapon"
	case KindShield:
		return "shield"
	case KindTank:
		return "tank"
	default:
		return "unknown"
	}
}

// Group is a styling/layering tag for renderers. The simulation never reads it.
type Group string

const (
	GroupObstacles Group = "obstacles"
	GroupWeapons   Group = "weapons"
	GroupShields   Group = "shields"
	GroupPlayers   Group = "players"
)

// Entity is the capability surface shared by everything that can occupy a sector.
type Entity interface {
	ID() string
	Name() string
	Group() Group
	Kind() Kind

	// Position returns the current sector. ok is false until the entity is placed.
	Position() (s Sector, ok bool)

	// BlocksMovement reports whether a sector holding this entity can be entered.
	BlocksMovement() bool

	place(s Sector)
	unplace()
}

// base holds identity and placement for every variant.
type base struct {
	id     string
	name   string
	group  Group
	pos    Sector
	placed bool
}

func (b *base) ID() string     { return b.id }
func (b *base) Name() string   { return b.name }
func (b *base) Group() Group   { return b.group }
func (b *base) place(s Sector) { b.pos, b.placed = s, true }
func (b *base) unplace()       { b.pos, b.placed = 0, false }

func (b *base) Position() (Sector, bool) {
	return b.pos, b.placed
}

// Obstacle blocks movement and never moves.
type Obstacle struct {
	base
}

// NewObstacle creates an unplaced obstacle.
func NewObstacle(id string) *Obstacle {
	return &Obstacle{base: base{id: id, name: "obstacle", group: GroupObstacles}}
}

func (*Obstacle) Kind() Kind           { return KindObstacle }
func (*Obstacle) BlocksMovement() bool { return true }

// Weapon is a pickup that sets the attack damage of the tank holding it.
type Weapon struct {
	base
	Damage float64
}

// NewWeapon creates an unplaced weapon.
func NewWeapon(id, name string, damage float64) *Weapon {
	return &Weapon{
		base:   base{id: id, name: name, group: GroupWeapons},
		Damage: damage,
	}
}

func (*Weapon) Kind() Kind           { return KindWeapon }
func (*Weapon) BlocksMovement() bool { return false }

// Shield is a pickup consumed on arrival; its value is added to the tank's shield.
type Shield struct {
	base
	Value float64
}

// NewShield creates an unplaced shield pickup.
func NewShield(id string, value float64) *Shield {
	return &Shield{
		base:  base{id: id, name: "Shield", group: GroupShields},
		Value: value,
	}
}

func (*Shield) Kind() Kind           { return KindShield }
func (*Shield) BlocksMovement() bool { return false }

// Tank is a player-controlled entity.
type Tank struct {
	base

	Health    float64 // 0..MaxHealth, 0 means destroyed
	Shield    float64 // absorbs damage before health
	Weapon    *Weapon // equipped weapon, never nil
	Facing    Direction
	InBattle  bool
	Defending bool // halves the next incoming hit

	// opponent is a relation only; the engine owns every tank.
	opponent *Tank
}

// NewTank creates an unplaced tank holding the given weapon.
func NewTank(id, name string, health, shield float64, weapon *Weapon) *Tank {
	return &Tank{
		base:   base{id: id, name: name, group: GroupPlayers},
		Health: health,
		Shield: shield,
		Weapon: weapon,
	}
}

func (*Tank) Kind() Kind           { return KindTank }
func (*Tank) BlocksMovement() bool { return true }

// Opponent returns the tank this one is fighting, or nil.
func (t *Tank) Opponent() *Tank {
	return t.opponent
}

// Destroyed reports whether the tank's health has reached zero.
func (t *Tank) Destroyed() bool {
	return t.Health <= 0
}

// Damage applies incoming damage, shield first, then health.
// Negative damage is treated as zero. Returns the amount the shield absorbed
// and whether the hit destroyed the tank.
func (t *Tank) Damage(amount float64) (absorbed float64, destroyed bool) {
	if amount < 0 {
		amount = 0
	}
	if t.Shield >= amount {
		t.Shield -= amount
		return amount, false
	}

	absorbed = t.Shield
	remainder := amount - t.Shield
	t.Shield = 0
	if t.Health-remainder <= 0 {
		t.Health = 0
		return absorbed, true
	}
	t.Health -= remainder
	return absorbed, false
}

// equip swaps in a new weapon and returns the previous one.
func (t *Tank) equip(w *Weapon) *Weapon {
	old := t.Weapon
	t.Weapon = w
	return old
}

// engage cross-links two tanks as opponents.
func engage(a, b *Tank) {
	a.opponent, b.opponent = b, a
	a.InBattle, b.InBattle = true, true
}

// isTank is a small helper for occupant scans.
func isTank(e Entity) (*Tank, bool) {
	t, ok := e.(*Tank)
	return t, ok
}
