package engine

// Event is a state change published to subscribers.
// Events carry enough payload for a renderer to animate without reading back state.
type Event interface {
	engineEvent()
}

// TurnStarted is published when a tank becomes active.
type TurnStarted struct {
	Turn       int
	Tank       string
	InBattle   bool
	LegalMoves []Sector
}

func (TurnStarted) engineEvent() {}

// TurnPassed is published when the active tank gives up its move.
type TurnPassed struct {
	Tank string
}

func (TurnPassed) engineEvent() {}

// MoveStarted is published when a legal move request is accepted.
type MoveStarted struct {
	Tank string
	From Sector
	To   Sector
	Path []PathStep
}

func (MoveStarted) engineEvent() {}

// EntityMoved is published after each completed step.
// Turned is true when the tank rotated before the step.
type EntityMoved struct {
	Entity    string
	From      Sector
	To        Sector
	Direction Direction
	Turned    bool
}

func (EntityMoved) engineEvent() {}

// WeaponSwapped is published when a tank picks up a weapon and drops its old one.
type WeaponSwapped struct {
	Tank         string
	Sector       Sector
	Picked       string
	PickedDamage float64
	Dropped      string
}

func (WeaponSwapped) engineEvent() {}

// ShieldCollected is published when a shield pickup is consumed.
type ShieldCollected struct {
	Tank       string
	Sector     Sector
	Shield     string
	Value      float64
	TankShield float64
}

func (ShieldCollected) engineEvent() {}

// BattleStarted is published when a moving tank becomes adjacent to an enemy.
type BattleStarted struct {
	Attacker       string
	Defender       string
	AttackerFacing Direction
	DefenderFacing Direction
}

func (BattleStarted) engineEvent() {}

// Defended is published when a tank raises its guard.
type Defended struct {
	Tank string
}

func (Defended) engineEvent() {}

// DamageApplied is published after every attack.
type DamageApplied struct {
	Attacker string
	Defender string
	Weapon   string
	Damage   float64 // after the defending reduction
	Blocked  bool    // defender was defending
	Absorbed float64 // taken by the shield
	Health   float64 // defender health after the hit
	Shield   float64 // defender shield after the hit
}

func (DamageApplied) engineEvent() {}

// TankDestroyed is published when a tank's health reaches zero.
type TankDestroyed struct {
	Tank   string
	Sector Sector
}

func (TankDestroyed) engineEvent() {}

// GameOver is published once, when the duel has a winner.
type GameOver struct {
	Winner string
	Loser  string
	Turns  int
}

func (GameOver) engineEvent() {}

// Renamed is published when a tank's display name changes.
type Renamed struct {
	Tank    string
	OldName string
	NewName string
}

func (Renamed) engineEvent() {}
