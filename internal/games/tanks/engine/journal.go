package engine

// Record is a flat, serializable form of an Event.
type Record struct {
	Turn   int     `msgpack:"t" json:"turn"`
	Kind   string  `msgpack:"k" json:"kind"`
	Actor  string  `msgpack:"a,omitempty" json:"actor,omitempty"`
	Target string  `msgpack:"o,omitempty" json:"target,omitempty"`
	From   int     `msgpack:"f,omitempty" json:"from,omitempty"`
	To     int     `msgpack:"to,omitempty" json:"to,omitempty"`
	Value  float64 `msgpack:"v,omitempty" json:"value,omitempty"`
	Health float64 `msgpack:"h,omitempty" json:"health,omitempty"`
	Shield float64 `msgpack:"s,omitempty" json:"shield,omitempty"`
}

// Journal records every event of one engine as Records.
type Journal struct {
	engine  *Engine
	records []Record
}

// NewJournal subscribes a journal to the engine.
func NewJournal(e *Engine) *Journal {
	j := &Journal{engine: e}
	e.Subscribe(j.observe)
	return j
}

// Records returns the recorded events in publication order.
func (j *Journal) Records() []Record {
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of records.
func (j *Journal) Len() int {
	return len(j.records)
}

func (j *Journal) observe(ev Event) {
	j.records = append(j.records, ToRecord(j.engine.Turn(), ev))
}

// ToRecord flattens an event.
func ToRecord(turn int, ev Event) Record {
	r := Record{Turn: turn}
	switch ev := ev.(type) {
	case TurnStarted:
		r.Kind, r.Actor = "turn", ev.Tank
		r.Value = float64(len(ev.LegalMoves))
	case TurnPassed:
		r.Kind, r.Actor = "pass", ev.Tank
	case MoveStarted:
		r.Kind, r.Actor = "move", ev.Tank
		r.From, r.To = int(ev.From), int(ev.To)
	case EntityMoved:
		r.Kind, r.Actor = "step", ev.Entity
		r.From, r.To = int(ev.From), int(ev.To)
	case WeaponSwapped:
		r.Kind, r.Actor, r.Target = "weapon", ev.Tank, ev.Picked
		r.To, r.Value = int(ev.Sector), ev.PickedDamage
	case ShieldCollected:
		r.Kind, r.Actor, r.Target = "shield", ev.Tank, ev.Shield
		r.To, r.Value, r.Shield = int(ev.Sector), ev.Value, ev.TankShield
	case BattleStarted:
		r.Kind, r.Actor, r.Target = "battle", ev.Attacker, ev.Defender
	case Defended:
		r.Kind, r.Actor = "defend", ev.Tank
	case DamageApplied:
		r.Kind, r.Actor, r.Target = "damage", ev.Attacker, ev.Defender
		r.Value, r.Health, r.Shield = ev.Damage, ev.Health, ev.Shield
	case TankDestroyed:
		r.Kind, r.Actor, r.To = "destroyed", ev.Tank, int(ev.Sector)
	case GameOver:
		r.Kind, r.Actor, r.Target = "gameover", ev.Winner, ev.Loser
		r.Value = float64(ev.Turns)
	case Renamed:
		r.Kind, r.Actor, r.Target = "rename", ev.Tank, ev.NewName
	default:
		r.Kind = "unknown"
	}
	return r
}
