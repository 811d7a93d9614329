package engine

// EntityView is the read-only form of one sector occupant.
type EntityView struct {
	ID    string
	Name  string
	Kind  Kind
	Group Group
	Value float64 // weapon damage or shield value
}

// TankStatus is the read-only form of a tank.
type TankStatus struct {
	ID        string
	Name      string
	Sector    Sector
	Health    float64
	Shield    float64
	Weapon    string
	Damage    float64
	Facing    Direction
	InBattle  bool
	Defending bool
	Opponent  string
	Destroyed bool
	Active    bool
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Turn       int
	Phase      Phase
	Active     string
	Width      int
	Height     int
	Sectors    [][]EntityView // indexed by Sector
	Tanks      []TankStatus   // in turn order
	LegalMoves []Sector
	Winner     string
	Loser      string
}

// Snapshot copies the current state. It shares no memory with the engine.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Turn:       e.turn,
		Phase:      e.phase,
		Active:     e.Active().ID(),
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Sectors:    make([][]EntityView, e.grid.Size()),
		Tanks:      make([]TankStatus, 0, len(e.tanks)),
		LegalMoves: e.legal.Sorted(),
	}
	if e.winner != nil {
		snap.Winner = e.winner.ID()
	}
	if e.loser != nil {
		snap.Loser = e.loser.ID()
	}

	e.grid.Each(func(s Sector, ent Entity) {
		v := EntityView{ID: ent.ID(), Name: ent.Name(), Kind: ent.Kind(), Group: ent.Group()}
		switch item := ent.(type) {
		case *Weapon:
			v.Value = item.Damage
		case *Shield:
			v.Value = item.Value
		case *Tank:
			v.Value = item.Health
		}
		snap.Sectors[s] = append(snap.Sectors[s], v)
	})

	for i, t := range e.tanks {
		pos, _ := t.Position()
		st := TankStatus{
			ID:        t.ID(),
			Name:      t.Name(),
			Sector:    pos,
			Health:    t.Health,
			Shield:    t.Shield,
			Facing:    t.Facing,
			InBattle:  t.InBattle,
			Defending: t.Defending,
			Destroyed: t.Destroyed(),
			Active:    i == e.active,
		}
		if t.Weapon != nil {
			st.Weapon, st.Damage = t.Weapon.Name(), t.Weapon.Damage
		}
		if t.opponent != nil {
			st.Opponent = t.opponent.ID()
		}
		snap.Tanks = append(snap.Tanks, st)
	}
	return snap
}

// TankByID returns the status of the tank with the given id.
func (s Snapshot) TankByID(id string) (TankStatus, bool) {
	for _, t := range s.Tanks {
		if t.ID == id {
			return t, true
		}
	}
	return TankStatus{}, false
}
