package engine

import "fmt"

// adjacentEnemy scans the four neighbors of t for living tanks and picks
// one at random. dir points from t to the chosen enemy.
func (e *Engine) adjacentEnemy(t *Tank) (enemy *Tank, dir Direction, ok bool) {
	type candidate struct {
		tank *Tank
		dir  Direction
	}
	var found []candidate
	for _, n := range e.view.Neighbors() {
		if n.Err != nil {
			continue
		}
		other, ok := e.grid.TankAt(n.Sector)
		if !ok || other == t || other.Destroyed() {
			continue
		}
		found = append(found, candidate{tank: other, dir: n.Direction})
	}
	if len(found) == 0 {
		return nil, 0, false
	}
	c := found[0]
	if len(found) > 1 {
		c = found[e.rng.Intn(len(found))]
	}
	return c.tank, c.dir, true
}

// startBattle pairs the mover with its enemy and turns both to face each
// other. The mover stays active and strikes first.
func (e *Engine) startBattle(mover, enemy *Tank, dir Direction) {
	engage(mover, enemy)
	mover.Facing = dir
	enemy.Facing = dir.Opposite()
	e.phase = PhaseInBattle
	e.legal = NewMoveSet()

	e.log.Info("battle started", "attacker", mover.ID(), "defender", enemy.ID())
	e.emit(BattleStarted{
		Attacker:       mover.ID(),
		Defender:       enemy.ID(),
		AttackerFacing: mover.Facing,
		DefenderFacing: enemy.Facing,
	})
}

// RequestAttack fires the active tank's weapon at its opponent.
// A defending opponent takes half damage and drops its guard.
// The attack ends the turn unless it destroys the opponent.
func (e *Engine) RequestAttack(id string) error {
	t, err := e.actor(id)
	if err != nil {
		return err
	}
	if e.phase != PhaseInBattle || t.opponent == nil {
		return fmt.Errorf("%w: %s is not in battle", ErrIllegalAction, id)
	}
	def := t.opponent

	dmg := t.Weapon.Damage
	blocked := def.Defending
	if blocked {
		dmg /= 2
		def.Defending = false
	}
	absorbed, destroyed := def.Damage(dmg)

	e.log.Debug("attack", "attacker", id, "defender", def.ID(), "damage", dmg, "blocked", blocked, "health", def.Health, "shield", def.Shield)
	e.emit(DamageApplied{
		Attacker: id,
		Defender: def.ID(),
		Weapon:   t.Weapon.Name(),
		Damage:   dmg,
		Blocked:  blocked,
		Absorbed: absorbed,
		Health:   def.Health,
		Shield:   def.Shield,
	})

	if destroyed {
		e.finish(def)
		return nil
	}
	e.nextTurn()
	return nil
}

// RequestDefend raises the active tank's guard against the next hit and
// ends its turn.
func (e *Engine) RequestDefend(id string) error {
	t, err := e.actor(id)
	if err != nil {
		return err
	}
	if e.phase != PhaseInBattle || t.opponent == nil {
		return fmt.Errorf("%w: %s is not in battle", ErrIllegalAction, id)
	}
	t.Defending = true
	e.emit(Defended{Tank: id})
	e.nextTurn()
	return nil
}

// finish ends the duel. The winner is the surviving tank.
func (e *Engine) finish(loser *Tank) {
	e.phase = PhaseGameOver
	e.legal = NewMoveSet()
	e.loser = loser
	for _, t := range e.tanks {
		if t != loser && !t.Destroyed() {
			e.winner = t
			break
		}
	}

	pos, _ := loser.Position()
	e.emit(TankDestroyed{Tank: loser.ID(), Sector: pos})

	winner := ""
	if e.winner != nil {
		winner = e.winner.ID()
	}
	e.log.Info("game over", "winner", winner, "loser", loser.ID(), "turns", e.turn)
	e.emit(GameOver{Winner: winner, Loser: loser.ID(), Turns: e.turn})
}

// pickup collects the first weapon and every shield in sector s.
// The old weapon is dropped where the new one lay; shields are consumed.
func (e *Engine) pickup(t *Tank, s Sector) {
	content, err := e.grid.Get(s)
	if err != nil {
		return
	}
	swapped := false
	for _, ent := range content {
		switch item := ent.(type) {
		case *Weapon:
			if swapped {
				continue
			}
			swapped = true
			e.grid.Remove(s, item)
			old := t.equip(item)
			dropped := ""
			if old != nil {
				dropped = old.ID()
				_ = e.grid.Set(s, old)
			}
			e.log.Debug("weapon swapped", "tank", t.ID(), "picked", item.Name(), "dropped", dropped)
			e.emit(WeaponSwapped{
				Tank:         t.ID(),
				Sector:       s,
				Picked:       item.ID(),
				PickedDamage: item.Damage,
				Dropped:      dropped,
			})
		case *Shield:
			e.grid.Remove(s, item)
			t.Shield += item.Value
			e.log.Debug("shield collected", "tank", t.ID(), "value", item.Value, "shield", t.Shield)
			e.emit(ShieldCollected{
				Tank:       t.ID(),
				Sector:     s,
				Shield:     item.ID(),
				Value:      item.Value,
				TankShield: t.Shield,
			})
		}
	}
}
