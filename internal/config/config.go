// Package config provides YAML-based duel configuration loading and
// named presets for the tanks game.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// TanksConfig contains all configuration for one duel.
type TanksConfig struct {
	Grid    GridConfig     `yaml:"grid"`
	Rules   RulesConfig    `yaml:"rules"`
	Weapons []WeaponConfig `yaml:"weapons"`
	Players []PlayerConfig `yaml:"players"`
}

// GridConfig defines the board size in sectors.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RulesConfig defines movement, tank and pickup parameters.
type RulesConfig struct {
	MoveLimit     int          `yaml:"move_limit"`
	TankHealth    float64      `yaml:"tank_health"`
	TankShield    float64      `yaml:"tank_shield"`
	DefaultWeapon WeaponConfig `yaml:"default_weapon"`
	ShieldValue   float64      `yaml:"shield_value"`
	ShieldCount   int          `yaml:"shield_count"`
}

// WeaponConfig is one weapon archetype. One pickup is placed per entry.
type WeaponConfig struct {
	Name   string  `yaml:"name"`
	Damage float64 `yaml:"damage"`
}

// PlayerConfig names one player, in turn order.
type PlayerConfig struct {
	Name string `yaml:"name"`
}

// Settings converts the configuration into engine settings.
func (c TanksConfig) Settings() engine.Settings {
	s := engine.Settings{
		Width:         c.Grid.Width,
		Height:        c.Grid.Height,
		MoveLimit:     c.Rules.MoveLimit,
		TankHealth:    c.Rules.TankHealth,
		TankShield:    c.Rules.TankShield,
		DefaultWeapon: engine.WeaponSpec{Name: c.Rules.DefaultWeapon.Name, Damage: c.Rules.DefaultWeapon.Damage},
		ShieldCount:   c.Rules.ShieldCount,
		ShieldValue:   c.Rules.ShieldValue,
	}
	for _, w := range c.Weapons {
		s.Weapons = append(s.Weapons, engine.WeaponSpec{Name: w.Name, Damage: w.Damage})
	}
	for _, p := range c.Players {
		s.Players = append(s.Players, p.Name)
	}
	return s
}

// SetPlayerName overrides the display name of player i (0-based).
// Empty names are ignored.
func (c *TanksConfig) SetPlayerName(i int, name string) {
	name = strings.TrimSpace(name)
	if name == "" || i < 0 || i >= len(c.Players) {
		return
	}
	c.Players[i].Name = name
}

// Validate checks the configuration before a duel is created.
// It rejects grids that cannot hold every configured entity.
func (c TanksConfig) Validate() error {
	for i, p := range c.Players {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalid, i+1)
		}
	}
	for i, w := range c.Weapons {
		if strings.TrimSpace(w.Name) == "" {
			return fmt.Errorf("%w: weapon %d has no name", ErrInvalid, i+1)
		}
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
