package config

import (
	_ "embed"
	"sort"
)

//go:embed defaults/classic.yaml
var defaultClassicYAML []byte

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// Preset names.
const (
	PresetClassic = "classic"
	PresetArena   = "arena"
)

var presets = map[string][]byte{
	PresetClassic: defaultClassicYAML,
	PresetArena:   defaultArenaYAML,
}

// Presets returns the embedded preset names, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetYAML returns the embedded YAML for a preset.
func PresetYAML(name string) ([]byte, bool) {
	data, ok := presets[name]
	return data, ok
}

// DefaultTanksConfig returns the classic 10x10 duel.
func DefaultTanksConfig() TanksConfig {
	return TanksConfig{
		Grid: GridConfig{Width: 10, Height: 10},
		Rules: RulesConfig{
			MoveLimit:     3,
			TankHealth:    100,
			TankShield:    10,
			DefaultWeapon: WeaponConfig{Name: "Default", Damage: 10},
			ShieldValue:   20,
			ShieldCount:   2,
		},
		Weapons: []WeaponConfig{
			{Name: "KBM2", Damage: 15},
			{Name: "KBA3", Damage: 20},
			{Name: "L11A5", Damage: 25},
			{Name: "L30", Damage: 30},
		},
		Players: []PlayerConfig{
			{Name: "Player One"},
			{Name: "Player Two"},
		},
	}
}
