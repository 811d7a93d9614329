package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a preset.
// Search order: customPath -> ~/.tanks/configs/<preset>.yaml ->
// ./configs/<preset>.yaml -> embedded preset.
// An empty preset means PresetClassic. The result is validated.
func Load(customPath, preset string) (TanksConfig, error) {
	if preset == "" {
		preset = PresetClassic
	}
	embedded, ok := PresetYAML(preset)
	if !ok {
		return TanksConfig{}, fmt.Errorf("config: unknown preset %q", preset)
	}

	// Try custom path first
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	filename := preset + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := LoadFile(filepath.Join("configs", filename)); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}

	// Use embedded preset
	cfg, err := Parse(embedded)
	if err != nil {
		if preset == PresetClassic {
			return DefaultTanksConfig(), nil // Fallback to hardcoded if embed fails
		}
		return cfg, fmt.Errorf("config: embedded preset %s: %w", preset, err)
	}
	return cfg, cfg.Validate()
}

// LoadFile reads and parses one YAML file.
func LoadFile(path string) (TanksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TanksConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the classic defaults, so a file only needs
// the keys it changes. Lists replace the defaults wholesale.
func Parse(data []byte) (TanksConfig, error) {
	cfg := DefaultTanksConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TanksConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg TanksConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tanks", "configs", filename)
}
