package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset converts a name to a DifficultyPreset.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty preset %q (want easy, normal, hard or fixed)", name)
}

// StartLevelForPreset returns the level a preset starts at.
// The fixed preset keeps the configured start level.
func StartLevelForPreset(preset DifficultyPreset) (int, bool) {
	switch preset {
	case DifficultyEasy:
		return 1, true
	case DifficultyNormal:
		return 5, true
	case DifficultyHard:
		return 10, true
	default:
		return 0, false
	}
}

// IsFixedPreset returns true if the preset disables level progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	if IsFixedPreset(preset) {
		cfg.Difficulty.Progression = false
		return
	}
	cfg.Difficulty.Progression = true
	if level, ok := StartLevelForPreset(preset); ok {
		cfg.Rules.StartLevel = level
	}
}
