// Package config provides YAML-based configuration loading and difficulty
// presets for termtris.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
)

// GameConfig contains the complete game configuration.
type GameConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Timing     TimingConfig     `yaml:"timing"`
	Rules      RulesConfig      `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Colors     ColorsConfig     `yaml:"colors"`
	Sprint     SprintConfig     `yaml:"sprint"`
}

// BoardConfig defines the playfield dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"` // Includes the rows pieces spawn in
}

// TimingConfig defines gravity and lock timing.
type TimingConfig struct {
	LockDelay          int                 `yaml:"lock_delay"` // Blocked gravity steps before locking
	LockReset          playfield.LockReset `yaml:"lock_reset"` // "move" or "step"
	MaxLockResets      int                 `yaml:"max_lock_resets"`
	SoftDropFactor     int                 `yaml:"soft_drop_factor"`
	SoftDropHoldMS     int                 `yaml:"soft_drop_hold_ms"` // How long a soft drop key press counts as held
	DefaultTickDelayMS int                 `yaml:"default_tick_delay_ms"`
	TickDelayMS        map[int]int         `yaml:"tick_delay_ms"` // Level -> gravity interval
}

// RulesConfig defines gameplay rules.
type RulesConfig struct {
	Bag        playfield.BagStrategy `yaml:"bag"`
	Previews   int                   `yaml:"previews"`
	Hold       bool                  `yaml:"hold"`
	Ghost      bool                  `yaml:"ghost"`
	ComboReset bool                  `yaml:"combo_reset"`
	StartLevel int                   `yaml:"start_level"`
}

// DifficultyConfig selects a preset and whether levels advance.
type DifficultyConfig struct {
	Preset      DifficultyPreset `yaml:"preset,omitempty"`
	Progression bool             `yaml:"progression"`
}

// ColorsConfig defines per-piece colors.
type ColorsConfig struct {
	Piece  KindColors `yaml:"piece"`
	Ghost  KindColors `yaml:"ghost"`
	Border core.Color `yaml:"border"`
}

// KindColors assigns a color to each piece kind.
type KindColors struct {
	I core.Color `yaml:"i"`
	J core.Color `yaml:"j"`
	L core.Color `yaml:"l"`
	O core.Color `yaml:"o"`
	S core.Color `yaml:"s"`
	T core.Color `yaml:"t"`
	Z core.Color `yaml:"z"`
}

// Table returns the colors indexed by kind.
func (c KindColors) Table() [playfield.KindCount]core.Color {
	return [playfield.KindCount]core.Color{
		playfield.KindI: c.I,
		playfield.KindJ: c.J,
		playfield.KindL: c.L,
		playfield.KindO: c.O,
		playfield.KindS: c.S,
		playfield.KindT: c.T,
		playfield.KindZ: c.Z,
	}
}

// SprintConfig defines the sprint mode goal.
type SprintConfig struct {
	TargetLines int `yaml:"target_lines"`
}

// maxPreviews is the shortest bag length; the board cannot look further ahead.
const maxPreviews = 7

// Validate checks the configuration for values the game cannot run with.
func (c GameConfig) Validate() error {
	switch {
	case c.Timing.SoftDropHoldMS < 0:
		return fmt.Errorf("config: timing.soft_drop_hold_ms must not be negative, got %d", c.Timing.SoftDropHoldMS)
	case c.Timing.DefaultTickDelayMS <= 0:
		return fmt.Errorf("config: timing.default_tick_delay_ms must be positive, got %d", c.Timing.DefaultTickDelayMS)
	case len(c.Timing.TickDelayMS) == 0:
		return fmt.Errorf("config: timing.tick_delay_ms must have at least one level")
	case c.Rules.Previews < 0 || c.Rules.Previews > maxPreviews:
		return fmt.Errorf("config: rules.previews must be between 0 and %d, got %d", maxPreviews, c.Rules.Previews)
	case c.Sprint.TargetLines < 1:
		return fmt.Errorf("config: sprint.target_lines must be positive, got %d", c.Sprint.TargetLines)
	}
	for level, ms := range c.Timing.TickDelayMS {
		if level < 1 || ms <= 0 {
			return fmt.Errorf("config: timing.tick_delay_ms entry %d: %d is invalid", level, ms)
		}
	}
	if c.Difficulty.Preset != "" {
		if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
			return err
		}
	}
	if err := c.Playfield().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Playfield converts the configuration into the board's own settings.
func (c GameConfig) Playfield() playfield.Config {
	delays := playfield.NewDelayTable(msToDuration(c.Timing.DefaultTickDelayMS))
	for level, ms := range c.Timing.TickDelayMS {
		delays.Set(level, msToDuration(ms))
	}

	return playfield.Config{
		Width:          c.Board.Width,
		Height:         c.Board.Height,
		LockDelay:      c.Timing.LockDelay,
		LockReset:      c.Timing.LockReset,
		MaxLockResets:  c.Timing.MaxLockResets,
		SoftDropFactor: c.Timing.SoftDropFactor,
		Delays:         delays,
		Bag:            c.Rules.Bag,
		StartLevel:     c.Rules.StartLevel,
		Progression:    c.Difficulty.Progression,
		ComboReset:     c.Rules.ComboReset,
		HoldEnabled:    c.Rules.Hold,
	}
}

// SoftDropHold returns how long a single soft drop key press keeps soft drop on.
func (c GameConfig) SoftDropHold() time.Duration {
	return msToDuration(c.Timing.SoftDropHoldMS)
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
