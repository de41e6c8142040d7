package config

import (
	_ "embed"

	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
)

//go:embed defaults/termtris.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// DefaultGameConfig returns the default configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 24,
		},
		Timing: TimingConfig{
			LockDelay:          3,
			LockReset:          playfield.LockResetMove,
			MaxLockResets:      15,
			SoftDropFactor:     8,
			SoftDropHoldMS:     150,
			DefaultTickDelayMS: 800,
			TickDelayMS: map[int]int{
				1:  800,
				2:  717,
				3:  633,
				4:  550,
				5:  467,
				6:  383,
				7:  300,
				8:  217,
				9:  133,
				10: 100,
				13: 83,
				16: 67,
				19: 50,
				29: 33,
			},
		},
		Rules: RulesConfig{
			Bag:        playfield.BagSeven,
			Previews:   4,
			Hold:       true,
			Ghost:      true,
			ComboReset: true,
			StartLevel: 1,
		},
		Difficulty: DifficultyConfig{
			Progression: true,
		},
		Colors: ColorsConfig{
			Piece: KindColors{
				I: core.ColorBrightCyan,
				J: core.ColorBrightBlue,
				L: core.ColorOrange,
				O: core.ColorBrightYellow,
				S: core.ColorBrightGreen,
				T: core.ColorBrightMagenta,
				Z: core.ColorBrightRed,
			},
			Ghost: KindColors{
				I: core.ColorCyan,
				J: core.ColorBlue,
				L: core.ColorOrange,
				O: core.ColorYellow,
				S: core.ColorGreen,
				T: core.ColorMagenta,
				Z: core.ColorRed,
			},
			Border: core.ColorGray,
		},
		Sprint: SprintConfig{
			TargetLines: 40,
		},
	}
}
