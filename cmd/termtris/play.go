package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/termtris/internal/platform/tui"
	"github.com/vovakirdan/termtris/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode (marathon when omitted).

Controls:
  Left/Right, A/D, H/L  - Move
  Up, W, K, X           - Rotate clockwise
  Z                     - Rotate counter-clockwise
  Down, S, J            - Soft drop
  Space                 - Hard drop
  C                     - Hold
  P/Esc                 - Pause
  R                     - Restart (after game over)
  Q/Ctrl+C              - Quit

Difficulty options:
  easy   - Start at level 1
  normal - Start at level 5
  hard   - Start at level 10
  fixed  - No level progression

Examples:
  termtris play
  termtris play sprint
  termtris play --difficulty hard --bag classic
  termtris play marathon --level 8 --config ./my-termtris.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := "marathon"
	if len(args) > 0 {
		modeID = args[0]
	}

	// Check if mode exists
	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'termtris list' to see available modes.")
		os.Exit(1)
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		fail(nil, "cannot start logging", err)
	}
	defer closeLog()

	cfg, err := loadGameConfig(logger)
	if err != nil {
		fail(logger, "invalid configuration", err)
	}

	game, err := registry.Create(modeID, cfg)
	if err != nil {
		fail(logger, "cannot create mode", err)
	}

	session, err := tui.Run(game, runtimeConfig(), logger)
	if err != nil {
		fail(logger, "game crashed", err)
	}

	for _, r := range session.Results {
		fmt.Printf("%s: score %d, %d lines, level %d\n", r.Title, r.Score, r.Lines, r.Level)
	}
}
