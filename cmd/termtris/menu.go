package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/termtris/internal/config"
	"github.com/vovakirdan/termtris/internal/platform/tui"
	"github.com/vovakirdan/termtris/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start termtris with a mode picker menu",
	Long: `Start termtris in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to pick a difficulty and
Enter to play. Press B after a game ends to return to the menu, and Tab in
the menu to see the results of this session.

Examples:
  termtris menu
  termtris menu --fps 30
  termtris menu --difficulty normal`,
	Run: runMenu,
}

func init() {
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog, err := openLogger()
	if err != nil {
		fail(nil, "cannot start logging", err)
	}
	defer closeLog()

	base, err := loadGameConfig(logger)
	if err != nil {
		fail(logger, "invalid configuration", err)
	}

	rc := runtimeConfig()
	preset := base.Difficulty.Preset
	var results []tui.Result

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(rc, preset, len(results))
		if err != nil {
			logger.Error("menu failed", "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		rc = menuResult.Config
		preset = menuResult.Preset

		if menuResult.Quit {
			break
		}

		if menuResult.WantsResults {
			goBack, err := tui.RunResults(results, rc.ScreenW, rc.ScreenH)
			if err != nil {
				logger.Error("results failed", "error", err)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from results
		}

		cfg := base
		if preset != "" && preset != base.Difficulty.Preset {
			config.ApplyPreset(&cfg, preset)
		}

		game, err := registry.Create(menuResult.ModeID, cfg)
		if err != nil {
			logger.Error("cannot create mode", "mode", menuResult.ModeID, "error", err)
			continue
		}

		session, err := tui.Run(game, rc, logger)
		if err != nil {
			logger.Error("game crashed", "mode", menuResult.ModeID, "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		results = append(results, session.Results...)

		if !session.Back {
			break // User quit from the game
		}
	}
}
