// termtris is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	termtris play [mode]     - Play a mode (default: marathon)
//	termtris menu            - Pick modes interactively
//	termtris list            - List available modes
//	termtris config show     - Print the effective configuration
//	termtris config path     - Print where configuration is searched for
//	termtris config init     - Write the default configuration file
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--config <path>    - Use this config file instead of searching
//	--log-file <path>  - Log file (default: ~/.termtris/termtris.log)
//	--debug            - Log every piece lock
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/termtris/internal/config"
	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"

	// Import modes to register them
	_ "github.com/vovakirdan/termtris/internal/games/tetris"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagConfig  string
	flagLogFile string
	flagDebug   bool

	// Game flags shared by play and menu
	flagBag        string
	flagLevel      int
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "termtris",
	Short: "termtris - falling blocks in your terminal",
	Long: `termtris is a falling-block puzzle game for the terminal with
SRS rotation, hold, previews, T-spins and back-to-back bonuses.

Available commands:
  play     - Play a mode directly
  menu     - Interactive mode picker
  list     - Show all available modes
  config   - Inspect the configuration

Examples:
  termtris play
  termtris play sprint --seed 42
  termtris menu --difficulty hard
  termtris config show`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.termtris/termtris.log", "Path to the log file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(configCmd)
}

// addGameFlags registers the flags that change gameplay rules.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBag, "bag", "", "Randomizer: seven, fourteen, classic, pairs")
	cmd.Flags().IntVar(&flagLevel, "level", 0, "Start level (0 = from config)")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// openLogger creates the file logger. The TUI owns the terminal, so nothing
// is logged to stdout or stderr while a game runs.
func openLogger() (*log.Logger, func(), error) {
	path, err := expandHome(flagLogFile)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "termtris",
		Level:           log.InfoLevel,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { f.Close() }, nil
}

// loadGameConfig resolves the config file and applies the game flags on top.
func loadGameConfig(logger *log.Logger) (config.GameConfig, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	logger.Info("config loaded", "source", source)

	if flagBag != "" {
		bag, err := playfield.ParseBagStrategy(flagBag)
		if err != nil {
			return config.GameConfig{}, err
		}
		cfg.Rules.Bag = bag
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return config.GameConfig{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	// An explicit level wins over the preset's start level.
	if flagLevel != 0 {
		cfg.Rules.StartLevel = flagLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.GameConfig{}, err
	}
	return cfg, nil
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// fail prints an error and exits.
func fail(logger *log.Logger, msg string, err error) {
	if logger != nil {
		logger.Error(msg, "error", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
