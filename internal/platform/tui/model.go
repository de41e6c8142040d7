package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/registry"
)

// Sized is implemented by modes that know the smallest screen they fit on.
// The model uses it to decide whether the help bar fits below the game.
type Sized interface {
	MinSize() (w, h int)
}

// Resizer is implemented by modes that can adapt to a new screen size
// without restarting. Other modes are reset on resize.
type Resizer interface {
	Resize(w, h int)
}

// Result is the outcome of one finished game.
type Result struct {
	Mode    string
	Title   string
	Score   int
	Lines   int
	Level   int
	Elapsed time.Duration
	Won     bool
	EndedAt time.Time
}

// Session is returned by Run once the program exits.
type Session struct {
	Results []Result // Finished games, oldest first
	Back    bool     // The player asked to return to the menu
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a game mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	fixedSeed  bool // Restarts reuse the seed given on the command line
	keys       KeyMap
	help       help.Model
	showHelp   bool
	logger     *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	results    []Result
	recorded   bool // Whether the current game over has been recorded
	quitting   bool
	back       bool
}

// NewModel creates a new Bubble Tea model for the given game.
// cfg holds the full terminal size; a nil logger discards output.
func NewModel(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fixed := cfg.Seed != 0
	// Use time-based seed if not specified
	if !fixed {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		config:     cfg,
		fixedSeed:  fixed,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		logger:     logger,
		inputFrame: core.NewInputFrame(),
	}
	m.layout(cfg.ScreenW, cfg.ScreenH)
	m.screen = core.NewScreen(m.config.ScreenW, m.config.ScreenH)
	return m
}

// layout splits the terminal between the game screen and the help bar.
func (m *Model) layout(width, height int) {
	gameH := height
	m.showHelp = false
	if s, ok := m.game.(Sized); ok {
		if _, minH := s.MinSize(); height-1 >= minH {
			gameH = height - 1
			m.showHelp = true
		}
	}
	m.config.ScreenW = width
	m.config.ScreenH = gameH
	m.help.Width = width
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Info("session start", "mode", m.game.ID(), "seed", m.config.Seed, "fps", m.config.TickRate)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.logger.Info("session end", "mode", m.game.ID(), "games", len(m.results))
		return m, tea.Quit

	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.gameState.GameOver || m.gameState.Paused {
			m.back = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
		return m, nil
	}

	m.inputFrame.Set(m.keys.Action(msg))
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.layout(msg.Width, msg.Height)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)

	if r, ok := m.game.(Resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}

	// Modes without Resize start over with the new dimensions.
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.fixedSeed {
			m.config.Seed = time.Now().UnixNano()
		}
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.recorded = false
		m.inputFrame.Clear()
		m.logger.Info("game restart", "mode", m.game.ID(), "seed", m.config.Seed)
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	for _, ev := range result.Events {
		m.logEvent(ev)
	}

	// Record the result on game over (once)
	if m.gameState.GameOver && !m.recorded {
		m.record()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// logEvent writes a game event to the log. Locks are only interesting when
// debugging; level ups and endings are kept at info.
func (m *Model) logEvent(ev string) {
	switch {
	case strings.HasPrefix(ev, "level"),
		strings.HasPrefix(ev, "game over"),
		strings.HasPrefix(ev, "sprint"):
		m.logger.Info(ev, "mode", m.game.ID())
	default:
		m.logger.Debug(ev, "mode", m.game.ID())
	}
}

// record appends the finished game to the session results.
func (m *Model) record() {
	st := m.gameState
	r := Result{
		Mode:    m.game.ID(),
		Title:   m.game.Title(),
		Score:   st.Score,
		Lines:   st.Lines,
		Level:   st.Level,
		Elapsed: st.Elapsed,
		Won:     st.Won,
		EndedAt: time.Now(),
	}
	m.results = append(m.results, r)
	m.recorded = true
	m.logger.Info("game finished",
		"mode", r.Mode, "score", r.Score, "lines", r.Lines,
		"level", r.Level, "elapsed", r.Elapsed.Round(time.Millisecond), "won", r.Won)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".termtris", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// Results returns the games finished so far.
func (m Model) Results() []Result {
	return m.results
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)
	out := RenderScreen(m.screen)
	if m.showHelp {
		out += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return out
}

// Run starts the Bubble Tea program for one mode and returns the session
// once the player quits or goes back to the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) (Session, error) {
	model := NewModel(game, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return Session{}, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Session{}, nil
	}
	return Session{Results: m.Results(), Back: m.back}, nil
}
