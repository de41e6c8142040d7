package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/termtris/internal/config"
	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/registry"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	ModeID  string
	Title   string
	Summary string
}

// presetChoices lists the difficulty options in menu order.
// The empty preset keeps whatever the config file says.
var presetChoices = append([]config.DifficultyPreset{""}, config.Presets()...)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	preset      int // Index into presetChoices
	finished    int // Games finished this session
	width       int
	height      int
	config      core.RuntimeConfig
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *MenuItem // Set when user selects a mode
	openResults bool      // True if user pressed Tab for results
}

// NewMenuModel creates a new menu model. preset preselects a difficulty and
// finished is the number of games shown in the results table.
func NewMenuModel(cfg core.RuntimeConfig, preset config.DifficultyPreset, finished int) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes))
	for _, g := range modes {
		items = append(items, MenuItem{ModeID: g.ID, Title: g.Title, Summary: g.Summary})
	}

	m := MenuModel{
		items:    items,
		finished: finished,
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
		config:   cfg,
		keys:     DefaultMenuKeyMap(),
		help:     help.New(),
	}
	for i, p := range presetChoices {
		if p == preset {
			m.preset = i
		}
	}
	m.help.Width = cfg.ScreenW
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		if m.preset > 0 {
			m.preset--
		}

	case key.Matches(msg, m.keys.Right):
		if m.preset < len(presetChoices)-1 {
			m.preset++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case key.Matches(msg, m.keys.Results):
		m.openResults = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("T E R M T R I S", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuSelectedStyle.Render(centerText("> "+item.Title, m.width))
		} else {
			line = centerText(line, m.width)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(menuDimStyle.Render(centerText(m.items[m.cursor].Summary, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", presetLabel(m.Preset())), m.width))
	b.WriteString("\n")
	if m.finished > 0 {
		b.WriteString(menuDimStyle.Render(centerText(fmt.Sprintf("%d games this session", m.finished), m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}

// presetLabel names a difficulty choice for display.
func presetLabel(p config.DifficultyPreset) string {
	if p == "" {
		return "config"
	}
	return string(p)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the chosen difficulty; empty means the config's own.
func (m MenuModel) Preset() config.DifficultyPreset {
	return presetChoices[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults returns true if user requested the results table.
func (m MenuModel) WantsResults() bool {
	return m.openResults
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	ModeID       string
	Preset       config.DifficultyPreset
	Config       core.RuntimeConfig
	WantsResults bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, preset config.DifficultyPreset, finished int) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg, preset, finished),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, fmt.Errorf("tui: %w", err)
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
		Preset: m.Preset(),
	}

	switch {
	case m.WantsResults():
		result.WantsResults = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.ModeID = m.Selected().ModeID
	}
	return result, nil
}
