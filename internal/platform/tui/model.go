package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

const maxNameLen = 24

var logger = log.New(io.Discard)

// SetLogger sets the logger used by the platform layer.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// matchReporter is implemented by games that can hand a finished duel
// to the match history.
type matchReporter interface {
	MatchReport() (engine.Report, []engine.Record, bool)
}

// Model is the Bubble Tea model that runs one game: ticks, key mapping,
// the rename dialog and saving the finished duel.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model

	renaming bool
	nameIn   textinput.Model
	status   string

	quitting   bool
	backToMenu bool
	matchSaved bool // finished duel already written for the current game over
}

// NewModel creates a model for the given game. A nil store disables
// match history.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	in := textinput.New()
	in.Prompt = "New name: "
	in.CharLimit = maxNameLen
	in.PromptStyle = promptStyle

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, boardHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		nameIn:     in,
	}
}

// boardHeight leaves one row for the footer.
func boardHeight(h int) int {
	return max(1, h-1)
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.renaming {
			return m.handleRenameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Turn-based state survives a resize; only the buffer changes.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, boardHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	if m.renaming {
		var cmd tea.Cmd
		m.nameIn, cmd = m.nameIn.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input while the board has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionBack:
		m.backToMenu = true
		return m, tea.Quit
	case core.ActionRename:
		return m.openRename()
	}
	m.inputFrame.Set(action)
	return m, nil
}

// openRename shows the name dialog if the game supports it.
func (m Model) openRename() (tea.Model, tea.Cmd) {
	r, ok := m.game.(registry.Renamer)
	if !ok || m.gameState.GameOver {
		return m, nil
	}
	m.renaming = true
	m.status = ""
	m.nameIn.SetValue(r.ActiveName())
	m.nameIn.CursorEnd()
	return m, m.nameIn.Focus()
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeRename()
		return m, nil
	case tea.KeyEnter:
		r, ok := m.game.(registry.Renamer)
		if !ok {
			m.closeRename()
			return m, nil
		}
		if err := r.RenameActive(m.nameIn.Value()); err != nil {
			m.status = friendlyError(err)
			logger.Debug("rename rejected", "game", m.game.ID(), "err", err)
			return m, nil
		}
		m.closeRename()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameIn, cmd = m.nameIn.Update(msg)
	return m, cmd
}

func (m *Model) closeRename() {
	m.renaming = false
	m.nameIn.Blur()
	m.nameIn.Reset()
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.matchSaved = false
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if !m.renaming {
		m.status = result.Message
	}

	if m.gameState.GameOver && !m.matchSaved {
		m.saveMatch()
		m.matchSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveMatch writes the finished duel to the store. Best effort: a failure
// is logged and the game continues.
func (m *Model) saveMatch() {
	if m.store == nil {
		return
	}
	rep, ok := m.game.(matchReporter)
	if !ok {
		return
	}
	report, journal, ok := rep.MatchReport()
	if !ok {
		return
	}
	res, err := m.store.SaveMatch(m.game.ID(), report, journal)
	if err != nil {
		logger.Warn("could not save match", "game", m.game.ID(), "err", err)
		return
	}
	logger.Info("match saved", "match", res.MatchID, "winner", res.Winner, "turns", res.Turns)
}

// saveScreenshot saves the current board to ~/.tanks/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tanks", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("could not create screenshot dir", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.status = "Saved " + path
}

// View renders the board and the footer line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var footer string
	switch {
	case m.renaming:
		footer = m.nameIn.View()
		if m.status != "" {
			footer += "  " + statusStyle.Render(m.status)
		}
	case m.status != "":
		footer = statusStyle.Render(m.status)
	default:
		footer = footerStyle.Render(m.help.View(m.keyMapper.Keys()))
	}
	return renderFrame(m.screen, footer)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// friendlyError strips package prefixes from an error for the footer.
func friendlyError(err error) string {
	msg := err.Error()
	if errors.Is(err, engine.ErrIllegalAction) {
		msg = strings.TrimPrefix(msg, engine.ErrIllegalAction.Error()+": ")
	}
	return strings.TrimPrefix(msg, "engine: ")
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
