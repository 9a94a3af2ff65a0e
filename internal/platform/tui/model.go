package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gopongai/gopong/internal/core"
	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/storage"
)

// Model is the Bubble Tea model for an interactive match.
// It owns the screen buffer and drives an already constructed game;
// every finished game is written to the store when one is configured.
type Model struct {
	game       *game.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	p1Type     string
	p2Type     string
	inputFrame core.InputFrame
	snapshot   game.Snapshot
	quitting   bool
	savedGames int // Finished games already written to storage
}

// NewModel creates a new Bubble Tea model around a prepared game.
// p1Type and p2Type label the paddles for match history rows
// (storage.PlayerHuman or storage.PlayerAI).
func NewModel(g *game.Game, store *storage.Store, cfg core.RuntimeConfig, p1Type, p2Type string) Model {
	km := NewKeyMapper()
	km.TwoPlayer = p2Type == storage.PlayerHuman

	return Model{
		game:       g,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  km,
		p1Type:     p1Type,
		p2Type:     p2Type,
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
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
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events. The simulation runs in
// fixed field units, so a resize only adjusts the screen buffer and the
// next render rescales.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.game.Step(m.inputFrame)
	m.snapshot = m.game.Snapshot()

	// Record each finished game once
	if m.snapshot.GamesCompleted > m.savedGames {
		m.saveMatch()
		m.savedGames = m.snapshot.GamesCompleted
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveMatch writes the just finished game to storage.
func (m *Model) saveMatch() {
	if m.store == nil || !m.snapshot.HasWinner {
		return
	}

	//nolint:errcheck // Best-effort save, play continues regardless
	m.store.SaveMatch(storage.MatchResult{
		P1Type:        m.p1Type,
		P2Type:        m.p2Type,
		Score1:        m.snapshot.Score1,
		Score2:        m.snapshot.Score2,
		Winner:        m.snapshot.Winner,
		LeftHits:      m.snapshot.LeftHits,
		RightHits:     m.snapshot.RightHits,
		DurationTicks: m.snapshot.Tick,
	})
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".gopong", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("pong_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for an interactive match and blocks
// until the user quits.
func Run(g *game.Game, store *storage.Store, cfg core.RuntimeConfig, p1Type, p2Type string) error {
	model := NewModel(g, store, cfg, p1Type, p2Type)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
