package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/gopongai/gopong/internal/ai"
	"github.com/gopongai/gopong/internal/core"
	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gopong/host_key.
	HostKeyPath string

	// DBPath is the path to the match database.
	DBPath string

	// WeightsPath points at trained CPU weights. If empty or unreadable,
	// vs-CPU sessions get a freshly initialized player instead.
	WeightsPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// Game carries the rules every session plays under.
	Game game.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gopong/gopong.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        game.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server so remote users can play over SSH.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gopong-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gopong", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	tickRate := s.config.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: tickRate,
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, cfg, s.config.Game, sshSession.User(), s.config.WeightsPath)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: menu -> match or stats
// -> menu. This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	gameConfig  game.Config
	username    string
	weightsPath string
	menu        MenuModel
	gameModel   *GameModel
	statsModel  *StatsModel
	inGame      bool
	inStats     bool
	quitting    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, gameCfg game.Config, username, weightsPath string) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		gameConfig:  gameCfg,
		username:    username,
		weightsPath: weightsPath,
		menu:        NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.inGame && m.gameModel != nil:
		return m.updateGame(msg)
	case m.inStats && m.statsModel != nil:
		return m.updateStats(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Choice {
	case MenuChoiceStats:
		statsModel := NewStatsModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.statsModel = &statsModel
		m.inStats = true
		return m, m.statsModel.Init()

	case MenuChoiceVsCPU, MenuChoiceTwoPlayer:
		gameModel := m.newGameModel(selected.Choice)
		m.gameModel = &gameModel
		m.inGame = true
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// newGameModel builds a fresh match for the chosen mode.
func (m *SessionModel) newGameModel(choice MenuChoice) GameModel {
	cfg := m.gameConfig
	cfg.Seed = time.Now().UnixNano()

	p1 := game.NewHumanPlayer(core.ActionP1Up, core.ActionP1Down)

	var p2 game.Player
	p2Type := storage.PlayerHuman
	p2Label := "P2"
	if choice == MenuChoiceVsCPU {
		p2 = m.loadCPU(cfg)
		p2Type = storage.PlayerAI
		p2Label = "CPU"
	} else {
		p2 = game.NewHumanPlayer(core.ActionP2Up, core.ActionP2Down)
	}

	g := game.New(cfg, p1, p2)
	g.SetLabels("P1", p2Label)

	return NewGameModel(g, m.store, m.config, storage.PlayerHuman, p2Type)
}

// loadCPU loads trained weights for the session's CPU player, falling
// back to a freshly initialized one. Sessions never write weights back,
// so concurrent sessions cannot race on the file.
func (m *SessionModel) loadCPU(cfg game.Config) *ai.Player {
	if m.weightsPath != "" {
		if p, err := ai.LoadPlayer(m.weightsPath, cfg.GridW, cfg.GridH); err == nil {
			return p
		}
	}
	return ai.NewPlayer(cfg.GridW, cfg.GridH, ai.Options{Seed: cfg.Seed})
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user left the match (back to menu)
	if m.gameModel.BackToMenu() {
		m.inGame = false
		m.gameModel = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateStats handles updates when viewing match history.
func (m SessionModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.statsModel.Update(msg)
	if statsModel, ok := newModel.(StatsModel); ok {
		m.statsModel = &statsModel
	}

	if m.statsModel.IsGoingBack() {
		m.inStats = false
		m.statsModel = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	if m.statsModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.inGame && m.gameModel != nil:
		return m.gameModel.View()
	case m.inStats && m.statsModel != nil:
		return m.statsModel.View()
	}

	return m.menu.View()
}

// GameModel runs a match inside a session and adds a way back to the
// menu once the game is paused or decided.
type GameModel struct {
	model      Model
	backToMenu bool
}

// NewGameModel creates a session game model.
func NewGameModel(g *game.Game, store *storage.Store, cfg core.RuntimeConfig, p1Type, p2Type string) GameModel {
	return GameModel{
		model: NewModel(g, store, cfg, p1Type, p2Type),
	}
}

// Init starts the match.
func (m GameModel) Init() tea.Cmd {
	return m.model.Init()
}

// Update handles messages, checking for back-to-menu first.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// B or Esc leaves to the menu when the match is paused or over
		action := m.model.keyMapper.MapKeyToMenuAction(keyMsg)
		snap := m.model.snapshot
		over := snap.Phase == game.PhaseGameOver || snap.Phase == game.PhaseFinished
		if action == MenuActionBack && (over || snap.Paused) {
			m.backToMenu = true
			return m, nil
		}
	}

	inner, cmd := m.model.Update(msg)
	if mm, ok := inner.(Model); ok {
		m.model = mm
	}
	return m, cmd
}

// View renders the match.
func (m GameModel) View() string {
	return m.model.View()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.model.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
