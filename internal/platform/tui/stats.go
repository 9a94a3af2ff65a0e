package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/storage"
)

// maxHistoryRows caps how many matches the history table loads.
const maxHistoryRows = 100

// StatsKeyMap defines the key bindings for the match history screen.
type StatsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsModel is the Bubble Tea model for the match history screen.
type StatsModel struct {
	store     *storage.Store
	stats     *storage.Stats
	matches   []storage.MatchResult
	table     table.Model
	help      help.Model
	keys      StatsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewStatsModel creates a new match history model.
func NewStatsModel(store *storage.Store, width, height int) StatsModel {
	keys := DefaultStatsKeyMap()
	h := help.New()
	h.ShowAll = false

	m := StatsModel{
		store:  store,
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}

	m.table = m.createTable()
	m.loadHistory()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Players", Width: 14},
		{Title: "Score", Width: 9},
		{Title: "Winner", Width: 7},
		{Title: "Hits", Width: 6},
		{Title: "Date", Width: 14},
	}

	height := m.height - 10 // Leave room for title, summary, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadHistory loads the recent matches and aggregate stats.
func (m *StatsModel) loadHistory() {
	if m.store == nil {
		m.matches = nil
		m.stats = nil
		m.updateTableRows()
		return
	}

	matches, err := m.store.RecentMatches(maxHistoryRows)
	if err != nil {
		m.matches = nil
	} else {
		m.matches = matches
	}

	stats, err := m.store.MatchStats()
	if err != nil {
		m.stats = nil
	} else {
		m.stats = stats
	}

	m.updateTableRows()
}

// updateTableRows updates the table with current matches.
func (m *StatsModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, match := range m.matches {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%s vs %s", match.P1Type, match.P2Type),
			fmt.Sprintf("%d - %d", match.Score1, match.Score2),
			winnerLabel(match.Winner),
			fmt.Sprintf("%d", match.LeftHits+match.RightHits),
			match.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// winnerLabel names the winning paddle for display.
func winnerLabel(side game.Side) string {
	if side == game.SideLeft {
		return "P1"
	}
	return "P2"
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the match history screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the match history screen.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText("MATCH HISTORY", m.width)))
	b.WriteString("\n\n")

	// Aggregate summary
	if line := m.summaryLine(); line != "" {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n\n")
	}

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// summaryLine condenses the aggregate stats into one line.
func (m StatsModel) summaryLine() string {
	if m.stats == nil || m.stats.Matches == 0 {
		return ""
	}

	s := m.stats
	line := fmt.Sprintf("%d matches  |  P1 %d wins, P2 %d wins  |  avg score %.1f - %.1f",
		s.Matches, s.P1Wins, s.P2Wins, s.AvgScore1, s.AvgScore2)
	if s.RecordedPoints > 0 {
		line += fmt.Sprintf("  |  %d recorded rallies", s.RecordedPoints)
	}
	return line
}

// renderTableContent renders the table or an empty message.
func (m StatsModel) renderTableContent() string {
	if len(m.matches) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No matches recorded yet.\nPlay a match to fill the history!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the match history screen as a standalone program.
// Returns true if the user backed out rather than quitting.
func RunStats(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewStatsModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(StatsModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
