package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fbmandel/internal/registry"
	"github.com/vovakirdan/fbmandel/internal/storage"
)

// History browser layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show evaluator sidebar
	sidebarWidth       = 24  // Width of evaluator sidebar
	maxRecords         = 100 // Max records to load
)

// HistoryReader loads render records.
type HistoryReader interface {
	RecentRenders(evaluator string, limit int) ([]storage.RenderRecord, error)
}

// filter is one entry of the evaluator selector. An empty ID shows all.
type filter struct {
	ID    string
	Title string
}

// HistoryModel is the Bubble Tea model for the render history browser.
type HistoryModel struct {
	filters     []filter
	cursor      int
	store       HistoryReader
	records     []storage.RenderRecord
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a new history browser.
func NewHistoryModel(store HistoryReader, width, height int) HistoryModel {
	filters := []filter{{ID: "", Title: "All evaluators"}}
	for _, e := range registry.List() {
		filters = append(filters, filter{ID: e.ID, Title: e.Title})
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		filters:     filters,
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRecords()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Evaluator", Width: 10},
		{Title: "Policy", Width: 6},
		{Title: "Size", Width: 10},
		{Title: "Iter", Width: 5},
		{Title: "Region", Width: 13},
		{Title: "Members", Width: 8},
		{Title: "Time", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

// loadRecords loads records for the selected evaluator.
func (m *HistoryModel) loadRecords() {
	m.records = nil
	m.loadErr = nil
	if m.store != nil {
		m.records, m.loadErr = m.store.RecentRenders(m.filters[m.cursor].ID, maxRecords)
	}
	m.table.SetRows(HistoryRows(m.records))
	m.table.GotoTop()
}

// HistoryRows formats records as table rows.
func HistoryRows(records []storage.RenderRecord) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		region := r.Region
		if region == "" {
			region = "-"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Evaluator,
			r.Policy,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			fmt.Sprintf("%d", r.MaxIterations),
			region,
			fmt.Sprintf("%d", r.Members),
			r.Duration.String(),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextEvaluator):
			m.cursor = (m.cursor + 1) % len(m.filters)
			m.loadRecords()
			return m, nil

		case key.Matches(msg, m.keys.PrevEvaluator):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.filters) - 1
			}
			m.loadRecords()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(HistoryRows(m.records))
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	title := fmt.Sprintf("RENDER HISTORY - %s", m.filters[m.cursor].Title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.filters[m.cursor].Title), m.width))
		b.WriteString("\n\n")
		b.WriteString(tableRendered)
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders the evaluator selector.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Evaluators\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, f := range m.filters {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := f.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	if m.loadErr != nil {
		return emptyStyle.Render("Cannot load history:\n" + m.loadErr.Error())
	}
	if len(m.records) == 0 {
		return emptyStyle.Render("No renders recorded yet.\nRun fbmandel render to add one!")
	}
	return m.table.View()
}

// Records returns the records currently shown.
func (m HistoryModel) Records() []storage.RenderRecord {
	return m.records
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}

// RunHistory runs the history browser.
func RunHistory(store HistoryReader, width, height int) error {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
