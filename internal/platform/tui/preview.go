// Package tui provides the Bubble Tea front ends of fbmandel: a terminal
// preview of the render pipeline and a browser for the render history.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fbmandel/internal/app"
	"github.com/vovakirdan/fbmandel/internal/config"
	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display"
	"github.com/vovakirdan/fbmandel/internal/display/memsurface"
	"github.com/vovakirdan/fbmandel/internal/lifecycle"
	"github.com/vovakirdan/fbmandel/internal/render"
)

// Rows reserved below the image for the status and help lines.
const chromeRows = 2

// Frame is one rendered preview.
type Frame struct {
	View     string
	Geometry core.Geometry
	Layout   core.Layout
	Stats    render.Stats
	Err      error
}

// frameMsg carries a finished preview frame.
type frameMsg Frame

// stopMsg is sent once the lifecycle enters Stopping.
type stopMsg struct{}

// PreviewModel is the Bubble Tea model showing one rendered frame.
type PreviewModel struct {
	cfg     config.Config
	lc      *lifecycle.Lifecycle
	history app.HistoryStore
	logger  *log.Logger

	spinner   spinner.Model
	help      help.Model
	keys      PreviewKeyMap
	width     int
	height    int
	rendering bool
	pending   bool // A resize arrived while rendering
	recorded  bool // A frame of this run is in the history
	frame     Frame
	quitting  bool
}

// NewPreviewModel creates a preview for the configuration.
// A nil history disables recording.
func NewPreviewModel(cfg config.Config, lc *lifecycle.Lifecycle, history app.HistoryStore, logger *log.Logger) PreviewModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return PreviewModel{
		cfg:     cfg,
		lc:      lc,
		history: history,
		logger:  logger,
		spinner: s,
		help:    help.New(),
		keys:    DefaultPreviewKeyMap(),
	}
}

// Init starts the spinner and waits for a stop request.
func (m PreviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitStop(m.lc))
}

func waitStop(lc *lifecycle.Lifecycle) tea.Cmd {
	return func() tea.Msg {
		<-lc.Done()
		return stopMsg{}
	}
}

// Update handles messages and updates the model state.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.lc.RequestStop()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.rendering {
			m.pending = true
			return m, nil
		}
		m.rendering = true
		return m, tea.Batch(m.renderCmd(), m.spinner.Tick)

	case frameMsg:
		m.frame = Frame(msg)
		m.rendering = false
		if msg.Err == nil && msg.Stats.Written > 0 {
			m.recorded = true
		}
		if msg.Err != nil {
			m.logger.Error("preview render failed", "err", msg.Err)
		}
		if m.pending && !m.lc.Stopping() {
			m.pending = false
			m.rendering = true
			return m, tea.Batch(m.renderCmd(), m.spinner.Tick)
		}
		return m, nil

	case stopMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.rendering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// PreviewGeometry returns the pixel geometry that fills a terminal of the
// given size, two pixel rows per cell.
func PreviewGeometry(width, height int) core.Geometry {
	rows := max(height-chromeRows, 1)
	w := max(width, 1)
	return core.Geometry{Width: w, Height: rows * 2, Stride: w, BytesPerPixel: 4}
}

// renderCmd runs the full pipeline against an in-memory surface sized to
// the terminal. Each pass is its own session with its own resources.
// Only the first presented frame of a run is recorded in the history;
// renders are serialized, so later passes see recorded set.
func (m PreviewModel) renderCmd() tea.Cmd {
	cfg := m.cfg
	cfg.Device = "preview"
	cfg.ClearOnExit = false
	g := PreviewGeometry(m.width, m.height)
	stop := m.lc
	var history app.HistoryStore
	if !m.recorded {
		history = m.history
	}
	logger := m.logger

	return func() tea.Msg {
		if stop.Stopping() {
			return frameMsg{Geometry: g}
		}
		return frameMsg(RenderPreview(cfg, g, history, logger))
	}
}

// RenderPreview renders one frame into a fresh in-memory surface and
// returns it as terminal output.
func RenderPreview(cfg config.Config, g core.Geometry, history app.HistoryStore, logger *log.Logger) Frame {
	dev := memsurface.New(cfg.Device, g, core.LayoutARGB)
	s, err := app.Acquire(app.Options{
		Config:  cfg,
		Open:    func(string) (display.Device, error) { return dev, nil },
		History: history,
		Logger:  logger,
	})
	if err != nil {
		return Frame{Geometry: g, Err: err}
	}
	stats, err := s.Draw()
	layout := s.Layout()
	if cerr := s.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return Frame{Geometry: g, Layout: layout, Err: err}
	}
	return Frame{
		View:     RenderSurface(dev, layout),
		Geometry: g,
		Layout:   layout,
		Stats:    stats,
	}
}

// View renders the frame with a status line and help.
func (m PreviewModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	switch {
	case m.rendering:
		b.WriteString(fmt.Sprintf("%s Rendering %s...", m.spinner.View(), m.cfg.Evaluator))
		b.WriteString("\n")
	case m.frame.Err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		b.WriteString(errStyle.Render("Error: " + m.frame.Err.Error()))
		b.WriteString("\n")
	case m.frame.View != "":
		b.WriteString(m.frame.View)
		b.WriteString("\n")
		st := m.frame.Stats
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s | %s | %s | %d/%d members | %s",
			m.cfg.Evaluator, m.cfg.Policy, m.frame.Geometry, st.Members, st.Written, st.Duration.Round(time.Microsecond))))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunPreview starts the Bubble Tea preview and returns once the lifecycle
// stops.
func RunPreview(cfg config.Config, lc *lifecycle.Lifecycle, history app.HistoryStore, logger *log.Logger) error {
	model := NewPreviewModel(cfg, lc, history, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
