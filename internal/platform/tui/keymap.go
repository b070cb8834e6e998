package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// PreviewKeyMap defines the key bindings for the preview.
// The only input the preview accepts is a stop request.
type PreviewKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PreviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PreviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// DefaultPreviewKeyMap returns default key bindings.
func DefaultPreviewKeyMap() PreviewKeyMap {
	return PreviewKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "stop"),
		),
	}
}

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up            key.Binding
	Down          key.Binding
	NextEvaluator key.Binding
	PrevEvaluator key.Binding
	Quit          key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextEvaluator, k.PrevEvaluator, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextEvaluator, k.PrevEvaluator, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextEvaluator: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next evaluator"),
		),
		PrevEvaluator: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev evaluator"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
