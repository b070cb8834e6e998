// Package config provides YAML-based configuration loading and named
// viewport presets for fbmandel.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/palette"
)

// LayoutAuto selects the channel layout reported by the device.
const LayoutAuto = "auto"

// Config contains all configuration for a render session.
type Config struct {
	Device        string         `yaml:"device"`
	MaxIterations int            `yaml:"max_iterations"`
	Region        string         `yaml:"region"` // Named preset, overrides Viewport
	Viewport      core.Viewport  `yaml:"viewport"`
	Evaluator     string         `yaml:"evaluator"`
	Policy        string         `yaml:"policy"`
	Layout        string         `yaml:"layout"`
	Alpha         uint8          `yaml:"alpha"`
	Binary        BinaryColors   `yaml:"binary"`
	Terminal      TerminalConfig `yaml:"terminal"`
	ClearOnExit   bool           `yaml:"clear_on_exit"`
	History       HistoryConfig  `yaml:"history"`
	Log           LogConfig      `yaml:"log"`
}

// BinaryColors defines the two colors of the binary policy as hex strings.
type BinaryColors struct {
	Member  string `yaml:"member"`
	Escaped string `yaml:"escaped"`
}

// TerminalConfig controls the text console sharing the screen.
type TerminalConfig struct {
	HideCursor  bool `yaml:"hide_cursor"`
	ClearScreen bool `yaml:"clear_screen"`
}

// HistoryConfig controls the render history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks the configuration for values no session can run with.
func (c Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("config: device must be set")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Region != "" {
		if _, ok := RegionByName(c.Region); !ok {
			return fmt.Errorf("config: unknown region %q", c.Region)
		}
	}
	if err := c.Viewport.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := palette.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !isAutoLayout(c.Layout) {
		if _, err := core.ParseLayout(c.Layout); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if _, err := palette.ParseHex(c.Binary.Member); err != nil {
		return fmt.Errorf("config: binary.member: %w", err)
	}
	if _, err := palette.ParseHex(c.Binary.Escaped); err != nil {
		return fmt.Errorf("config: binary.escaped: %w", err)
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// ResolveLayout picks the channel layout for a device. An explicit layout
// wins; "auto" uses the device report, falling back to ARGB.
func (c Config) ResolveLayout(reported core.Layout, ok bool) (core.Layout, error) {
	if isAutoLayout(c.Layout) {
		if ok {
			return reported, nil
		}
		return core.LayoutARGB, nil
	}
	return core.ParseLayout(c.Layout)
}

// isAutoLayout reports whether the layout is left to the device.
// An empty layout means auto.
func isAutoLayout(layout string) bool {
	return layout == "" || strings.EqualFold(layout, LayoutAuto)
}

// PaletteOptions builds encoder options for the given layout.
func (c Config) PaletteOptions(layout core.Layout) (palette.Options, error) {
	opts := palette.DefaultOptions()
	policy, err := palette.ParsePolicy(c.Policy)
	if err != nil {
		return opts, err
	}
	member, err := palette.ParseHex(c.Binary.Member)
	if err != nil {
		return opts, fmt.Errorf("binary.member: %w", err)
	}
	escaped, err := palette.ParseHex(c.Binary.Escaped)
	if err != nil {
		return opts, fmt.Errorf("binary.escaped: %w", err)
	}
	opts.Policy = policy
	opts.Layout = layout
	opts.Alpha = c.Alpha
	opts.Member = member
	opts.Escaped = escaped
	return opts, nil
}

// RenderContext builds the immutable render parameters for a geometry.
func (c Config) RenderContext(g core.Geometry) core.RenderContext {
	return core.RenderContext{
		Viewport:      c.Viewport,
		Geometry:      g,
		MaxIterations: c.MaxIterations,
	}
}

// LogLevel returns the configured log level, or info when unset.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
