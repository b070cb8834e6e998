// Package app wires the render pipeline: it acquires the display, renders
// one frame, presents it, waits for a stop request and releases everything
// in reverse order.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fbmandel/internal/config"
	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display"
	"github.com/vovakirdan/fbmandel/internal/lifecycle"
	"github.com/vovakirdan/fbmandel/internal/palette"
	"github.com/vovakirdan/fbmandel/internal/platform/term"
	"github.com/vovakirdan/fbmandel/internal/registry"
	"github.com/vovakirdan/fbmandel/internal/render"
	"github.com/vovakirdan/fbmandel/internal/storage"
)

// HistoryStore records completed renders.
type HistoryStore interface {
	SaveRender(r storage.RenderRecord) (int64, error)
}

// Options configures a session.
type Options struct {
	Config    config.Config
	Open      display.Opener
	Lifecycle *lifecycle.Lifecycle // Created when nil
	Terminal  *term.Terminal       // Optional
	History   HistoryStore         // Optional
	Logger    *log.Logger          // Optional
}

// Session holds the resources of one render session.
type Session struct {
	cfg       config.Config
	device    display.Device
	surface   display.Surface
	geometry  core.Geometry
	layout    core.Layout
	evaluator registry.Evaluator
	encoder   *palette.Encoder
	presenter *render.Presenter
	lc        *lifecycle.Lifecycle
	term      *term.Terminal
	history   HistoryStore
	logger    *log.Logger
	presented bool
}

// Result summarizes a finished session.
type Result struct {
	Geometry  core.Geometry
	Layout    core.Layout
	Stats     render.Stats
	Presented bool
}

// Acquire opens and maps the display, allocates the frame buffer and
// prepares the terminal. Every acquired resource is recorded with the
// lifecycle; on failure everything acquired so far is released before the
// error is returned.
func Acquire(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Lifecycle == nil {
		opts.Lifecycle = lifecycle.New(opts.Logger)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ev, err := registry.Create(cfg.Evaluator)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	s := &Session{
		cfg:       cfg,
		evaluator: ev,
		lc:        opts.Lifecycle,
		term:      opts.Terminal,
		history:   opts.History,
		logger:    opts.Logger,
	}
	if err := s.acquire(opts.Open); err != nil {
		if cerr := s.lc.Cleanup(); cerr != nil {
			s.logger.Warn("cleanup after failed setup", "err", cerr)
		}
		return nil, err
	}
	return s, nil
}

func (s *Session) acquire(open display.Opener) error {
	path := s.cfg.Device

	dev, err := open(path)
	if err != nil {
		return &AcquisitionError{Stage: "open", Device: path, Err: err}
	}
	s.device = dev
	if err := s.hold("device", dev.Close); err != nil {
		return err
	}

	g, err := dev.Geometry()
	if err != nil {
		return &AcquisitionError{Stage: "geometry", Device: path, Err: err}
	}
	if err := g.Validate(); err != nil {
		return &AcquisitionError{Stage: "geometry", Device: path, Err: err}
	}
	s.geometry = g

	reported, ok := dev.Layout()
	layout, err := s.cfg.ResolveLayout(reported, ok)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	s.layout = layout
	opts, err := s.cfg.PaletteOptions(layout)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if s.encoder, err = palette.New(opts); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	surface, err := dev.Map()
	if err != nil {
		return &AcquisitionError{Stage: "map", Device: path, Err: err}
	}
	s.surface = surface
	if err := s.hold("mapping", dev.Unmap); err != nil {
		return err
	}
	if s.cfg.ClearOnExit {
		if err := s.hold("blank", s.blank); err != nil {
			return err
		}
	}

	s.logger.Info("display acquired",
		"device", path,
		"width", g.Width,
		"height", g.Height,
		"stride", g.Stride,
		"layout", layout.String(),
		"reported", ok,
	)

	p, err := render.NewPresenter(g, s.logger)
	if err != nil {
		return err
	}
	s.presenter = p
	if err := s.hold("buffer", p.Release); err != nil {
		return err
	}

	if s.term != nil {
		s.logger.Debug("terminal", "interactive", s.term.Interactive())
		if s.cfg.Terminal.HideCursor {
			if err := s.term.HideCursor(); err != nil {
				s.logger.Warn("cannot hide cursor", "err", err)
			}
			if err := s.hold("cursor", s.term.ShowCursor); err != nil {
				return err
			}
		}
		if s.cfg.Terminal.ClearScreen {
			if err := s.term.ClearScreen(); err != nil {
				s.logger.Warn("cannot clear screen", "err", err)
			}
		}
	}
	return nil
}

// hold records a resource with the lifecycle. If the lifecycle no longer
// accepts resources, the resource is released at once and the error returned.
func (s *Session) hold(name string, release func() error) error {
	err := s.lc.Acquired(name, release)
	if err == nil {
		return nil
	}
	if rerr := release(); rerr != nil {
		s.logger.Warn("release failed", "name", name, "err", rerr)
	}
	return fmt.Errorf("app: hold %s: %w", name, err)
}

// blank zeroes the display only if a frame reached it.
func (s *Session) blank() error {
	if !s.presented {
		return nil
	}
	return render.Blank(s.surface)
}

// Geometry returns the acquired display geometry.
func (s *Session) Geometry() core.Geometry {
	return s.geometry
}

// Layout returns the channel layout in use.
func (s *Session) Layout() core.Layout {
	return s.layout
}

// Lifecycle returns the session lifecycle.
func (s *Session) Lifecycle() *lifecycle.Lifecycle {
	return s.lc
}

// Draw renders one frame and presents it, unless a stop was requested
// before either step. A stopped session returns zero stats and no error.
func (s *Session) Draw() (render.Stats, error) {
	var stats render.Stats
	if s.lc.Stopping() {
		return stats, nil
	}
	stats, err := s.presenter.Render(s.cfg.RenderContext(s.geometry), s.evaluator, s.encoder)
	if err != nil {
		return stats, err
	}
	if s.lc.Stopping() {
		s.logger.Debug("stop requested before present")
		return stats, nil
	}
	if err := s.presenter.Present(s.surface); err != nil {
		return stats, err
	}
	s.presented = true
	s.logger.Info("frame presented",
		"evaluator", s.evaluator.ID(),
		"policy", string(s.encoder.Policy()),
		"members", stats.Members,
		"duration", stats.Duration,
	)
	s.record(stats)
	return stats, nil
}

// record saves the render to history. Failures are logged, never fatal.
func (s *Session) record(stats render.Stats) {
	if s.history == nil {
		return
	}
	v := s.cfg.Viewport
	_, err := s.history.SaveRender(storage.RenderRecord{
		Evaluator:     s.evaluator.ID(),
		Policy:        string(s.encoder.Policy()),
		Layout:        s.layout.String(),
		Device:        s.device.Name(),
		Region:        s.cfg.Region,
		Width:         s.geometry.Width,
		Height:        s.geometry.Height,
		MaxIterations: s.cfg.MaxIterations,
		DomainMin:     v.DomainMin,
		DomainMax:     v.DomainMax,
		RangeMin:      v.RangeMin,
		RangeMax:      v.RangeMax,
		Pixels:        stats.Written,
		Members:       stats.Members,
		Duration:      stats.Duration,
	})
	if err != nil {
		s.logger.Warn("cannot save render history", "err", err)
	}
}

// Close releases every resource of the session in reverse order.
func (s *Session) Close() error {
	s.logger.Debug("releasing session", "resources", s.lc.Held())
	return s.lc.Cleanup()
}

// Run acquires the display, draws one frame, then holds it on screen until
// a stop is requested or ctx ends, and finally releases everything.
func Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	s, err := Acquire(opts)
	if err != nil {
		return res, err
	}
	res.Geometry = s.geometry
	res.Layout = s.layout

	stats, err := s.Draw()
	res.Stats = stats
	res.Presented = s.presented
	if err != nil {
		if cerr := s.Close(); cerr != nil {
			s.logger.Warn("cleanup failed", "err", cerr)
		}
		return res, err
	}

	if !s.lc.Stopping() {
		s.logger.Info("holding frame, waiting for stop")
	}
	err = s.lc.Wait(ctx)
	s.logger.Debug("wait ended", "state", s.lc.State().String(), "err", err)
	return res, s.Close()
}
