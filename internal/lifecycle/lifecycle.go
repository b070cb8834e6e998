// Package lifecycle tracks the running state of a render session and the
// resources it acquired. A stop request may come from any goroutine, and
// from a signal handler, at any time; resources are released exactly once,
// in reverse acquisition order.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/log"
)

// State is the run state of a session.
type State int

const (
	Running State = iota
	Stopping
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrCleanedUp is returned by Acquired after Cleanup has run.
var ErrCleanedUp = errors.New("lifecycle: resources already released")

type resource struct {
	name    string
	release func() error
}

// Lifecycle holds the stop flag and the stack of acquired resources.
type Lifecycle struct {
	stopping atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	resources []resource
	cleaned   bool

	logger *log.Logger
}

// New returns a Lifecycle in the Running state.
func New(logger *log.Logger) *Lifecycle {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Lifecycle{
		done:   make(chan struct{}),
		logger: logger,
	}
}

// State returns the current run state.
func (l *Lifecycle) State() State {
	if l.stopping.Load() {
		return Stopping
	}
	return Running
}

// Stopping reports whether a stop has been requested.
func (l *Lifecycle) Stopping() bool {
	return l.stopping.Load()
}

// RequestStop moves the session to Stopping. It is idempotent and safe to
// call from any goroutine.
func (l *Lifecycle) RequestStop() {
	l.stopOnce.Do(func() {
		l.stopping.Store(true)
		close(l.done)
		l.logger.Debug("stop requested")
	})
}

// Done is closed once a stop has been requested.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until a stop is requested or ctx ends. A cancelled context
// also counts as a stop request.
func (l *Lifecycle) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.RequestStop()
		return ctx.Err()
	}
}

// NotifySignals turns SIGINT and SIGTERM into a stop request.
// The returned function stops listening.
func (l *Lifecycle) NotifySignals() (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	quit := make(chan struct{})
	go func() {
		select {
		case s := <-sig:
			l.logger.Info("received signal", "signal", s.String())
			l.RequestStop()
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sig)
			close(quit)
		})
	}
}

// Acquired records a resource so Cleanup releases it. Resources are
// released in the reverse order they were recorded.
func (l *Lifecycle) Acquired(name string, release func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cleaned {
		return ErrCleanedUp
	}
	l.resources = append(l.resources, resource{name: name, release: release})
	l.logger.Debug("resource acquired", "name", name)
	return nil
}

// Held returns the names of the resources currently held, oldest first.
func (l *Lifecycle) Held() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.resources))
	for i, r := range l.resources {
		names[i] = r.name
	}
	return names
}

// Cleanup releases every recorded resource exactly once, newest first.
// A failing release does not stop the others; all failures are joined.
// Calls after the first are no-ops.
func (l *Lifecycle) Cleanup() error {
	l.mu.Lock()
	if l.cleaned {
		l.mu.Unlock()
		return nil
	}
	l.cleaned = true
	resources := l.resources
	l.resources = nil
	l.mu.Unlock()

	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		if err := r.release(); err != nil {
			l.logger.Warn("release failed", "name", r.name, "err", err)
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
			continue
		}
		l.logger.Debug("resource released", "name", r.name)
	}
	return errors.Join(errs...)
}
