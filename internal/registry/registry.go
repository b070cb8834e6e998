// Package registry provides a global registry for per-pixel evaluators.
// Evaluators register themselves in init() functions, allowing the pipeline
// to select one by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/fbmandel/internal/core"
)

// Evaluator computes the escape result for a single point of the plane.
// Implementations must be pure: identical inputs always give identical results.
type Evaluator interface {
	// ID returns a unique identifier (e.g., "mandelbrot", "wheel").
	// Used for CLI flags, config files and render history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Evaluate returns the escape result of c under the iteration budget.
	Evaluate(c core.Point, maxIterations int) core.EscapeResult
}

// EvaluatorInfo contains metadata about a registered evaluator.
type EvaluatorInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new evaluator instance.
type Factory func() Evaluator

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an evaluator factory to the registry.
// Typically called from an evaluator's init() function.
// Panics if an evaluator with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: evaluator %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered evaluators, sorted by ID.
func List() []EvaluatorInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EvaluatorInfo, 0, len(factories))
	for id := range factories {
		result = append(result, EvaluatorInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new evaluator by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Evaluator, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown evaluator %q", id)
	}

	return f(), nil
}

// Exists checks if an evaluator with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
