package fractal

import (
	"testing"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/registry"
)

func TestIterateKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		c        core.Point
		max      int
		expected int
	}{
		{"origin is interior", core.Pt(0, 0), 100, 100},
		{"minus one is interior (period 2)", core.Pt(-1, 0), 100, 100},
		{"main cardioid cusp neighbor", core.Pt(-0.5, 0), 250, 250},
		{"far point escapes on first step", core.Pt(2, 2), 100, 1},
		{"real axis tip stays bounded", core.Pt(-2, 0), 50, 50},
		{"just past the tip escapes", core.Pt(0.5, 0), 100, 5},
		{"zero budget", core.Pt(0, 0), 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Iterate(tc.c, tc.max)
			if got.Count != tc.expected {
				t.Errorf("Iterate(%v, %d).Count = %d, expected %d", tc.c, tc.max, got.Count, tc.expected)
			}
			if got.Max != tc.max {
				t.Errorf("Iterate(%v, %d).Max = %d, expected %d", tc.c, tc.max, got.Max, tc.max)
			}
		})
	}
}

func TestIterateFarPointEscapesQuickly(t *testing.T) {
	got := Iterate(core.Pt(2, 2), 1000)
	if got.Count > 2 {
		t.Errorf("Iterate((2+2i)).Count = %d, expected at most 2", got.Count)
	}
	if !got.Escaped() || got.Member() {
		t.Errorf("(2+2i) should have escaped, got %+v", got)
	}
}

func TestIterateDeterministic(t *testing.T) {
	points := []core.Point{
		core.Pt(-0.7453, 0.1127),
		core.Pt(0.285, 0.01),
		core.Pt(-1.25066, 0.02012),
		core.Pt(0.3, 0.5),
	}

	for _, c := range points {
		first := Iterate(c, 500)
		for i := 0; i < 5; i++ {
			if again := Iterate(c, 500); again != first {
				t.Fatalf("Iterate(%v) = %+v on call %d, expected %+v", c, again, i+2, first)
			}
		}
	}
}

func TestIterateMonotoneInBudget(t *testing.T) {
	c := core.Pt(-0.75, 0.1)
	prev := 0
	for max := 1; max <= 200; max *= 2 {
		got := Iterate(c, max).Count
		if got < prev {
			t.Fatalf("Iterate count decreased from %d to %d when budget grew to %d", prev, got, max)
		}
		prev = got
	}
}

func TestWheelPattern(t *testing.T) {
	w := Wheel{}
	seen := make(map[int]bool)
	for _, c := range []core.Point{core.Pt(1, 0.001), core.Pt(0, 1), core.Pt(-1, -0.001), core.Pt(0, -1)} {
		r := w.Evaluate(c, 360)
		if r.Member() {
			t.Errorf("Wheel.Evaluate(%v) should never be a member", c)
		}
		if r.Count < 0 || r.Count >= 360 {
			t.Errorf("Wheel.Evaluate(%v).Count = %d, out of range", c, r.Count)
		}
		seen[r.Count/90] = true
	}
	if len(seen) != 4 {
		t.Errorf("the four compass points should land in four quadrants of the wheel, got %v", seen)
	}
}

func TestSolidPattern(t *testing.T) {
	r := Solid{}.Evaluate(core.Pt(5, 5), 42)
	if !r.Member() || r.Count != 42 {
		t.Errorf("Solid.Evaluate() = %+v, expected member with count 42", r)
	}
}

func TestEvaluatorsRegistered(t *testing.T) {
	for _, id := range []string{"mandelbrot", "wheel", "solid"} {
		ev, err := registry.Create(id)
		if err != nil {
			t.Errorf("registry.Create(%q) failed: %v", id, err)
			continue
		}
		if ev.ID() != id {
			t.Errorf("evaluator %q reports ID %q", id, ev.ID())
		}
	}
}
