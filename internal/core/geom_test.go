package core

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := Pt(1, 2)
	b := Pt(3, -1)

	if got := a.Add(b); got != Pt(4, 1) {
		t.Errorf("Add() = %v, expected (4+1i)", got)
	}
	// (1+2i)(3-i) = 3 - i + 6i - 2i^2 = 5 + 5i
	if got := a.Mul(b); got != Pt(5, 5) {
		t.Errorf("Mul() = %v, expected (5+5i)", got)
	}
	if a != Pt(1, 2) || b != Pt(3, -1) {
		t.Error("operands should not be mutated")
	}
	if got := Pt(3, 4).Abs(); got != 5 {
		t.Errorf("Abs() = %g, expected 5", got)
	}
	if got := Pt(3, 4).AbsSq(); got != 25 {
		t.Errorf("AbsSq() = %g, expected 25", got)
	}
}

func TestViewportValidate(t *testing.T) {
	tests := []struct {
		name    string
		v       Viewport
		wantErr bool
	}{
		{"default", DefaultViewport(), false},
		{"equal domain", Viewport{0, 0, -1, 1}, true},
		{"inverted domain", Viewport{1, -2, -1, 1}, true},
		{"equal range", Viewport{-2, 1, 1, 1}, true},
		{"infinite bound", Viewport{math.Inf(-1), 1, -1, 1}, true},
		{"nan bound", Viewport{-2, 1, -1, math.NaN()}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.v.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestViewportSpans(t *testing.T) {
	v := DefaultViewport()
	if v.DomainSpan() != 3 {
		t.Errorf("DomainSpan() = %g, expected 3", v.DomainSpan())
	}
	if v.RangeSpan() != 2 {
		t.Errorf("RangeSpan() = %g, expected 2", v.RangeSpan())
	}
	if !v.Contains(Pt(1, -1)) {
		t.Error("Contains() should include the closed corners")
	}
	if v.Contains(Pt(1.5, 0)) {
		t.Error("Contains() should reject points right of the domain")
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"ok", Geometry{Width: 640, Height: 480, Stride: 640, BytesPerPixel: 4}, false},
		{"padded", Geometry{Width: 600, Height: 480, Stride: 640, BytesPerPixel: 4}, false},
		{"16bpp", Geometry{Width: 640, Height: 480, Stride: 640, BytesPerPixel: 2}, true},
		{"narrow stride", Geometry{Width: 640, Height: 480, Stride: 600, BytesPerPixel: 4}, true},
		{"no height", Geometry{Width: 640, Height: 0, Stride: 640, BytesPerPixel: 4}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	g := Geometry{Width: 600, Height: 480, Stride: 640, BytesPerPixel: 4}
	if g.Bytes() != 640*480*4 {
		t.Errorf("Bytes() = %d, expected %d", g.Bytes(), 640*480*4)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}
