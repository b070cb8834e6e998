package render

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display/memsurface"
	"github.com/vovakirdan/fbmandel/internal/fractal"
	"github.com/vovakirdan/fbmandel/internal/palette"
)

// markEncoder paints every pixel with the same opaque color.
type markEncoder struct {
	color core.PixelColor
}

func (e markEncoder) Encode(core.EscapeResult) core.PixelColor { return e.color }

// countingEvaluator counts evaluations and reports every point as escaped.
type countingEvaluator struct {
	calls int
}

func (e *countingEvaluator) Evaluate(_ core.Point, max int) core.EscapeResult {
	e.calls++
	return core.EscapeResult{Count: 0, Max: max}
}

func testContext(g core.Geometry) core.RenderContext {
	return core.RenderContext{
		Viewport:      core.DefaultViewport(),
		Geometry:      g,
		MaxIterations: 50,
	}
}

func hueEncoder(t *testing.T) *palette.Encoder {
	t.Helper()
	enc, err := palette.New(palette.DefaultOptions())
	if err != nil {
		t.Fatalf("palette.New() failed: %v", err)
	}
	return enc
}

func TestRenderFrameCompleteness(t *testing.T) {
	g := core.Geometry{Width: 41, Height: 27, Stride: 48, BytesPerPixel: 4}
	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}

	ev := &countingEvaluator{}
	stats, err := p.Render(testContext(g), ev, markEncoder{color: 0xff123456})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if stats.Pixels != g.Width*g.Height || stats.Written != g.Width*g.Height || stats.Skipped != 0 {
		t.Errorf("stats = %+v, expected %d pixels all written", stats, g.Width*g.Height)
	}
	if ev.calls != stats.Written {
		t.Errorf("evaluator called %d times, expected %d", ev.calls, stats.Written)
	}

	buf := p.Buffer()
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Stride; col++ {
			c, _ := buf.Get(core.Index(row*g.Stride + col))
			if col < g.Width && c != 0xff123456 {
				t.Fatalf("pixel (%d, %d) = %#08x, expected it to be written", row, col, c)
			}
			if col >= g.Width && c != 0 {
				t.Fatalf("padding pixel (%d, %d) = %#08x, expected untouched", row, col, c)
			}
		}
	}
}

func TestRenderMandelbrotStats(t *testing.T) {
	g := core.Geometry{Width: 60, Height: 40, Stride: 60, BytesPerPixel: 4}
	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}

	stats, err := p.Render(testContext(g), fractal.Mandelbrot{}, hueEncoder(t))
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if stats.Members == 0 || stats.Members >= stats.Written {
		t.Errorf("Members = %d of %d, expected both members and escapees", stats.Members, stats.Written)
	}

	// The pixel over the origin is inside the set and must be black.
	m, _ := core.NewMapper(core.DefaultViewport(), g)
	idx := m.PixelIndex(core.Pt(-0.1, 0.05))
	c, ok := p.Buffer().Get(idx)
	if !ok {
		t.Fatal("pixel near the origin should be on the grid")
	}
	if rgb := core.LayoutARGB.Unpack(c); rgb.R != 0 || rgb.G != 0 || rgb.B != 0 {
		t.Errorf("pixel near the origin = %+v, expected black", rgb)
	}
}

func TestRenderDoesNotTouchSurface(t *testing.T) {
	g := core.Geometry{Width: 16, Height: 9, Stride: 16, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, err := dev.Map()
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}

	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}
	if _, err := p.Render(testContext(g), fractal.Mandelbrot{}, hueEncoder(t)); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if !bytes.Equal(dev.Snapshot(), make([]byte, g.Bytes())) {
		t.Fatal("Render() must not write to the surface")
	}

	if err := p.Present(s); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}
	if !bytes.Equal(dev.Snapshot(), p.Buffer().Bytes()) {
		t.Error("surface should hold the rendered frame after Present()")
	}
}

func TestPresentErrorKeepsFrame(t *testing.T) {
	g := core.Geometry{Width: 8, Height: 8, Stride: 8, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, err := dev.Map()
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}

	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}
	ev := &countingEvaluator{}
	if _, err := p.Render(testContext(g), ev, markEncoder{color: 0xffabcdef}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	dev.Unmap()
	err = p.Present(s)
	var presentErr *PresentError
	if !errors.As(err, &presentErr) {
		t.Fatalf("Present() on an unmapped surface = %v, expected *PresentError", err)
	}

	// Retry without rendering again
	s, err = dev.Map()
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}
	calls := ev.calls
	if err := p.Present(s); err != nil {
		t.Fatalf("Present() retry failed: %v", err)
	}
	if ev.calls != calls {
		t.Error("retrying Present() must not re-render")
	}
	if px, _ := dev.Pixel(7, 7); px != 0xffabcdef {
		t.Errorf("Pixel(7, 7) = %#08x after retry, expected 0xffabcdef", px)
	}
}

func TestPresentRejectsSmallSurface(t *testing.T) {
	g := core.Geometry{Width: 8, Height: 8, Stride: 8, BytesPerPixel: 4}
	small := memsurface.New("small", core.Geometry{Width: 8, Height: 4, Stride: 8, BytesPerPixel: 4}, core.LayoutARGB)
	s, err := small.Map()
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}

	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}
	if _, err := p.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 1}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	var presentErr *PresentError
	if err := p.Present(s); !errors.As(err, &presentErr) {
		t.Errorf("Present() = %v, expected *PresentError", err)
	}
	if !bytes.Equal(small.Snapshot(), make([]byte, 8*4*4)) {
		t.Error("a rejected Present() must not write anything")
	}
}

func TestPresentBeforeRender(t *testing.T) {
	g := core.Geometry{Width: 4, Height: 4, Stride: 4, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, _ := dev.Map()

	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}
	if err := p.Present(s); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Present() before Render() = %v, expected ErrNoFrame", err)
	}
}

func TestPresentIsSingleStep(t *testing.T) {
	g := core.Geometry{Width: 64, Height: 48, Stride: 64, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, err := dev.Map()
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}

	frameA, _ := NewPresenter(g, nil)
	frameB, _ := NewPresenter(g, nil)
	frameA.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 0xaaaaaaaa})
	frameB.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 0xbbbbbbbb})
	blank := make([]byte, g.Bytes())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := frameA.Present(s); err != nil {
				t.Errorf("Present(A) failed: %v", err)
				break
			}
			if err := frameB.Present(s); err != nil {
				t.Errorf("Present(B) failed: %v", err)
				break
			}
		}
		close(stop)
	}()

	for {
		snap := dev.Snapshot()
		if !bytes.Equal(snap, blank) && !bytes.Equal(snap, frameA.Buffer().Bytes()) && !bytes.Equal(snap, frameB.Buffer().Bytes()) {
			t.Fatal("observer saw a frame mixing two render passes")
		}
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
	}
}

func TestReleaseOnce(t *testing.T) {
	g := core.Geometry{Width: 4, Height: 4, Stride: 4, BytesPerPixel: 4}
	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}

	if err := p.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if err := p.Release(); !errors.Is(err, ErrReleased) {
		t.Errorf("second Release() = %v, expected ErrReleased", err)
	}
	if _, err := p.Render(testContext(g), &countingEvaluator{}, markEncoder{}); !errors.Is(err, ErrReleased) {
		t.Errorf("Render() after Release() = %v, expected ErrReleased", err)
	}
	if p.Buffer() != nil {
		t.Error("Buffer() should be nil after Release()")
	}
}

func TestNewPresenterAllocationError(t *testing.T) {
	tests := []struct {
		name string
		g    core.Geometry
	}{
		{"invalid geometry", core.Geometry{Width: 0, Height: 10, Stride: 10, BytesPerPixel: 4}},
		{"too large", core.Geometry{Width: 1 << 15, Height: 1 << 15, Stride: 1 << 15, BytesPerPixel: 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPresenter(tc.g, nil)
			var allocErr *AllocationError
			if !errors.As(err, &allocErr) {
				t.Errorf("NewPresenter() = %v, expected *AllocationError", err)
			}
		})
	}
}

func TestRenderClearsPreviousFrame(t *testing.T) {
	g := core.Geometry{Width: 6, Height: 4, Stride: 8, BytesPerPixel: 4}
	p, err := NewPresenter(g, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}
	if _, err := p.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 1}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	padding := core.Index(g.Width)
	p.Buffer().Set(padding, 0xdeadbeef)

	if _, err := p.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 2}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if c, _ := p.Buffer().Get(padding); c != 0 {
		t.Errorf("padding pixel = %#x after Render(), expected 0", c)
	}
	if c, _ := p.Buffer().Get(p.Buffer().Index(3, 5)); c != 2 {
		t.Errorf("pixel (3, 5) = %d, expected the new frame", c)
	}
}

func TestFailedRenderKeepsFrame(t *testing.T) {
	g := core.Geometry{Width: 6, Height: 4, Stride: 6, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, _ := dev.Map()
	p, _ := NewPresenter(g, nil)
	if _, err := p.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 3}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	rc := testContext(g)
	rc.Viewport = core.Viewport{DomainMin: 0.5, DomainMax: 0.5 + 1e-15, RangeMin: -1, RangeMax: 1}
	if _, err := p.Render(rc, &countingEvaluator{}, markEncoder{color: 4}); err == nil {
		t.Fatal("Render() with an unresolvable viewport should fail")
	}

	if err := p.Present(s); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}
	if px, _ := dev.Pixel(0, 0); px != 3 {
		t.Errorf("Pixel(0, 0) = %d, expected the earlier frame", px)
	}
}

func TestRenderReallocatesOnGeometryChange(t *testing.T) {
	small := core.Geometry{Width: 4, Height: 4, Stride: 4, BytesPerPixel: 4}
	large := core.Geometry{Width: 10, Height: 6, Stride: 12, BytesPerPixel: 4}
	p, err := NewPresenter(small, nil)
	if err != nil {
		t.Fatalf("NewPresenter() failed: %v", err)
	}

	stats, err := p.Render(testContext(large), &countingEvaluator{}, markEncoder{color: 1})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !p.Buffer().Fits(large) {
		t.Error("buffer should be reallocated for the new geometry")
	}
	if stats.Written != 60 {
		t.Errorf("Written = %d, expected 60", stats.Written)
	}
}

func TestBlank(t *testing.T) {
	g := core.Geometry{Width: 4, Height: 4, Stride: 4, BytesPerPixel: 4}
	dev := memsurface.New("mem", g, core.LayoutARGB)
	s, _ := dev.Map()

	p, _ := NewPresenter(g, nil)
	p.Render(testContext(g), &countingEvaluator{}, markEncoder{color: 0xffffffff})
	if err := p.Present(s); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}
	if err := Blank(s); err != nil {
		t.Fatalf("Blank() failed: %v", err)
	}
	if !bytes.Equal(dev.Snapshot(), make([]byte, g.Bytes())) {
		t.Error("Blank() should zero the surface")
	}
}
