// Package palette turns escape results into packed pixel colors.
// Two policies are available: a continuous hue ramp keyed on escape speed
// and a binary member/non-member palette.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/fbmandel/internal/core"
)

// Policy selects how escape results are colored for a render session.
type Policy string

const (
	PolicyHue    Policy = "hue"
	PolicyBinary Policy = "binary"
)

// ParsePolicy converts a configuration name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(s)) {
	case PolicyHue:
		return PolicyHue, nil
	case PolicyBinary:
		return PolicyBinary, nil
	default:
		return PolicyHue, fmt.Errorf("palette: unknown policy %q", s)
	}
}

// AllPolicies returns every supported policy.
func AllPolicies() []Policy {
	return []Policy{PolicyHue, PolicyBinary}
}

// Options configures an Encoder.
type Options struct {
	Policy  Policy
	Layout  core.Layout
	Alpha   uint8
	Member  core.RGBA // Binary policy color of set members
	Escaped core.RGBA // Binary policy color of escaping points
}

// DefaultOptions returns the hue ramp packed as opaque ARGB, with black
// members and white escapees for the binary policy.
func DefaultOptions() Options {
	return Options{
		Policy:  PolicyHue,
		Layout:  core.LayoutARGB,
		Alpha:   0xff,
		Member:  core.Black,
		Escaped: core.White,
	}
}

// Encoder converts escape results to packed pixels.
// Encode is pure and total: every result maps to exactly one color.
type Encoder struct {
	opts    Options
	member  core.PixelColor
	escaped core.PixelColor
}

// New creates an encoder for the given options.
func New(opts Options) (*Encoder, error) {
	if _, err := ParsePolicy(string(opts.Policy)); err != nil {
		return nil, err
	}
	member := opts.Member
	member.A = opts.Alpha
	escaped := opts.Escaped
	escaped.A = opts.Alpha
	return &Encoder{
		opts:    opts,
		member:  opts.Layout.Pack(member),
		escaped: opts.Layout.Pack(escaped),
	}, nil
}

// Policy returns the active policy.
func (e *Encoder) Policy() Policy {
	return e.opts.Policy
}

// Layout returns the channel layout pixels are packed with.
func (e *Encoder) Layout() core.Layout {
	return e.opts.Layout
}

// Encode returns the packed pixel for r.
func (e *Encoder) Encode(r core.EscapeResult) core.PixelColor {
	if e.opts.Policy == PolicyBinary {
		if r.Member() {
			return e.member
		}
		return e.escaped
	}
	c := HueRamp(r)
	c.A = e.opts.Alpha
	return e.opts.Layout.Pack(c)
}

// HueRamp colors r with hue 360*count/max at full saturation.
// Set members have value 0 and render black; max <= 0 is treated as a member.
func HueRamp(r core.EscapeResult) core.RGBA {
	if r.Max <= 0 || r.Member() {
		return HSV(0, 1, 0)
	}
	h := 360 * float64(r.Count) / float64(r.Max)
	return HSV(h, 1, 1)
}

// HSV converts a hue in degrees (wrapped into [0, 360)), saturation and
// value in [0, 1] to an opaque 8-bit color with the six-sector formula.
func HSV(h, s, v float64) core.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return core.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (core.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return core.RGBA{}, fmt.Errorf("palette: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return core.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
