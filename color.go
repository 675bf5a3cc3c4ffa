package stereo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// Color is a packed 8-bit-per-channel RGBA value.
//
// The red channel occupies the low byte and alpha the high byte:
//
//	0xAABBGGRR
//
// so RGBA8(0xFF, 0, 0, 0xFF) == 0xFF0000FF (opaque red). Color values are
// not premultiplied.
type Color uint32

// RGBA8 packs four 8-bit channels into a Color.
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGB8 packs an opaque color.
func RGB8(r, g, b uint8) Color {
	return RGBA8(r, g, b, 0xFF)
}

// FromColor converts a standard color.Color to a packed Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA8(n.R, n.G, n.B, n.A)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// RGBA implements color.Color. The returned values are alpha-premultiplied
// 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

// NRGBA returns the color as a standard library color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// Float4 returns the channels normalized to [0, 1] in R, G, B, A order.
func (c Color) Float4() [4]float32 {
	return [4]float32{
		float32(c.R()) / 255,
		float32(c.G()) / 255,
		float32(c.B()) / 255,
		float32(c.A()) / 255,
	}
}

// GPU converts the color to a gputypes.Color for render pass clears.
func (c Color) GPU() gputypes.Color {
	return gputypes.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
		A: float64(c.A()) / 255,
	}
}

// Lerp performs linear interpolation between two colors per channel.
func (c Color) Lerp(other Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		return uint8(clamp255(math.Round(float64(a) + (float64(b)-float64(a))*t)))
	}
	return RGBA8(
		mix(c.R(), other.R()),
		mix(c.G(), other.G()),
		mix(c.B(), other.B()),
		mix(c.A(), other.A()),
	)
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R(), c.G(), c.B(), c.A())
}

// ColorFromFloat4 packs normalized channels, clamping each to [0, 1].
func ColorFromFloat4(v [4]float32) Color {
	q := func(x float32) uint8 {
		return uint8(clamp255(math.Round(float64(x) * 255)))
	}
	return RGBA8(q(v[0]), q(v[1]), q(v[2]), q(v[3]))
}

// Hex parses a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with an optional
// leading '#'.
func Hex(hex string) (Color, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) &&
			parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) &&
			parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	}
	if !ok {
		return 0, fmt.Errorf("stereo: invalid hex color %q", hex)
	}
	return RGBA8(uint8(r), uint8(g), uint8(b), uint8(a)), nil //nolint:gosec // each channel parsed from at most two hex digits
}

// parseHex is a helper for hex parsing. It reports false on a non-hex digit.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// HSL creates an opaque color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return ColorFromFloat4([4]float32{float32(r + m), float32(g + m), float32(b + m), 1})
}

// Common colors
const (
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
	Red         Color = 0xFF0000FF
	Green       Color = 0xFF00FF00
	Blue        Color = 0xFFFF0000
	Yellow      Color = 0xFF00FFFF
	Cyan        Color = 0xFFFFFF00
	Magenta     Color = 0xFFFF00FF
	Transparent Color = 0x00000000
)
