// Package colors generates the overlay colours used to tell collision groups
// apart.
package colors

import (
	"fmt"
	"image/color"
	"math"

	"github.com/milk9111/tilesheet/common"
	"golang.org/x/image/colornames"
)

// HullAlpha is the translucency of every generated group colour.
const HullAlpha float32 = 0.7

// Color is a non-premultiplied RGBA colour with channels in [0,1].
type Color struct {
	R, G, B, A float32
}

// NoHull marks tiles without a custom hull or without an assigned group.
var NoHull = FromColor(colornames.White)

// FromColor converts any image/color value.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// NRGBA returns the 8-bit non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: common.Unit8(c.R), G: common.Unit8(c.G), B: common.Unit8(c.B), A: common.Unit8(c.A)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the colour as #rrggbbaa.
func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// Mix blends c toward o by t, clamped to [0,1]. Alpha is blended too.
func (c Color) Mix(o Color, t float32) Color {
	t = common.Clamp01(t)
	return Color{
		R: common.Lerp(c.R, o.R, t),
		G: common.Lerp(c.G, o.G, t),
		B: common.Lerp(c.B, o.B, t),
		A: common.Lerp(c.A, o.A, t),
	}
}

// FromHue converts a hue in degrees to a fully saturated, full value colour
// using the six 60 degree sectors of the HSV hexcone.
func FromHue(hue, alpha float32) Color {
	hp := hue / 60
	const c = float32(1)
	x := c * (1 - float32(math.Abs(math.Mod(float64(hp), 2)-1)))

	var r, g, b float32
	switch int(hp) {
	case 0:
		r, g = c, x
	case 1:
		r, g = x, c
	case 2:
		g, b = c, x
	case 3:
		g, b = x, c
	case 4:
		r, b = x, c
	case 5:
		r, b = c, x
	}
	return Color{R: r, G: g, B: b, A: alpha}
}

// ForIndex returns colour i of n evenly spaced hues.
func ForIndex(i, n int) Color {
	if n <= 0 {
		return NoHull
	}
	recip := 1 / float32(n)
	return FromHue(float32(i)*recip*360, HullAlpha)
}
