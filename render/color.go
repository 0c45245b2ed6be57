package render

import "image/color"

// Adjust shifts every channel by amount*255, clamped. Positive amounts
// lighten, negative darken.
func Adjust(c color.RGBA, amount float64) color.RGBA {
	shift := func(v uint8) uint8 {
		return uint8(max(0, min(255, float64(v)+amount*255)))
	}
	return color.RGBA{shift(c.R), shift(c.G), shift(c.B), c.A}
}

func Lighten(c color.RGBA, amount float64) color.RGBA { return Adjust(c, amount) }
func Darken(c color.RGBA, amount float64) color.RGBA  { return Adjust(c, -amount) }

// Fade returns c with its alpha scaled by alpha in [0, 1], premultiplied as
// ebiten expects.
func Fade(c color.RGBA, alpha float64) color.RGBA {
	alpha = max(0, min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// Neon is the palette used for confetti and the four-line explosion.
var Neon = []color.RGBA{
	{0x00, 0xf3, 0xff, 0xff},
	{0xff, 0x00, 0x6e, 0xff},
	{0xb5, 0x37, 0xf2, 0xff},
	{0x39, 0xff, 0x14, 0xff},
	{0xff, 0xd7, 0x00, 0xff},
}

var (
	backgroundTop    = color.RGBA{10, 14, 39, 255}
	backgroundBottom = color.RGBA{26, 26, 46, 255}
	gridColor        = color.RGBA{0, 24, 26, 26}
	textColor        = color.RGBA{0xe0, 0xf7, 0xff, 0xff}
	accentColor      = color.RGBA{0x00, 0xf3, 0xff, 0xff}
	overlayColor     = color.RGBA{0, 0, 0, 190}
)
