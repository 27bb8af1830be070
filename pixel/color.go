package pixel

import "image/color"

// Models for the packed color types.
var (
	CRGB16Model  color.Model = color.ModelFunc(crgb16Model)
	CARGB32Model color.Model = color.ModelFunc(cargb32Model)
	CRGBA16Model color.Model = color.ModelFunc(crgba16Model)
)

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	return nrgba(rgb565ToARGB(c.V)).RGBA()
}

func crgb16Model(c color.Color) color.Color {
	if c, ok := c.(CRGB16); ok {
		return c
	}
	return CRGB16{argbToRGB565(packNRGBA(c))}
}

// CARGB32 represents a 32-bit 8-8-8-8 ARGB color, not alpha-premultiplied.
type CARGB32 struct {
	V uint32
}

func (c CARGB32) RGBA() (r, g, b, a uint32) {
	return nrgba(c.V).RGBA()
}

func cargb32Model(c color.Color) color.Color {
	if c, ok := c.(CARGB32); ok {
		return c
	}
	return CARGB32{packNRGBA(c)}
}

// CRGBA16 represents a 16-bit 4-4-4-4 RGBA color, not alpha-premultiplied.
type CRGBA16 struct {
	V uint16
}

func (c CRGBA16) RGBA() (r, g, b, a uint32) {
	return nrgba(rgba4444ToARGB(c.V)).RGBA()
}

func crgba16Model(c color.Color) color.Color {
	if c, ok := c.(CRGBA16); ok {
		return c
	}
	return CRGBA16{argbToRGBA4444(packNRGBA(c))}
}

func nrgba(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}

func packNRGBA(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}
