// Package draw contains the drawing primitives used to compose overlay content.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for image/draw.Op
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = iota

	// Src specifies ``src in mask''.
	Src
)

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask composes src onto dst like [image/draw.DrawMask]. Opaque uniform
// sources without a mask are filled with [Box], which lets packed pixel
// surfaces fill whole rows at once.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	if u, ok := src.(*image.Uniform); ok && mask == nil && (op == Src || opaque(u.C)) {
		Box(dst, r, u.C)
		return
	}
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// Shade darkens r in dst by blending it with c at alpha.
func Shade(dst Image, r image.Rectangle, c color.Color, alpha uint8) {
	DrawMask(dst, r, image.NewUniform(c), image.Point{}, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, Over)
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0xffff
}
