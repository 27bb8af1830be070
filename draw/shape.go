package draw

import (
	"image"
	"image/color"
)

// RectFiller is implemented by images that can fill a rectangle faster than
// setting each pixel.
type RectFiller interface {
	FillRect(image.Rectangle, color.Color)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon().Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	if f, ok := dst.(RectFiller); ok {
		f.FillRect(rect, c)
		return
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, c)
		}
	}
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	Box(dst, image.Rect(x, y, x+w, y+1), c)
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	Box(dst, image.Rect(x, y, x+1, y+h), c)
}

// Rectangle draws a rectangle outline of the given border width inside rect.
func Rectangle(dst Image, rect image.Rectangle, border int, c color.Color) {
	rect = rect.Canon()
	if border <= 0 {
		return
	}
	if border*2 >= rect.Dx() || border*2 >= rect.Dy() {
		Box(dst, rect, c)
		return
	}
	Box(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+border), c)
	Box(dst, image.Rect(rect.Min.X, rect.Max.Y-border, rect.Max.X, rect.Max.Y), c)
	Box(dst, image.Rect(rect.Min.X, rect.Min.Y+border, rect.Min.X+border, rect.Max.Y-border), c)
	Box(dst, image.Rect(rect.Max.X-border, rect.Min.Y+border, rect.Max.X, rect.Max.Y-border), c)
}

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	var (
		dx = abs(b.X - a.X)
		dy = -abs(b.Y - a.Y)
		sx = sign(b.X - a.X)
		sy = sign(b.Y - a.Y)
		e  = dx + dy
	)
	for {
		dst.Set(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
