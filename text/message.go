package text

import (
	"image/color"
	"math"
	"strings"

	"github.com/BeatGlow/fbvideo/pixel"
)

// Align is the horizontal text alignment.
type Align uint8

// Alignments.
const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

func (a Align) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// Params is the message layout.
type Params struct {
	// X and Y are the position of the first line's baseline, normalized to
	// the surface size. X runs from the left edge, Y from the bottom edge.
	X, Y float64

	// Scale multiplies the glyph size.
	Scale float64

	// Align is applied at X.
	Align Align

	// Color of the text.
	Color color.NRGBA

	// DropX and DropY offset the drop shadow in pixels; both 0 disables it.
	DropX, DropY int

	// DropMod darkens the shadow color channels.
	DropMod float64

	// DropAlpha scales the shadow opacity.
	DropAlpha float64
}

// DefaultParams is the layout used for on-screen messages.
var DefaultParams = Params{
	X:         0.05,
	Y:         0.05,
	Scale:     1,
	Color:     color.NRGBA{R: 0xff, G: 0xff, A: 0xff},
	DropX:     -2,
	DropY:     -2,
	DropMod:   0.3,
	DropAlpha: 0.75,
}

// Shadow returns the drop shadow color for p.
func (p *Params) Shadow() color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(p.Color.R) * p.DropMod),
		G: uint8(float64(p.Color.G) * p.DropMod),
		B: uint8(float64(p.Color.B) * p.DropMod),
		A: uint8(float64(p.Color.A) * p.DropAlpha),
	}
}

// RenderMessage renders msg laid out by p, or by DefaultParams if p is nil.
// Lines are separated by '\n' and stacked using the source's line metrics; a
// source without line metrics gets the whole message on a single line. The
// drop shadow is drawn first.
func (r *Renderer) RenderMessage(dst pixel.Surface, src Source, msg string, p *Params) {
	if dst == nil || src == nil || msg == "" {
		return
	}
	if p == nil {
		p = &DefaultParams
	}
	size := dst.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return
	}

	if p.DropX != 0 || p.DropY != 0 {
		r.renderLines(dst, src, msg, p.Scale, p.Shadow(),
			p.X+p.Scale*float64(p.DropX)/float64(size.X),
			p.Y+p.Scale*float64(p.DropY)/float64(size.Y),
			p.Align)
	}
	r.renderLines(dst, src, msg, p.Scale, p.Color, p.X, p.Y, p.Align)
}

func (r *Renderer) renderLines(dst pixel.Surface, src Source, msg string, scale float64, c color.NRGBA, x, y float64, align Align) {
	metrics, ok := src.LineMetrics()
	if !ok || metrics.Height <= 0 {
		r.renderLine(dst, src, msg, scale, c, x, y, align)
		return
	}

	lineHeight := metrics.Height * scale / float64(dst.Bounds().Dy())
	for i, line := range strings.Split(msg, "\n") {
		r.renderLine(dst, src, line, scale, c, x, y-float64(i)*lineHeight, align)
	}
}

func (r *Renderer) renderLine(dst pixel.Surface, src Source, line string, scale float64, c color.NRGBA, x, y float64, align Align) {
	size := dst.Bounds().Size()
	var (
		px = int(math.Round(x * float64(size.X)))
		py = int(math.Round((1 - y) * float64(size.Y)))
	)
	switch align {
	case AlignRight:
		px -= MessageWidth(src, line, scale)
	case AlignCenter:
		px -= MessageWidth(src, line, scale) / 2
	}
	r.Draw(dst, src, line, scale, c, px, py)
}
