package text

import (
	"image/color"

	"github.com/BeatGlow/fbvideo/internal/logger"
	"github.com/BeatGlow/fbvideo/pixel"
)

// Renderer draws text. The zero value is ready to use. A Renderer reuses its
// scaling buffer between glyphs and is not safe for concurrent use.
type Renderer struct {
	buf []byte
}

// Draw renders msg with its pen starting at (x, y) on the baseline. Each glyph
// pixel is blended with c using the glyph coverage scaled by the alpha of c.
func (r *Renderer) Draw(dst pixel.Surface, src Source, msg string, scale float64, c color.NRGBA, x, y int) {
	if dst == nil || src == nil || msg == "" || scale <= 0 || c.A == 0 {
		return
	}
	logger.Get().Debug("text: draw", "x", x, "y", y, "message", msg)

	var (
		b      = dst.Pixels()
		f      = dst.Format()
		bpp    = f.BytesPerPixel()
		width  = b.Rect.Dx()
		height = b.Rect.Dy()
		penX   = float64(x)
		penY   = float64(y)
	)
	for _, code := range msg {
		g, ok := lookup(src, code)
		if !ok {
			continue
		}
		atlas := src.Atlas()

		var (
			baseX = int(penX + float64(g.DrawOffsetX)*scale)
			baseY = int(penY + float64(g.DrawOffsetY)*scale)
			gw    = int(float64(g.Width) * scale)
			gh    = int(float64(g.Height) * scale)
		)
		penX += float64(g.AdvanceX) * scale
		penY += float64(g.AdvanceY) * scale

		if gw <= 0 || gh <= 0 || baseX >= width || baseY >= height || baseX+gw <= 0 || baseY+gh <= 0 {
			continue
		}
		glyph := r.scale(atlas, g, gw, gh)

		// Clip against all four edges; the negative side moves the read origin.
		var sx, sy int
		if baseX < 0 {
			sx = -baseX
			baseX = 0
		}
		if baseY < 0 {
			sy = -baseY
			baseY = 0
		}
		var (
			cw = min(gw-sx, width-baseX)
			ch = min(gh-sy, height-baseY)
		)
		for j := 0; j < ch; j++ {
			var (
				row = glyph[(sy+j)*gw+sx:]
				off = (baseY+j)*b.Stride + baseX*bpp
			)
			for i := 0; i < cw; i++ {
				if cov := row[i]; cov != 0 {
					pixel.Blend(b.Pix[off+i*bpp:], f, weight(cov, c.A), c.R, c.G, c.B)
				}
			}
		}
	}
}

// scale resamples the glyph bitmap to gw×gh coverage bytes.
func (r *Renderer) scale(atlas *Atlas, g *Glyph, gw, gh int) []byte {
	n := gw * gh
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	buf := r.buf[:n]
	for j := 0; j < gh; j++ {
		var (
			ay  = g.AtlasOffsetY + min(j*g.Height/gh, g.Height-1)
			row = buf[j*gw : (j+1)*gw]
		)
		for i := range row {
			ax := g.AtlasOffsetX + min(i*g.Width/gw, g.Width-1)
			if ax < atlas.Width && ay < atlas.Height {
				row[i] = atlas.Buffer[ay*atlas.Width+ax]
			} else {
				row[i] = 0
			}
		}
	}
	return buf
}

func weight(coverage, alpha uint8) uint8 {
	if alpha == 0xff {
		return coverage
	}
	return uint8(uint32(coverage) * uint32(alpha) / 0xff)
}
