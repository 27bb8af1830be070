// Package glyph provides text glyph sources backed by fonts.
//
// A [Source] rasterizes glyphs of any golang.org/x/image/font.Face on first
// use and packs their coverage masks into a single growing atlas.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/fbvideo/internal/logger"
	"github.com/BeatGlow/fbvideo/text"
)

// DefaultSize is the default font size in points (at 72 DPI, pixels).
const DefaultSize = 16

const atlasWidth = 512

// Errors
var (
	ErrFont = errors.New("glyph: unable to parse font")
)

// Source is a text.Source for a font face.
type Source struct {
	face    font.Face
	glyphs  map[rune]*text.Glyph
	missing map[rune]bool
	atlas   text.Atlas

	// atlas packing cursor
	penX, penY, rowHeight int
}

// NewFace returns a glyph source for face. The source owns the face.
func NewFace(face font.Face) *Source {
	return &Source{
		face:    face,
		glyphs:  make(map[rune]*text.Glyph),
		missing: make(map[rune]bool),
		atlas:   text.Atlas{Width: atlasWidth},
	}
}

// Builtin returns a source for the 7×13 fixed font, which needs no font file.
func Builtin() *Source {
	return NewFace(basicfont.Face7x13)
}

// Default returns a source for the Go Regular font at size points.
func Default(size float64) (*Source, error) {
	return ParseTrueType(goregular.TTF, size)
}

// ParseTrueType returns a source for a TrueType font.
func ParseTrueType(data []byte, size float64) (*Source, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	return NewFace(truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})), nil
}

// ParseOpenType returns a source for an OpenType (or TrueType) font.
func ParseOpenType(data []byte, size float64) (*Source, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	return NewFace(face), nil
}

// Load reads a font file. TrueType is tried first, then OpenType.
func Load(name string, size float64) (*Source, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	s, err := ParseTrueType(data, size)
	if err == nil {
		return s, nil
	}
	logger.Get().Debug("glyph: not a TrueType font, trying OpenType", "name", name, "error", err)
	if s, err = ParseOpenType(data, size); err != nil {
		return nil, fmt.Errorf("glyph: %s: %w", name, err)
	}
	return s, nil
}

// Glyph returns the glyph for r, rasterizing it on first use.
func (s *Source) Glyph(r rune) (*text.Glyph, bool) {
	if g, ok := s.glyphs[r]; ok {
		return g, true
	}
	if s.missing[r] {
		return nil, false
	}

	dr, mask, mp, advance, ok := s.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		s.missing[r] = true
		return nil, false
	}

	w, h := dr.Dx(), dr.Dy()
	x, y := s.place(w, h)
	for j := 0; j < h; j++ {
		row := s.atlas.Buffer[(y+j)*s.atlas.Width+x:]
		for i := 0; i < w; i++ {
			row[i] = coverage(mask, mp.X+i, mp.Y+j)
		}
	}

	g := &text.Glyph{
		Width:        w,
		Height:       h,
		AtlasOffsetX: x,
		AtlasOffsetY: y,
		AdvanceX:     advance.Round(),
		DrawOffsetX:  dr.Min.X,
		DrawOffsetY:  dr.Min.Y,
	}
	s.glyphs[r] = g
	return g, true
}

// place reserves a w×h cell in the atlas, growing it as needed.
func (s *Source) place(w, h int) (x, y int) {
	if w > s.atlas.Width {
		s.grow(s.atlas.Height, w)
	}
	if s.penX+w > s.atlas.Width {
		s.penX = 0
		s.penY += s.rowHeight
		s.rowHeight = 0
	}
	x, y = s.penX, s.penY
	s.penX += w
	s.rowHeight = max(s.rowHeight, h)
	if need := y + h; need > s.atlas.Height {
		s.grow(max(need, s.atlas.Height*2), s.atlas.Width)
	}
	return
}

func (s *Source) grow(height, width int) {
	buf := make([]byte, width*height)
	for y := 0; y < s.atlas.Height; y++ {
		copy(buf[y*width:], s.atlas.Buffer[y*s.atlas.Width:(y+1)*s.atlas.Width])
	}
	s.atlas = text.Atlas{Buffer: buf, Width: width, Height: height}
}

func coverage(mask image.Image, x, y int) uint8 {
	if m, ok := mask.(*image.Alpha); ok {
		return m.AlphaAt(x, y).A
	}
	_, _, _, a := mask.At(x, y).RGBA()
	return uint8(a >> 8)
}

// Atlas returns the glyph atlas.
func (s *Source) Atlas() *text.Atlas {
	return &s.atlas
}

// LineMetrics returns the face metrics.
func (s *Source) LineMetrics() (text.LineMetrics, bool) {
	m := s.face.Metrics()
	if m.Height <= 0 {
		return text.LineMetrics{}, false
	}
	return text.LineMetrics{
		Ascender:  fixedFloat(m.Ascent),
		Descender: fixedFloat(m.Descent),
		Height:    fixedFloat(m.Height),
	}, true
}

func fixedFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Close releases the face.
func (s *Source) Close() error {
	return s.face.Close()
}

var _ text.Source = (*Source)(nil)
