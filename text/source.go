// Package text renders UTF-8 messages onto pixel surfaces.
//
// Glyph bitmaps come from a [Source]; the renderer scales them with nearest
// neighbor sampling, clips them to the surface and blends their coverage with
// the text color.
package text

// Glyph describes one character in a [Source]'s atlas. All values are in
// unscaled pixels.
type Glyph struct {
	// Width and Height of the glyph bitmap.
	Width, Height int

	// AtlasOffsetX and AtlasOffsetY locate the bitmap in the atlas.
	AtlasOffsetX, AtlasOffsetY int

	// AdvanceX and AdvanceY move the pen after drawing the glyph.
	AdvanceX, AdvanceY int

	// DrawOffsetX and DrawOffsetY place the bitmap's top left corner relative
	// to the pen position on the baseline.
	DrawOffsetX, DrawOffsetY int
}

// Atlas is an 8-bit coverage image holding the glyph bitmaps.
type Atlas struct {
	Buffer []byte
	Width  int
	Height int
}

// LineMetrics are the vertical font metrics, in pixels.
type LineMetrics struct {
	Ascender  float64
	Descender float64
	Height    float64
}

// Source resolves code points to glyphs.
type Source interface {
	// Glyph returns the glyph for r, if the source has one.
	Glyph(r rune) (*Glyph, bool)

	// Atlas returns the atlas the glyphs point into. Sources may grow their
	// atlas when a glyph is first requested, so it is only valid until the
	// next call to Glyph.
	Atlas() *Atlas

	// LineMetrics returns the font's line metrics, if known.
	LineMetrics() (LineMetrics, bool)

	// Close releases the source.
	Close() error
}

// Replacement is drawn for code points the source has no glyph for.
const Replacement = '?'

// lookup returns the glyph for r, or the replacement glyph.
func lookup(src Source, r rune) (*Glyph, bool) {
	if g, ok := src.Glyph(r); ok {
		return g, true
	}
	return src.Glyph(Replacement)
}

// MessageWidth is the scaled sum of the glyph advances in msg.
func MessageWidth(src Source, msg string, scale float64) int {
	if src == nil {
		return 0
	}
	var width int
	for _, r := range msg {
		if g, ok := lookup(src, r); ok {
			width += g.AdvanceX
		}
	}
	return int(float64(width) * scale)
}
