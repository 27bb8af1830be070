package text

import (
	"image/color"
	"testing"

	"github.com/BeatGlow/fbvideo/pixel"
)

// testSource has a solid 2×2 'A', a half covered 2×2 '?' and nothing else.
type testSource struct {
	glyphs  map[rune]*Glyph
	atlas   Atlas
	metrics *LineMetrics
	closed  bool
}

func newTestSource(withReplacement bool) *testSource {
	s := &testSource{
		glyphs: map[rune]*Glyph{
			'A': {Width: 2, Height: 2, AdvanceX: 3, DrawOffsetY: -2},
		},
		atlas: Atlas{
			Buffer: []byte{
				0xff, 0xff, 0x80, 0x80,
				0xff, 0xff, 0x80, 0x80,
			},
			Width:  4,
			Height: 2,
		},
	}
	if withReplacement {
		s.glyphs[Replacement] = &Glyph{Width: 2, Height: 2, AtlasOffsetX: 2, AdvanceX: 3, DrawOffsetY: -2}
	}
	return s
}

func (s *testSource) Glyph(r rune) (*Glyph, bool) {
	g, ok := s.glyphs[r]
	return g, ok
}

func (s *testSource) Atlas() *Atlas { return &s.atlas }

func (s *testSource) LineMetrics() (LineMetrics, bool) {
	if s.metrics == nil {
		return LineMetrics{}, false
	}
	return *s.metrics, true
}

func (s *testSource) Close() error {
	s.closed = true
	return nil
}

func testSurface(t *testing.T, w, h int) pixel.Surface {
	t.Helper()
	s, err := pixel.NewSurface(pixel.ARGB8888, make([]byte, w*h*4), w, h, w*4)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func at(s pixel.Surface, x, y int) uint32 {
	b := s.Pixels()
	return pixel.ReadARGB(b.Pix[y*b.Stride+x*4:], s.Format())
}

// covered returns the set of non-black pixels.
func covered(s pixel.Surface) map[[2]int]uint32 {
	out := make(map[[2]int]uint32)
	size := s.Bounds().Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			if c := at(s, x, y); c != 0 {
				out[[2]int{x, y}] = c
			}
		}
	}
	return out
}

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func TestDraw(t *testing.T) {
	t.Run("solid glyph", func(it *testing.T) {
		var (
			s = testSurface(it, 8, 8)
			r Renderer
		)
		r.Draw(s, newTestSource(true), "A", 1, white, 1, 3)
		got := covered(s)
		if len(got) != 4 {
			it.Fatalf("expected 4 pixels drawn, got %d", len(got))
		}
		for _, p := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
			if got[p] != 0xffffffff {
				it.Errorf("pixel %v: expected %#08x, got %#08x", p, uint32(0xffffffff), got[p])
			}
		}
	})

	t.Run("advance", func(it *testing.T) {
		var (
			s = testSurface(it, 8, 8)
			r Renderer
		)
		r.Draw(s, newTestSource(true), "AA", 1, white, 0, 2)
		got := covered(s)
		if len(got) != 8 {
			it.Fatalf("expected 8 pixels drawn, got %d", len(got))
		}
		if _, ok := got[[2]int{3, 0}]; !ok {
			it.Error("expected second glyph to start at x=3")
		}
		if _, ok := got[[2]int{2, 0}]; ok {
			it.Error("expected gap between glyphs at x=2")
		}
	})

	t.Run("replacement", func(it *testing.T) {
		var (
			s = testSurface(it, 8, 8)
			r Renderer
		)
		r.Draw(s, newTestSource(true), "é", 1, white, 0, 2)
		got := covered(s)
		if len(got) != 4 {
			it.Fatalf("expected 4 pixels drawn, got %d", len(got))
		}
		// 0x80 coverage of white over transparent black
		if v := got[[2]int{0, 0}]; v != 0x007f7f7f {
			it.Errorf("expected blended pixel %#08x, got %#08x", uint32(0x007f7f7f), v)
		}
	})

	t.Run("no replacement", func(it *testing.T) {
		var (
			s = testSurface(it, 8, 8)
			r Renderer
		)
		r.Draw(s, newTestSource(false), "éA", 1, white, 0, 2)
		got := covered(s)
		if len(got) != 4 {
			it.Fatalf("expected 4 pixels drawn, got %d", len(got))
		}
		if _, ok := got[[2]int{0, 0}]; !ok {
			it.Error("expected unresolved glyph to be skipped without advancing")
		}
	})

	t.Run("scaled", func(it *testing.T) {
		var (
			s = testSurface(it, 8, 8)
			r Renderer
		)
		r.Draw(s, newTestSource(true), "A", 2, white, 0, 4)
		if got := covered(s); len(got) != 16 {
			it.Errorf("expected 16 pixels drawn, got %d", len(got))
		}
	})

	t.Run("alpha", func(it *testing.T) {
		var (
			s = testSurface(it, 4, 4)
			r Renderer
		)
		r.Draw(s, newTestSource(true), "A", 1, color.NRGBA{R: 0xff, A: 0x80}, 0, 2)
		if v := at(s, 0, 0); v != 0x007f0000 {
			it.Errorf("expected %#08x, got %#08x", uint32(0x007f0000), v)
		}
	})
}

func TestDrawClip(t *testing.T) {
	tests := []struct {
		Name string
		X, Y int
		Want [][2]int
	}{
		{"left", -1, 2, [][2]int{{0, 0}, {0, 1}}},
		{"top", 0, 1, [][2]int{{0, 0}, {1, 0}}},
		{"right", 3, 2, [][2]int{{3, 0}, {3, 1}}},
		{"bottom", 0, 5, [][2]int{{0, 3}, {1, 3}}},
		{"top left corner", -1, 1, [][2]int{{0, 0}}},
		{"outside left", -10, 2, nil},
		{"outside right", 4, 2, nil},
		{"outside top", 0, 0, nil},
		{"outside bottom", 0, 10, nil},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			var (
				s = testSurface(it, 4, 4)
				r Renderer
			)
			r.Draw(s, newTestSource(true), "A", 1, white, test.X, test.Y)
			got := covered(s)
			if len(got) != len(test.Want) {
				it.Fatalf("expected %d pixels drawn, got %d: %v", len(test.Want), len(got), got)
			}
			for _, p := range test.Want {
				if _, ok := got[p]; !ok {
					it.Errorf("expected pixel %v to be drawn", p)
				}
			}
		})
	}
}

func TestDrawRGB565(t *testing.T) {
	s, err := pixel.NewSurface(pixel.RGB565, make([]byte, 4*4*2), 4, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	var r Renderer
	r.Draw(s, newTestSource(true), "A", 1, color.NRGBA{G: 0xff, A: 0xff}, 0, 2)
	b := s.Pixels()
	if v := uint16(pixel.ReadARGB(b.Pix, pixel.RGB565) >> 8 & 0xff); v != 0xff {
		t.Errorf("expected full green, got %#02x", v)
	}
}

func TestMessageWidth(t *testing.T) {
	src := newTestSource(true)
	tests := []struct {
		Msg   string
		Scale float64
		Want  int
	}{
		{"", 1, 0},
		{"A", 1, 3},
		{"AAA", 1, 9},
		{"AéA", 1, 9},
		{"AA", 1.5, 9},
	}
	for _, test := range tests {
		if v := MessageWidth(src, test.Msg, test.Scale); v != test.Want {
			t.Errorf("%q at %g: expected %d, got %d", test.Msg, test.Scale, test.Want, v)
		}
	}
	if v := MessageWidth(newTestSource(false), "Aé", 1); v != 3 {
		t.Errorf("expected unresolved glyph to have no width, got %d", v)
	}
}

func TestRenderMessage(t *testing.T) {
	t.Run("lines", func(it *testing.T) {
		var (
			s   = testSurface(it, 10, 10)
			src = newTestSource(true)
			r   Renderer
		)
		src.metrics = &LineMetrics{Height: 4}
		r.RenderMessage(s, src, "A\nA", &Params{Y: 0.5, Scale: 1, Color: white})
		got := covered(s)
		if len(got) != 8 {
			it.Fatalf("expected 8 pixels drawn, got %d", len(got))
		}
		for _, p := range [][2]int{{0, 3}, {0, 4}, {0, 7}, {0, 8}} {
			if _, ok := got[p]; !ok {
				it.Errorf("expected pixel %v to be drawn", p)
			}
		}
	})

	t.Run("no line metrics", func(it *testing.T) {
		var (
			s = testSurface(it, 10, 10)
			r Renderer
		)
		r.RenderMessage(s, newTestSource(true), "A\nA", &Params{Y: 0.5, Scale: 1, Color: white})
		got := covered(s)
		// A, replacement for the line break, A
		if len(got) != 12 {
			it.Fatalf("expected 12 pixels drawn on one line, got %d", len(got))
		}
		for p := range got {
			if p[1] != 3 && p[1] != 4 {
				it.Errorf("pixel %v is not on the first line", p)
			}
		}
	})

	t.Run("align", func(it *testing.T) {
		tests := []struct {
			Align Align
			X     int
		}{
			{AlignLeft, 5},
			{AlignRight, 2},
			{AlignCenter, 4},
		}
		for _, test := range tests {
			var (
				s = testSurface(it, 10, 10)
				r Renderer
			)
			r.RenderMessage(s, newTestSource(true), "A", &Params{X: 0.5, Y: 0.5, Scale: 1, Align: test.Align, Color: white})
			if at(s, test.X, 3) == 0 || at(s, test.X-1, 3) != 0 {
				it.Errorf("%s: expected glyph to start at x=%d", test.Align, test.X)
			}
		}
	})

	t.Run("drop shadow", func(it *testing.T) {
		var (
			s = testSurface(it, 10, 10)
			r Renderer
			p = Params{
				X:         0.5,
				Y:         0.5,
				Scale:     1,
				Color:     white,
				DropX:     1,
				DropY:     -1,
				DropMod:   0.5,
				DropAlpha: 1,
			}
		)
		r.RenderMessage(s, newTestSource(true), "A", &p)
		// Shadow at (6,4)-(7,5), text at (5,3)-(6,4); text drawn last.
		if v := at(s, 6, 4); v != 0xffffffff {
			it.Errorf("expected text over shadow, got %#08x", v)
		}
		if v := at(s, 7, 5); v != 0xff7f7f7f {
			it.Errorf("expected shadow %#08x, got %#08x", uint32(0xff7f7f7f), v)
		}
	})

	t.Run("default params", func(it *testing.T) {
		var (
			s = testSurface(it, 100, 100)
			r Renderer
		)
		r.RenderMessage(s, newTestSource(true), "A", nil)
		if v := at(s, 5, 93); v != 0xffffff00 {
			it.Errorf("expected yellow text, got %#08x", v)
		}
	})
}
