package glyph

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/fbvideo/pixel"
	"github.com/BeatGlow/fbvideo/text"
)

func TestBuiltin(t *testing.T) {
	s := Builtin()
	defer s.Close()

	g, ok := s.Glyph('A')
	if !ok {
		t.Fatal("expected glyph for 'A'")
	}
	if g.AdvanceX != 7 {
		t.Errorf("expected advance 7, got %d", g.AdvanceX)
	}
	if g.Height != 13 || g.DrawOffsetY != -11 {
		t.Errorf("expected 13 rows starting 11 above the baseline, got %d at %d", g.Height, g.DrawOffsetY)
	}
	if g.Width == 0 {
		t.Error("expected glyph width")
	}

	if again, _ := s.Glyph('A'); again != g {
		t.Error("expected cached glyph")
	}

	m, ok := s.LineMetrics()
	if !ok {
		t.Fatal("expected line metrics")
	}
	if m.Height != 13 {
		t.Errorf("expected line height 13, got %g", m.Height)
	}
}

func TestAtlas(t *testing.T) {
	s, err := Default(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var cells []image.Rectangle
	for r := rune(0x21); r < 0x7f; r++ {
		g, ok := s.Glyph(r)
		if !ok {
			t.Fatalf("expected glyph for %q", r)
		}
		cell := image.Rect(g.AtlasOffsetX, g.AtlasOffsetY, g.AtlasOffsetX+g.Width, g.AtlasOffsetY+g.Height)
		if cell.Empty() {
			t.Errorf("glyph %q has no bitmap", r)
			continue
		}
		cells = append(cells, cell)
	}

	atlas := s.Atlas()
	if len(atlas.Buffer) != atlas.Width*atlas.Height {
		t.Fatalf("atlas buffer of %d bytes for %dx%d", len(atlas.Buffer), atlas.Width, atlas.Height)
	}
	bounds := image.Rect(0, 0, atlas.Width, atlas.Height)
	for i, a := range cells {
		if !a.In(bounds) {
			t.Errorf("cell %s outside atlas %s", a, bounds)
		}
		for _, b := range cells[i+1:] {
			if a.Overlaps(b) {
				t.Errorf("cells %s and %s overlap", a, b)
			}
		}
	}

	// Growing the atlas must keep earlier glyphs intact.
	g, _ := s.Glyph('!')
	var sum int
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sum += int(atlas.Buffer[(g.AtlasOffsetY+y)*atlas.Width+g.AtlasOffsetX+x])
		}
	}
	if sum == 0 {
		t.Error("expected coverage for '!' after atlas growth")
	}
}

func TestParse(t *testing.T) {
	t.Run("truetype", func(it *testing.T) {
		s, err := ParseTrueType(goregular.TTF, 12)
		if err != nil {
			it.Fatal(err)
		}
		defer s.Close()
		if _, ok := s.Glyph('g'); !ok {
			it.Error("expected glyph for 'g'")
		}
	})

	t.Run("opentype", func(it *testing.T) {
		s, err := ParseOpenType(goregular.TTF, 12)
		if err != nil {
			it.Fatal(err)
		}
		defer s.Close()
		g, ok := s.Glyph('g')
		if !ok {
			it.Fatal("expected glyph for 'g'")
		}
		if g.DrawOffsetY+g.Height <= 0 {
			it.Error("expected descender below the baseline")
		}
	})

	t.Run("invalid", func(it *testing.T) {
		garbage := []byte("not a font")
		if _, err := ParseTrueType(garbage, 12); !errors.Is(err, ErrFont) {
			it.Errorf("expected %v, got %v", ErrFont, err)
		}
		if _, err := ParseOpenType(garbage, 12); !errors.Is(err, ErrFont) {
			it.Errorf("expected %v, got %v", ErrFont, err)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	name := filepath.Join(dir, "goregular.ttf")
	if err := os.WriteFile(name, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(name, DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err = Load(filepath.Join(dir, "missing.ttf"), DefaultSize); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %v, got %v", os.ErrNotExist, err)
	}

	bad := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = Load(bad, DefaultSize); !errors.Is(err, ErrFont) {
		t.Errorf("expected %v, got %v", ErrFont, err)
	}
}

func TestRender(t *testing.T) {
	const w, h = 64, 32
	dst, err := pixel.NewSurface(pixel.RGB565, make([]byte, w*h*2), w, h, w*2)
	if err != nil {
		t.Fatal(err)
	}

	var (
		s = Builtin()
		r text.Renderer
	)
	r.Draw(dst, s, "Hi", 1, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, 2, 20)

	var lit int
	for _, b := range dst.Pixels().Pix {
		if b != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected text pixels")
	}
	if v := text.MessageWidth(s, "Hi", 2); v != 28 {
		t.Errorf("expected message width 28, got %d", v)
	}
}
