package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/fbvideo"
	"github.com/BeatGlow/fbvideo/draw"
	"github.com/BeatGlow/fbvideo/glyph"
	"github.com/BeatGlow/fbvideo/pixel"
	"github.com/BeatGlow/fbvideo/text"
)

func main() {
	deviceFlag := flag.String("dev", fbvideo.DefaultDevice, "Frame buffer device")
	widthFlag := flag.Int("width", fbvideo.DefaultConfig.Width, "Video width")
	heightFlag := flag.Int("height", fbvideo.DefaultConfig.Height, "Video height")
	rgb32Flag := flag.Bool("rgb32", false, "Use 32-bit ARGB video")
	keepFlag := flag.Bool("keep-mode", false, "Keep the device's current video mode")
	bigPageFlag := flag.Bool("big-page", false, "Prefer a single big page over smaller pages")
	maxVirtualFlag := flag.Int("max-virtual", 0, "Maximum virtual screen height (0: no limit)")
	aspectFlag := flag.Float64("aspect", 0, "Aspect ratio (0: frame aspect ratio)")
	stretchFlag := flag.Bool("stretch", false, "Stretch frames to the screen")
	noSyncFlag := flag.Bool("no-sync", false, "Don't wait for vertical blank")
	fontFlag := flag.String("font", "", "TrueType or OpenType font file (default: built-in font)")
	fontSizeFlag := flag.Float64("font-size", glyph.DefaultSize, "Font size")
	blPinFlag := flag.String("bl", "", "Backlight GPIO pin")
	fpsFlag := flag.Int("fps", 60, "Frames per second")
	flag.Parse()

	var (
		config = fbvideo.DefaultConfig
		err    error
	)
	config.Device = *deviceFlag
	config.Width = *widthFlag
	config.Height = *heightFlag
	config.RGB32 = *rgb32Flag
	config.KeepDeviceMode = *keepFlag
	config.PreferBigPage = *bigPageFlag
	config.MaxVirtualHeight = *maxVirtualFlag
	config.AspectRatio = *aspectFlag
	config.ScaleWithAspect = !*stretchFlag
	config.Sync = !*noSyncFlag

	if *fontFlag != "" {
		var font *glyph.Source
		if font, err = glyph.Load(*fontFlag, *fontSizeFlag); err != nil {
			fatal(err)
		}
		defer font.Close()
		config.Font = font
		fmt.Printf("using font: %s\n", *fontFlag)
	} else if *fontSizeFlag != glyph.DefaultSize {
		var font *glyph.Source
		if font, err = glyph.Default(*fontSizeFlag); err != nil {
			fatal(err)
		}
		defer font.Close()
		config.Font = font
	}

	if *blPinFlag != "" {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		if config.Backlight = gpioreg.ByName(*blPinFlag); config.Backlight == nil {
			fatal(fmt.Errorf("invalid backlight pin %q", *blPinFlag))
		}
	}

	output, err := fbvideo.Open(&config)
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using output: %s (%.2f Hz)\n", output, output.RefreshRate())

	overlay := &menu{font: config.Font}
	if overlay.font == nil {
		overlay.font = glyph.Builtin()
	}
	output.SetOverlay(overlay)

	keys, restore := readKeys()
	defer restore()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var (
		frame  = newTestFrame(config.Width, config.Height, config.RGB32)
		ticker = time.NewTicker(time.Second / time.Duration(max(*fpsFlag, 1)))
		last   = time.Now()
		frames int
		fps    float64
		offset int
	)
	defer ticker.Stop()

	fmt.Print("hit m to toggle the menu, q to stop...\r\n")
	for {
		select {
		case <-stop:
			return
		case key := <-keys:
			switch key {
			case 'm', 'M':
				output.SetOverlayEnabled(!output.OverlayEnabled())
			case 'q', 'Q', 3: // ^C in raw mode
				return
			case 'j':
				overlay.move(1)
			case 'k':
				overlay.move(-1)
			}
		case <-ticker.C:
		}

		frame.draw(offset)
		offset++

		frames++
		if d := time.Since(last); d >= time.Second {
			fps = float64(frames) / d.Seconds()
			frames, last = 0, time.Now()
		}

		if err = output.PresentFrame(frame.Frame, &fbvideo.FrameOptions{
			Message: fmt.Sprintf("%.1f fps", fps),
		}); err != nil {
			restore()
			_ = output.Close()
			fatal(err)
		}
	}
}

// testFrame is an animated gradient.
type testFrame struct {
	*fbvideo.Frame
	bpp int
}

func newTestFrame(w, h int, rgb32 bool) *testFrame {
	var (
		bpp    = 2
		format = pixel.RGB565
	)
	if rgb32 {
		bpp, format = 4, pixel.ARGB8888
	}
	return &testFrame{
		Frame: &fbvideo.Frame{
			Pix:    make([]byte, w*h*bpp),
			Width:  w,
			Height: h,
			Pitch:  w * bpp,
			Format: format,
		},
		bpp: bpp,
	}
}

func (f *testFrame) draw(offset int) {
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Pitch:]
		for x := 0; x < f.Width; x++ {
			c := pixel.ARGB(0xff, uint8(x+y+offset), uint8(x-y+offset), uint8(x+y-offset))
			pixel.WriteARGB(row[x*f.bpp:], f.Format, c)
		}
	}
	// White border
	white := pixel.ARGB(0xff, 0xff, 0xff, 0xff)
	for x := 0; x < f.Width; x++ {
		pixel.WriteARGB(f.Pix[x*f.bpp:], f.Format, white)
		pixel.WriteARGB(f.Pix[(f.Height-1)*f.Pitch+x*f.bpp:], f.Format, white)
	}
}

// menu is a list of items drawn as the overlay.
type menu struct {
	font     text.Source
	renderer text.Renderer
	selected int
}

var menuItems = []string{
	"Resume",
	"Video settings",
	"Font settings",
	"Quit",
}

func (m *menu) move(delta int) {
	m.selected = (m.selected + delta + len(menuItems)) % len(menuItems)
}

func (m *menu) DrawOverlay(dst pixel.Surface) {
	var (
		size   = dst.Bounds().Size()
		margin = size.X / 16
		frame  = image.Rect(margin, margin, size.X-margin, size.Y-margin)
		white  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	)
	draw.Shade(dst, frame, color.Black, 0x60)
	draw.Rectangle(dst, frame, 2, white)
	draw.Line(dst, image.Pt(frame.Min.X, frame.Min.Y+40), image.Pt(frame.Max.X-1, frame.Min.Y+40), white)
	m.renderer.Draw(dst, m.font, "fbvideo test", 2, white, frame.Min.X+16, frame.Min.Y+32)

	lineHeight := 24
	if metrics, ok := m.font.LineMetrics(); ok {
		lineHeight = int(metrics.Height * 1.5)
	}
	for i, item := range menuItems {
		y := frame.Min.Y + 72 + i*lineHeight
		if i == m.selected {
			draw.Box(dst, image.Rect(frame.Min.X+8, y-lineHeight+6, frame.Max.X-8, y+6), color.NRGBA{R: 0x40, G: 0x70, B: 0xc0, A: 0xff})
		}
		m.renderer.Draw(dst, m.font, item, 1, white, frame.Min.X+16, y)
	}
}

// readKeys puts the terminal in raw mode and sends each key pressed.
func readKeys() (<-chan byte, func()) {
	keys := make(chan byte, 8)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return keys, func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set raw mode: %v\n", err)
		return keys, func() {}
	}
	go func() {
		buf := make([]byte, 1)
		for {
			if n, err := os.Stdin.Read(buf); err != nil {
				return
			} else if n > 0 {
				keys <- buf[0]
			}
		}
	}()
	return keys, func() { _ = term.Restore(fd, state) }
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
