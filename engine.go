package fbvideo

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/fbvideo/framebuffer"
	"github.com/BeatGlow/fbvideo/glyph"
	"github.com/BeatGlow/fbvideo/internal/logger"
	"github.com/BeatGlow/fbvideo/mode"
	"github.com/BeatGlow/fbvideo/page"
	"github.com/BeatGlow/fbvideo/pixel"
	"github.com/BeatGlow/fbvideo/text"
)

// Engine presents frames on a frame buffer device.
type Engine struct {
	dev    framebuffer.Device
	mem    []byte
	config Config

	// video geometry, as requested by the frames
	width  int
	height int
	bpp    int

	// mode is nil when no mode is active.
	mode *mode.Mode

	// current is the visible page, pending the page shown at the next flip
	// and menu the page holding the overlay frame.
	current *page.Page
	pending *page.Page
	menu    *page.Page

	sync          bool
	overlay       Overlay
	overlayActive bool

	font     text.Source
	ownFont  bool
	renderer text.Renderer
}

// Open the frame buffer device named in config. A nil config uses
// DefaultConfig.
func Open(config *Config) (*Engine, error) {
	if config == nil {
		config = &DefaultConfig
	}
	name := config.Device
	if name == "" {
		name = DefaultDevice
	}
	dev, err := framebuffer.Open(name)
	if err != nil {
		return nil, err
	}
	e, err := New(dev, config)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	return e, nil
}

// New starts an engine on an open device. The engine owns dev from here on,
// unless an error is returned. A nil config uses DefaultConfig.
func New(dev framebuffer.Device, config *Config) (*Engine, error) {
	if config == nil {
		config = &DefaultConfig
	}

	fix, err := dev.FixScreenInfo()
	if err != nil {
		return nil, fmt.Errorf("fbvideo: get fixed screen info: %w", err)
	}
	logger.Get().Debug("fbvideo: device", "id", fix.Name(), "memory", fix.SmemLen)

	mem, err := dev.Map(int(fix.SmemLen))
	if err != nil {
		return nil, fmt.Errorf("fbvideo: map %d bytes: %w", fix.SmemLen, err)
	}
	clear(mem)

	e := &Engine{
		dev:    dev,
		mem:    mem,
		config: *config,
		width:  config.Width,
		height: config.Height,
		bpp:    2,
		sync:   config.Sync,
		font:   config.Font,
	}
	if config.RGB32 {
		e.bpp = 4
	}

	if err = e.init(); err != nil {
		_ = dev.Unmap(mem)
		return nil, err
	}

	if e.font == nil {
		e.font = glyph.Builtin()
		e.ownFont = true
	}

	if config.Backlight != nil {
		if err = config.Backlight.Out(gpio.High); err != nil {
			e.deinit()
			_ = dev.Unmap(mem)
			return nil, fmt.Errorf("fbvideo: backlight: %w", err)
		}
	}

	logger.Get().Info("fbvideo: initialised video", "width", e.width, "height", e.height, "bpp", e.bpp*8)
	return e, nil
}

func (e *Engine) String() string {
	if e.mode == nil {
		return "fbvideo (no mode)"
	}
	return fmt.Sprintf("fbvideo %dx%d-%d, %d pages", e.mode.Width, e.mode.Height, e.mode.BytesPerPixel*8, e.mode.PageCount)
}

func (e *Engine) init() error {
	m, err := mode.Init(e.dev, e.mem, mode.Request{
		Width:         e.width,
		Height:        e.height,
		BytesPerPixel: e.bpp,
	}, mode.Policy{
		KeepDeviceMode:   e.config.KeepDeviceMode,
		MaxVirtualHeight: e.config.MaxVirtualHeight,
		PreferBigPage:    e.config.PreferBigPage,
	})
	if err != nil {
		return err
	}
	e.mode = m
	e.current, e.pending, e.menu = nil, nil, nil
	return nil
}

func (e *Engine) deinit() {
	if e.mode != nil {
		e.mode.Deinit()
		e.mode = nil
	}
	e.current, e.pending, e.menu = nil, nil, nil
}

// PresentFrame composes and shows one frame. A nil frame with no active
// overlay is a no-op.
//
// A frame of another size than the previous one changes the video mode. If no
// mode can be set, the error is returned and the engine retries on the next
// frame. Frames that can not be scaled are dropped without an error.
func (e *Engine) PresentFrame(f *Frame, opts *FrameOptions) error {
	if e.dev == nil {
		return ErrClosed
	}
	if !e.overlayActive && f == nil {
		return nil
	}
	log := logger.Get()

	if f != nil && (f.Width != e.width || f.Height != e.height || e.mode == nil) {
		log.Info("fbvideo: mode set (resolution changed)", "width", f.Width, "height", f.Height)
		e.deinit()
		e.dev.WaitForVSync()
		e.width, e.height = f.Width, f.Height
		if err := e.init(); err != nil {
			return fmt.Errorf("fbvideo: reinit screen: %w", err)
		}
	} else if e.mode == nil {
		if err := e.init(); err != nil {
			return fmt.Errorf("fbvideo: reinit screen: %w", err)
		}
	}

	if e.overlayActive {
		e.composeOverlay()
	}

	if e.pending == nil && f != nil {
		p, err := e.scalePage(f.Pix, f.Width, f.Height, f.Pitch, e.frameFormat(f))
		if err != nil {
			log.Warn("fbvideo: failed to display frame", "error", err)
		} else {
			e.pending = p
			if opts != nil && opts.Stats != "" {
				params := opts.StatsParams
				if params == nil {
					params = e.config.Message
				}
				e.render(opts.Stats, params)
			}
		}
	}

	if opts != nil && opts.Message != "" {
		e.render(opts.Message, e.config.Message)
	}

	e.flip()
	return nil
}

func (e *Engine) frameFormat(f *Frame) pixel.Format {
	if f.Format != pixel.Unknown {
		return f.Format
	}
	return pixel.ForDepth(e.bpp)
}

// scalePage scales a frame into a free page. On error the page is given back.
func (e *Engine) scalePage(src []byte, width, height, pitch int, format pixel.Format) (*page.Page, error) {
	var (
		m   = e.mode
		p   = m.Pool.Acquire()
		err = e.scale(p.Buf[p.Offset:], src, width, height, pitch, format)
	)
	if err != nil {
		e.release(p)
		return nil, err
	}
	return p, nil
}

// scale fills one screen of dst with the frame, letterboxed when the aspect
// ratio is kept.
func (e *Engine) scale(dst, src []byte, width, height, pitch int, format pixel.Format) error {
	var (
		m      = e.mode
		out    = m.Format()
		bpp    = m.BytesPerPixel
		stride = m.Pitch()
		w, h   = m.Width, m.Height
		x, y   int
	)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("fbvideo: invalid frame size %dx%d", width, height)
	}

	if e.config.ScaleWithAspect {
		aspect := e.config.AspectRatio
		if aspect <= 0 {
			aspect = float64(width) / float64(height)
		}
		if float64(w) > float64(h)*aspect {
			w = int(float64(h) * aspect)
			x = (m.Width - w) / 2
		} else {
			h = int(float64(w) / aspect)
			y = (m.Height - h) / 2
		}

		// Borders
		for _, r := range [][4]int{
			{0, 0, m.Width, y},
			{0, y + h, m.Width, m.Height - y - h},
			{0, y, x, h},
			{x + w, y, m.Width - x - w, h},
		} {
			if err := pixel.Fill(dst[r[1]*stride+r[0]*bpp:], out, r[2], r[3], stride, 0); err != nil {
				return err
			}
		}
	}

	logger.Get().Debug("fbvideo: scale",
		"src", fmt.Sprintf("%dx%d(%d)", width, height, pitch),
		"dst", fmt.Sprintf("%dx%d+%d+%d", w, h, x, y))

	return pixel.ScaleBlit(pixel.ScaleContext{
		In:     format,
		Out:    out,
		Scaler: pixel.ScalePoint,
	}, dst[y*stride+x*bpp:], w, h, stride, src, width, height, pitch)
}

// release gives p back to the pool, unless it is on screen or holds the menu.
func (e *Engine) release(p *page.Page) {
	if p == nil || p == e.current || p == e.menu {
		return
	}
	e.mode.Pool.Release(p)
}

// target is the page text is drawn onto.
func (e *Engine) target() *page.Page {
	if e.pending != nil {
		return e.pending
	}
	return e.mode.Dummy
}

func (e *Engine) render(msg string, params *text.Params) {
	dst, err := e.mode.Surface(e.target())
	if err != nil {
		logger.Get().Warn("fbvideo: no surface for message", "error", err)
		return
	}
	e.renderer.RenderMessage(dst, e.font, msg, params)
}

// flip shows the pending page.
func (e *Engine) flip() {
	log := logger.Get()
	if e.sync {
		e.dev.WaitForVSync()
	}
	if e.pending == nil {
		log.Debug("fbvideo: nothing to display")
		return
	}

	var (
		m      = e.mode
		pitch  = m.Pitch()
		offset = e.pending.Base() + e.pending.Offset
		info   = m.Info
	)
	info.Yoffset = uint32(offset / pitch)
	info.Xoffset = uint32(offset % pitch / m.BytesPerPixel)
	if err := e.dev.Pan(&info); err != nil {
		log.Warn("fbvideo: pan failed", "page", e.pending, "error", err)
		e.release(e.pending)
		e.pending = nil
		return
	}
	m.Info.Xoffset, m.Info.Yoffset = info.Xoffset, info.Yoffset
	log.Debug("fbvideo: flip", "x", info.Xoffset, "y", info.Yoffset)

	if e.current != nil && e.current != e.pending && e.current != e.menu {
		m.Pool.Release(e.current)
	}
	e.current = e.pending
	e.current.Used = true
	e.pending = nil
}

// SetSync toggles waiting for the vertical blank before each flip.
func (e *Engine) SetSync(sync bool) {
	e.sync = sync
}

// Viewport returns the video geometry.
func (e *Engine) Viewport() Viewport {
	return Viewport{
		Width:      e.width,
		Height:     e.height,
		FullWidth:  e.width,
		FullHeight: e.height,
	}
}

// RefreshRate is the display refresh rate in Hz, 0 if unknown.
func (e *Engine) RefreshRate() float64 {
	if e.mode == nil {
		return 0
	}
	return e.mode.Info.RefreshRate()
}

// Close the engine and the device.
func (e *Engine) Close() error {
	if e.dev == nil {
		return ErrClosed
	}
	var errs []error

	e.deinit()
	if e.ownFont {
		errs = append(errs, e.font.Close())
	}
	if e.config.Backlight != nil {
		errs = append(errs, e.config.Backlight.Out(gpio.Low))
	}
	errs = append(errs, e.dev.Unmap(e.mem), e.dev.Close())

	e.dev, e.mem, e.font = nil, nil, nil
	return errors.Join(errs...)
}

var _ Driver = (*Engine)(nil)
