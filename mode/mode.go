// Package mode negotiates a video mode with a frame buffer device and splits the
// device memory into back buffer pages.
//
// The negotiation walks a fixed retry ladder. Each attempt offers the device
// fewer options than the one before:
//
//  1. fit as many pages as possible (up to [MaxPages]) of at least the
//     requested height in device memory, then try MaxPages, MaxPages-1, ... 1
//     pages of that height;
//  2. switch to the alternate pixel depth (2 ⇄ 4 bytes) and repeat;
//  3. go back to the requested depth with pages of exactly the requested
//     height;
//  4. give up with [ErrNoMode].
//
// A single page taller than the screen is only used when [Policy.PreferBigPage]
// is set; otherwise double or triple buffering with smaller pages wins.
package mode

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/fbvideo/framebuffer"
	"github.com/BeatGlow/fbvideo/internal/logger"
	"github.com/BeatGlow/fbvideo/page"
	"github.com/BeatGlow/fbvideo/pixel"
)

// MaxPages is the maximum number of pages in a mode.
const MaxPages = 3

// Errors
var (
	ErrNoMode           = errors.New("mode: device accepted no video mode")
	ErrUnsupportedDepth = errors.New("mode: unsupported pixel depth")
	ErrGeometry         = errors.New("mode: invalid geometry")
)

// Request is the wanted screen geometry.
type Request struct {
	Width         int
	Height        int
	BytesPerPixel int
}

// Policy tunes the negotiation.
type Policy struct {
	// KeepDeviceMode uses the device's current resolution and depth instead
	// of the request.
	KeepDeviceMode bool

	// MaxVirtualHeight limits the virtual screen height, 0 for no limit.
	MaxVirtualHeight int

	// PreferBigPage allows a single page taller than the screen before
	// falling back to smaller pages.
	PreferBigPage bool
}

// State is a negotiated mode.
type State struct {
	// Width and Height are the visible resolution.
	Width, Height int

	// BytesPerPixel is 2 (RGB565) or 4 (ARGB8888).
	BytesPerPixel int

	// PageHeight is the number of rows in each page, at least Height.
	PageHeight int

	// PageCount is the number of pages, 1 to MaxPages.
	PageCount int

	// PageSize is Width * BytesPerPixel * PageHeight.
	PageSize int

	// Info is the screen info as applied by the device.
	Info framebuffer.VarScreenInfo
}

// Pitch is the number of bytes in one row.
func (s *State) Pitch() int {
	return s.Width * s.BytesPerPixel
}

// Format is the pixel format of the pages.
func (s *State) Format() pixel.Format {
	return pixel.ForDepth(s.BytesPerPixel)
}

type step uint8

const (
	tryAuto        step = iota // derive the page height from device memory
	tryApply                   // offer MaxPages..1 pages to the device
	tryAltDepth                // switch to the alternate pixel depth
	tryFixedHeight             // requested depth, pages of the requested height
	failed
	done
)

func (s step) String() string {
	switch s {
	case tryAuto:
		return "auto"
	case tryApply:
		return "apply"
	case tryAltDepth:
		return "alt-depth"
	case tryFixedHeight:
		return "fixed-height"
	case failed:
		return "failed"
	default:
		return "done"
	}
}

type ladder struct {
	dev         framebuffer.Device
	info        framebuffer.VarScreenInfo
	policy      Policy
	surfaceSize int
	width       int
	height      int
	bpp         int // requested
	depth       int // current
	pageHeight  int
}

// Negotiate finds a mode the device accepts for the request, given surfaceSize
// bytes of device memory.
func Negotiate(dev framebuffer.Device, surfaceSize int, req Request, policy Policy) (State, error) {
	log := logger.Get()

	info, err := dev.VarScreenInfo()
	if err != nil {
		return State{}, fmt.Errorf("mode: get variable screen info: %w", err)
	}
	log.Debug("mode: device screen info", "info", info)

	if policy.KeepDeviceMode {
		req.Width = int(info.Xres)
		req.Height = int(info.Yres)
		req.BytesPerPixel = info.BytesPerPixel()
	}
	if req.Width <= 0 || req.Height <= 0 || req.BytesPerPixel <= 0 {
		return State{}, fmt.Errorf("%w: %dx%d at %d bytes per pixel", ErrGeometry, req.Width, req.Height, req.BytesPerPixel)
	}

	info.Activate = framebuffer.ActivateNow
	info.AccelFlags = 0
	info.Xres = uint32(req.Width)
	info.Yres = uint32(req.Height)
	info.XresVirtual = uint32(req.Width)
	info.Xoffset = 0
	info.Yoffset = 0
	info.Red = framebuffer.BitField{}
	info.Green = framebuffer.BitField{}
	info.Blue = framebuffer.BitField{}
	info.Alpha = framebuffer.BitField{}

	l := &ladder{
		dev:         dev,
		info:        info,
		policy:      policy,
		surfaceSize: surfaceSize,
		width:       req.Width,
		height:      req.Height,
		bpp:         req.BytesPerPixel,
		depth:       req.BytesPerPixel,
	}
	if l.run() == failed {
		return State{}, fmt.Errorf("%w: %dx%d at %d bytes per pixel", ErrNoMode, req.Width, req.Height, req.BytesPerPixel)
	}
	log.Debug("mode: applied screen info", "info", l.info)

	return l.state()
}

func (l *ladder) run() step {
	st := tryAuto
	for st != done && st != failed {
		switch st {
		case tryAuto:
			l.auto()
			st = tryApply

		case tryApply:
			if l.apply() {
				st = done
			} else {
				st = l.next()
			}

		case tryAltDepth:
			if l.depth == 4 {
				l.depth = 2
			} else {
				l.depth = 4
			}
			logger.Get().Info("mode: retrying with alternate depth", "bpp", l.depth)
			if l.pageHeight == l.height {
				st = tryApply
			} else {
				st = tryAuto
			}

		case tryFixedHeight:
			l.depth = l.bpp
			l.pageHeight = l.height
			logger.Get().Info("mode: retrying with fixed page height", "page_height", l.pageHeight)
			st = tryApply
		}
	}
	return st
}

// next picks the step after the device rejected every page count.
func (l *ladder) next() step {
	switch {
	case l.depth == l.bpp:
		return tryAltDepth
	case l.pageHeight == l.height:
		return failed
	default:
		return tryFixedHeight
	}
}

// auto computes the tallest page height that still fits the most pages.
func (l *ladder) auto() {
	virtual := l.surfaceSize / l.width / l.depth
	if limit := l.policy.MaxVirtualHeight; limit > 0 && virtual > limit {
		virtual = limit
	}
	for i := MaxPages; i > 0; i-- {
		if l.pageHeight = virtual / i; l.pageHeight >= l.height {
			break
		}
	}
}

// apply offers MaxPages down to 1 pages of the current height to the device.
func (l *ladder) apply() bool {
	log := logger.Get()
	for n := MaxPages; n > 0; n-- {
		if n == 1 && l.pageHeight > l.height && !l.policy.PreferBigPage {
			// Prefer several smaller pages over a single big one.
			return false
		}
		if limit := l.policy.MaxVirtualHeight; limit > 0 && n*l.pageHeight > limit {
			continue
		}

		want := l.info
		want.BitsPerPixel = uint32(l.depth * 8)
		want.YresVirtual = uint32(n * l.pageHeight)
		log.Debug("mode: trying", "pages", n, "page_height", l.pageHeight, "info", want)
		if err := l.dev.SetVarScreenInfo(&want); err != nil {
			log.Debug("mode: rejected", "pages", n, "error", err)
			continue
		}
		l.info = want
		return true
	}
	return false
}

func (l *ladder) state() (State, error) {
	s := State{
		Width:         int(l.info.Xres),
		Height:        int(l.info.Yres),
		BytesPerPixel: l.info.BytesPerPixel(),
		PageHeight:    l.pageHeight,
		Info:          l.info,
	}
	if s.BytesPerPixel != 2 && s.BytesPerPixel != 4 {
		return State{}, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedDepth, l.info.BitsPerPixel)
	}
	if s.Width <= 0 || s.PageHeight <= 0 {
		return State{}, fmt.Errorf("%w: %dx%d pages", ErrGeometry, s.Width, s.PageHeight)
	}

	s.PageCount = min(int(l.info.YresVirtual)/s.PageHeight, MaxPages)
	s.PageSize = s.Pitch() * s.PageHeight
	for s.PageCount > 0 && s.PageCount*s.PageSize > l.surfaceSize {
		s.PageCount--
	}
	if s.PageCount == 0 {
		return State{}, fmt.Errorf("%w: no room for a %d byte page", ErrGeometry, s.PageSize)
	}
	return s, nil
}

// Mode is an active video mode with its pages.
type Mode struct {
	State

	// Pool holds the pages in device memory.
	Pool *page.Pool

	// Dummy is a scratch page of the same size, used to compose when no
	// device page is available.
	Dummy *page.Page
}

// Init negotiates a mode and partitions mem, the mapped device memory, into
// pages.
func Init(dev framebuffer.Device, mem []byte, req Request, policy Policy) (*Mode, error) {
	s, err := Negotiate(dev, len(mem), req, policy)
	if err != nil {
		return nil, err
	}
	pool, err := page.NewPool(mem, s.PageCount, s.PageSize)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("mode: initialised",
		"width", s.Width,
		"height", s.Height,
		"bpp", s.BytesPerPixel*8,
		"pages", s.PageCount,
		"page_height", s.PageHeight)

	return &Mode{
		State: s,
		Pool:  pool,
		Dummy: page.NewScratch(s.PageSize),
	}, nil
}

// Deinit frees all pages and releases the scratch page. Device pages need no
// release; they are views into device memory.
func (m *Mode) Deinit() {
	m.Pool.Reset()
	m.Dummy = nil
}

// Surface returns the visible part of p as a drawing surface.
func (m *Mode) Surface(p *page.Page) (pixel.Surface, error) {
	return pixel.NewSurface(m.Format(), p.Buf[p.Offset:], m.Width, m.Height, m.Pitch())
}

// FrameSize is the number of bytes in one visible frame.
func (m *Mode) FrameSize() int {
	return m.Pitch() * m.Height
}
