package fbvideo

import (
	"fmt"

	"github.com/BeatGlow/fbvideo/internal/logger"
	"github.com/BeatGlow/fbvideo/pixel"
	"github.com/BeatGlow/fbvideo/text"
)

// SetOverlay sets the overlay content drawn while the overlay is enabled and
// no overlay frame is set.
func (e *Engine) SetOverlay(o Overlay) {
	e.overlay = o
}

// SetOverlayEnabled shows or hides the overlay. Hiding it drops the overlay
// frame.
func (e *Engine) SetOverlayEnabled(enabled bool) {
	e.overlayActive = enabled
	if !enabled && e.menu != nil {
		menu := e.menu
		e.menu = nil
		e.release(menu)
	}
}

// OverlayEnabled reports whether the overlay is shown.
func (e *Engine) OverlayEnabled() bool {
	return e.overlayActive
}

// SetOverlayFrame scales a ready-made overlay frame of ARGB8888 (rgb32) or
// RGBA4444 pixels into a page of its own, which is shown instead of the
// overlay content while the overlay is enabled.
func (e *Engine) SetOverlayFrame(pix []byte, rgb32 bool, width, height int) error {
	if e.dev == nil {
		return ErrClosed
	}
	if e.mode == nil {
		return ErrNoMode
	}

	var (
		format = pixel.RGBA4444
		pitch  = width * 2
	)
	if rgb32 {
		format = pixel.ARGB8888
		pitch = width * 4
	}
	logger.Get().Debug("fbvideo: new overlay frame", "width", width, "height", height, "format", format)

	if e.menu != nil {
		menu := e.menu
		e.menu = nil
		e.release(menu)
	}

	p, err := e.scalePage(pix, width, height, pitch, format)
	if err != nil {
		return fmt.Errorf("fbvideo: overlay frame: %w", err)
	}
	e.menu = p
	return nil
}

// composeOverlay makes the overlay the pending page.
func (e *Engine) composeOverlay() {
	if e.menu != nil {
		e.pending = e.menu
		logger.Get().Debug("fbvideo: show overlay page", "page", e.menu)
		return
	}

	m := e.mode
	bg := e.config.MenuBackground
	if err := pixel.Fill(m.Dummy.Buf, m.Format(), m.Width, m.Height, m.Pitch(), pixel.ARGB(bg.A, bg.R, bg.G, bg.B)); err != nil {
		logger.Get().Warn("fbvideo: overlay background", "error", err)
	}
	if e.overlay != nil {
		dst, err := m.Surface(m.Dummy)
		if err != nil {
			logger.Get().Warn("fbvideo: no overlay surface", "error", err)
		} else {
			e.overlay.DrawOverlay(dst)
		}
	}

	p := m.Pool.Acquire()
	copy(p.Buf[p.Offset:], m.Dummy.Buf[:m.FrameSize()])
	e.pending = p
	logger.Get().Debug("fbvideo: show overlay", "page", p)
}

// DrawMessage renders msg onto the page shown at the next flip, or onto the
// scratch page if there is none yet. A nil params uses the configured message
// layout.
func (e *Engine) DrawMessage(msg string, params *text.Params) {
	if e.mode == nil || msg == "" {
		return
	}
	logger.Get().Debug("fbvideo: message", "message", msg)
	if params == nil {
		params = e.config.Message
	}
	e.render(msg, params)
}
