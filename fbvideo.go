// Package fbvideo shows video frames on a Linux frame buffer device.
//
// An [Engine] negotiates a video mode with the device, splits the device
// memory into up to three pages and presents each frame by scaling it into a
// free page and panning the display to it. Overlays (menus) and on-screen
// messages are composed into the same pages.
//
// The engine is single-threaded: callers must serialize all calls.
package fbvideo

import (
	"errors"
	"image/color"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/fbvideo/pixel"
	"github.com/BeatGlow/fbvideo/text"
)

// DefaultDevice is the frame buffer device opened by default.
const DefaultDevice = "/dev/fb0"

// Errors
var (
	ErrClosed = errors.New("fbvideo: engine closed")
	ErrNoMode = errors.New("fbvideo: no active video mode")
)

// Driver is a video output.
type Driver interface {
	// PresentFrame composes and shows one frame.
	PresentFrame(*Frame, *FrameOptions) error

	// SetSync toggles waiting for the vertical blank before each flip.
	SetSync(bool)

	// Viewport returns the video geometry.
	Viewport() Viewport

	// Close the driver.
	Close() error
}

// Config is the engine configuration.
type Config struct {
	// Device is the frame buffer device path.
	Device string

	// Width and Height of the video in pixels; the first frame of another
	// size triggers a mode change.
	Width, Height int

	// RGB32 selects 32-bit ARGB8888 video, else 16-bit RGB565.
	RGB32 bool

	// KeepDeviceMode uses the device's current resolution and depth.
	KeepDeviceMode bool

	// MaxVirtualHeight limits the virtual screen height, 0 for no limit.
	MaxVirtualHeight int

	// PreferBigPage allows a single page taller than the screen before
	// falling back to smaller pages.
	PreferBigPage bool

	// ScaleWithAspect keeps the frame aspect ratio, filling the borders with
	// black.
	ScaleWithAspect bool

	// AspectRatio overrides the frame aspect ratio when non-zero.
	AspectRatio float64

	// Sync waits for the vertical blank before each flip.
	Sync bool

	// Font renders messages. Nil uses the built-in 7×13 font.
	Font text.Source

	// Message is the layout of on-screen messages. Nil uses
	// text.DefaultParams.
	Message *text.Params

	// MenuBackground fills the overlay before it is drawn.
	MenuBackground color.NRGBA

	// Backlight pin, turned on when the engine opens and off when it closes.
	Backlight gpio.PinOut
}

// DefaultConfig is used if no configuration is given.
var DefaultConfig = Config{
	Device:          DefaultDevice,
	Width:           640,
	Height:          480,
	ScaleWithAspect: true,
	Sync:            true,
	MenuBackground:  color.NRGBA{R: 0x10, G: 0x4e, B: 0x8b, A: 0xff}, // DodgerBlue4
}

// Frame is one video frame.
type Frame struct {
	// Pix holds Height rows of Pitch bytes.
	Pix []byte

	// Width and Height in pixels.
	Width, Height int

	// Pitch is the number of bytes per row.
	Pitch int

	// Format of the pixels. Unknown means the configured video format.
	Format pixel.Format
}

// FrameOptions are the per-frame extras.
type FrameOptions struct {
	// Message is shown on top of the frame.
	Message string

	// Stats is a statistics text, shown with StatsParams (or the message
	// layout if nil). It is not drawn over overlays.
	Stats       string
	StatsParams *text.Params
}

// Overlay draws overlay content, such as a menu.
type Overlay interface {
	// DrawOverlay draws onto dst, which holds the background color.
	DrawOverlay(dst pixel.Surface)
}

// OverlayFunc is an Overlay function.
type OverlayFunc func(dst pixel.Surface)

// DrawOverlay calls f(dst).
func (f OverlayFunc) DrawOverlay(dst pixel.Surface) {
	f(dst)
}

// Viewport is the video geometry.
type Viewport struct {
	X, Y       int
	Width      int
	Height     int
	FullWidth  int
	FullHeight int
}
