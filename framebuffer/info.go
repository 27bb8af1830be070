package framebuffer

import (
	"bytes"
	"log/slog"

	"github.com/BeatGlow/fbvideo/pixel"
)

// Activation flags (FB_ACTIVATE_*).
const (
	ActivateNow  = 0
	ActivateTest = 2 // validate only, don't set
	activateMask = 0xf
)

// FixScreenInfo are the fixed parameters of a screen (struct fb_fix_screeninfo).
type FixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // FB_CAP_
	Reserved     [2]uint16 // Reserved for future compatibility
}

// Name is the identification string.
func (info *FixScreenInfo) Name() string {
	if i := bytes.IndexByte(info.ID[:], 0); i >= 0 {
		return string(info.ID[:i])
	}
	return string(info.ID[:])
}

// BitField describes one color channel.
type BitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// VarScreenInfo contains device independent changeable information about a
// frame buffer device and a specific video mode (struct fb_var_screeninfo).
type VarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha BitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32 // pixel clock in ps (pico seconds)
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// BytesPerPixel is the pixel depth rounded up to whole bytes.
func (info *VarScreenInfo) BytesPerPixel() int {
	return int(info.BitsPerPixel+7) / 8
}

// Format returns the packed pixel format used for the pixel depth.
func (info *VarScreenInfo) Format() pixel.Format {
	return pixel.ForDepth(info.BytesPerPixel())
}

// RefreshRate computes the refresh rate in Hz from the mode timings. It returns
// 0 if the device does not report a pixel clock.
func (info *VarScreenInfo) RefreshRate() float64 {
	var (
		htotal = float64(info.Xres + info.LeftMargin + info.RightMargin + info.HsyncLen)
		vtotal = float64(info.Yres + info.UpperMargin + info.LowerMargin + info.VsyncLen)
	)
	if info.Pixclock == 0 || htotal == 0 || vtotal == 0 {
		return 0
	}
	return 1e12 / float64(info.Pixclock) / htotal / vtotal
}

// LogValue implements [slog.LogValuer].
func (info VarScreenInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("xres", int(info.Xres)),
		slog.Int("yres", int(info.Yres)),
		slog.Int("xres_virtual", int(info.XresVirtual)),
		slog.Int("yres_virtual", int(info.YresVirtual)),
		slog.Int("xoffset", int(info.Xoffset)),
		slog.Int("yoffset", int(info.Yoffset)),
		slog.Int("bits_per_pixel", int(info.BitsPerPixel)),
		slog.Int("grayscale", int(info.Grayscale)),
		slog.Int("activate", int(info.Activate)),
		slog.Int("pixclock", int(info.Pixclock)),
		slog.Int("vmode", int(info.Vmode)),
		slog.Any("red", info.Red),
		slog.Any("green", info.Green),
		slog.Any("blue", info.Blue),
		slog.Any("alpha", info.Alpha),
	)
}

// LogValue implements [slog.LogValuer].
func (f BitField) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("length", int(f.Length)),
		slog.Int("offset", int(f.Offset)),
	)
}
