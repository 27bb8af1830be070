package pixel

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Format is a packed pixel encoding.
type Format uint8

// Supported formats.
const (
	Unknown  Format = iota
	RGB565          // 16-bit 5-6-5 RGB
	ARGB8888        // 32-bit 8-8-8-8 ARGB
	RGBA4444        // 16-bit 4-4-4-4 RGBA
)

// order is the byte order of packed pixels in device memory.
var order = binary.NativeEndian

func (f Format) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case ARGB8888:
		return "ARGB8888"
	case RGBA4444:
		return "RGBA4444"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// BytesPerPixel returns the size of one pixel, or 0 for an unknown format.
func (f Format) BytesPerPixel() int {
	switch f {
	case RGB565, RGBA4444:
		return 2
	case ARGB8888:
		return 4
	default:
		return 0
	}
}

// Model returns the color model for the format.
func (f Format) Model() color.Model {
	switch f {
	case RGB565:
		return CRGB16Model
	case ARGB8888:
		return CARGB32Model
	case RGBA4444:
		return CRGBA16Model
	default:
		return nil
	}
}

// ForDepth returns the device format for a depth in bytes per pixel. Devices are
// driven as either RGB565 (2) or ARGB8888 (4).
func ForDepth(bpp int) Format {
	switch bpp {
	case 2:
		return RGB565
	case 4:
		return ARGB8888
	default:
		return Unknown
	}
}

// ReadARGB decodes the pixel at the start of pix to a packed ARGB8888 value.
func ReadARGB(pix []byte, f Format) uint32 {
	switch f {
	case RGB565:
		return rgb565ToARGB(order.Uint16(pix))
	case ARGB8888:
		return order.Uint32(pix)
	case RGBA4444:
		return rgba4444ToARGB(order.Uint16(pix))
	default:
		return 0
	}
}

// WriteARGB encodes a packed ARGB8888 value to the pixel at the start of pix.
func WriteARGB(pix []byte, f Format, c uint32) {
	switch f {
	case RGB565:
		order.PutUint16(pix, argbToRGB565(c))
	case ARGB8888:
		order.PutUint32(pix, c)
	case RGBA4444:
		order.PutUint16(pix, argbToRGBA4444(c))
	}
}

// ARGB packs 8-bit channels into an ARGB8888 value.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func rgb565ToARGB(v uint16) uint32 {
	r := uint32(v>>11) & 0x1f
	g := uint32(v>>5) & 0x3f
	b := uint32(v) & 0x1f
	// Duplicate the high bits in the low bits.
	r = r<<3 | r>>2
	g = g<<2 | g>>4
	b = b<<3 | b>>2
	return 0xff000000 | r<<16 | g<<8 | b
}

func argbToRGB565(c uint32) uint16 {
	return uint16(c>>8&0xf800 | c>>5&0x07e0 | c>>3&0x001f)
}

func rgba4444ToARGB(v uint16) uint32 {
	r := uint32(v>>12) & 0xf
	g := uint32(v>>8) & 0xf
	b := uint32(v>>4) & 0xf
	a := uint32(v) & 0xf
	return a*0x11<<24 | r*0x11<<16 | g*0x11<<8 | b*0x11
}

func argbToRGBA4444(c uint32) uint16 {
	return uint16(c>>20&0xf)<<12 | uint16(c>>12&0xf)<<8 | uint16(c>>4&0xf)<<4 | uint16(c>>28)
}
