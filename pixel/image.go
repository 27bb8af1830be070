package pixel

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/BeatGlow/fbvideo/draw"
)

// Errors
var (
	ErrFormat      = errors.New("pixel: unsupported format")
	ErrShortBuffer = errors.New("pixel: buffer too small")
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Surface is an image over packed pixel memory that can be written to directly.
type Surface interface {
	Image

	// Format of the packed pixels.
	Format() Format

	// Pixels returns the underlying pixel buffer.
	Pixels() *Buffer
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	clear(p.Pix)
}

func (p *Buffer) Pixels() *Buffer {
	return p
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// NewSurface wraps existing pixel memory of w×h pixels with the given stride. The
// memory is shared, not copied.
func NewSurface(f Format, pix []byte, w, h, stride int) (Surface, error) {
	bpp := f.BytesPerPixel()
	if bpp == 0 || f == RGBA4444 {
		return nil, ErrFormat
	}
	if stride < w*bpp || len(pix) < stride*h {
		return nil, ErrShortBuffer
	}
	b := Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    pix[:stride*h:stride*h],
		Stride: stride,
	}
	if f == RGB565 {
		return &CRGB16Image{Buffer: b, Order: order}, nil
	}
	return &CARGB32Image{Buffer: b, Order: order}, nil
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  order,
	}
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) Format() Format {
	return RGB565
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	v := p.Order.Uint16(p.Pix[x*2+y*p.Stride:])
	return CRGB16{v}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := crgb16Model(c).(CRGB16).V
	p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], v)
}

func (p *CRGB16Image) Fill(c color.Color) {
	p.FillRect(p.Rect, c)
}

// FillRect fills the part of r inside the image with a single color.
func (p *CRGB16Image) FillRect(r image.Rectangle, c color.Color) {
	var pix [2]byte
	p.Order.PutUint16(pix[:], crgb16Model(c).(CRGB16).V)
	fillRect(&p.Buffer, r, pix[:])
}

// CARGB32Image is a 32-bits per pixel 8-8-8-8-bit ARGB image.
type CARGB32Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCARGB32Image(w, h int) *CARGB32Image {
	return &CARGB32Image{
		Buffer: makeBuffer(w, h, w*4, w*4*h),
		Order:  order,
	}
}

func (p *CARGB32Image) ColorModel() color.Model {
	return CARGB32Model
}

func (p *CARGB32Image) Format() Format {
	return ARGB8888
}

func (p *CARGB32Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	return CARGB32{p.Order.Uint32(p.Pix[x*4+y*p.Stride:])}
}

func (p *CARGB32Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	p.Order.PutUint32(p.Pix[x*4+y*p.Stride:], cargb32Model(c).(CARGB32).V)
}

func (p *CARGB32Image) Fill(c color.Color) {
	p.FillRect(p.Rect, c)
}

// FillRect fills the part of r inside the image with a single color.
func (p *CARGB32Image) FillRect(r image.Rectangle, c color.Color) {
	var pix [4]byte
	p.Order.PutUint32(pix[:], cargb32Model(c).(CARGB32).V)
	fillRect(&p.Buffer, r, pix[:])
}

// fillRect repeats one encoded pixel over r, clipped to the buffer bounds.
func fillRect(b *Buffer, r image.Rectangle, pix []byte) {
	r = r.Intersect(b.Rect)
	if r.Empty() {
		return
	}
	var (
		bpp   = len(pix)
		w     = r.Dx() * bpp
		start = (r.Min.Y-b.Rect.Min.Y)*b.Stride + (r.Min.X-b.Rect.Min.X)*bpp
		row   = b.Pix[start : start+w]
	)
	copy(row, pix)
	for n := bpp; n < w; n *= 2 {
		copy(row[n:], row[:n])
	}
	for y := 1; y < r.Dy(); y++ {
		o := start + y*b.Stride
		copy(b.Pix[o:o+w], row)
	}
}

// Interface checks.
var (
	_ Surface = (*CRGB16Image)(nil)
	_ Surface = (*CARGB32Image)(nil)
)
