package pixel

import "errors"

// ErrScaler is returned for a scaler type that is not implemented.
var ErrScaler = errors.New("pixel: unsupported scaler")

// ScalerType selects the resampling algorithm.
type ScalerType uint8

// Scalers
const (
	ScalePoint ScalerType = iota // nearest neighbor
)

// ScaleContext describes one scale/convert pass.
type ScaleContext struct {
	// In is the source pixel format.
	In Format

	// Out is the destination pixel format.
	Out Format

	// Scaler is the resampling algorithm.
	Scaler ScalerType
}

// ScaleBlit resamples the srcW×srcH source into the dstW×dstH destination,
// converting from ctx.In to ctx.Out in the same pass. Pitches are in bytes.
// Nothing is allocated; the buffers must not overlap.
func ScaleBlit(ctx ScaleContext, dst []byte, dstW, dstH, dstPitch int, src []byte, srcW, srcH, srcPitch int) error {
	if ctx.Scaler != ScalePoint {
		return ErrScaler
	}
	var (
		ibpp = ctx.In.BytesPerPixel()
		obpp = ctx.Out.BytesPerPixel()
	)
	if ibpp == 0 || obpp == 0 {
		return ErrFormat
	}
	if dstW <= 0 || dstH <= 0 || srcW <= 0 || srcH <= 0 {
		return nil
	}
	if !fits(dst, dstW*obpp, dstH, dstPitch) || !fits(src, srcW*ibpp, srcH, srcPitch) {
		return ErrShortBuffer
	}

	same := ctx.In == ctx.Out
	for y := 0; y < dstH; y++ {
		var (
			sy   = y * srcH / dstH
			srow = src[sy*srcPitch : sy*srcPitch+srcW*ibpp]
			drow = dst[y*dstPitch : y*dstPitch+dstW*obpp]
		)
		if same && srcW == dstW {
			copy(drow, srow)
			continue
		}
		for x := 0; x < dstW; x++ {
			var (
				s = srow[x*srcW/dstW*ibpp:]
				d = drow[x*obpp:]
			)
			if same {
				copy(d[:obpp], s[:ibpp])
			} else {
				WriteARGB(d, ctx.Out, ReadARGB(s, ctx.In))
			}
		}
	}
	return nil
}

// fits reports whether h rows of w bytes spaced pitch bytes apart fit in b.
func fits(b []byte, w, h, pitch int) bool {
	return pitch >= w && len(b) >= (h-1)*pitch+w
}

// Blend mixes the color (r, g, b) into the pixel at the start of pix with weight
// alpha: 0 leaves the pixel untouched, 255 replaces it.
func Blend(pix []byte, f Format, alpha, r, g, b uint8) {
	switch alpha {
	case 0:
		return
	case 0xff:
		WriteARGB(pix, f, ARGB(0xff, r, g, b))
		return
	}
	c := ReadARGB(pix, f)
	WriteARGB(pix, f, ARGB(
		uint8(c>>24),
		blendChannel(alpha, uint8(c>>16), r),
		blendChannel(alpha, uint8(c>>8), g),
		blendChannel(alpha, uint8(c), b),
	))
}

func blendChannel(alpha, c1, c2 uint8) uint8 {
	return uint8(((255-uint32(alpha))*uint32(c1) + uint32(alpha)*uint32(c2)) >> 8)
}

// Fill writes the ARGB8888 color c to every pixel of a w×h region.
func Fill(dst []byte, f Format, w, h, pitch int, c uint32) error {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return ErrFormat
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if !fits(dst, w*bpp, h, pitch) {
		return ErrShortBuffer
	}
	var (
		n   = w * bpp
		row = dst[:n]
	)
	WriteARGB(row, f, c)
	for i := bpp; i < n; i *= 2 {
		copy(row[i:], row[:i])
	}
	for y := 1; y < h; y++ {
		copy(dst[y*pitch:y*pitch+n], row)
	}
	return nil
}
