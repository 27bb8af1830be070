// Package pixel implements the pixel formats used by frame buffer devices and the
// conversion and scaling routines that move frames between them.
//
// Packed pixels are stored in native byte order, the way the device memory holds
// them. The color models are compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, so any pixel surface can be used as a
// regular drawing target.
package pixel
