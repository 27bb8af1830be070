// Package framebuffer provides access to the operating system's native framebuffer
//
// This requires framebuffer device support in the operating system. A device is
// opened with the [Open] call; [Memory] implements the same [Device] interface
// over plain memory for headless use and testing.
package framebuffer

import "errors"

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrRejected     = errors.New("framebuffer: mode rejected")
	ErrPan          = errors.New("framebuffer: pan out of range")
	ErrMapped       = errors.New("framebuffer: memory already mapped")
)

// Device is a frame buffer device.
type Device interface {
	// FixScreenInfo returns the fixed properties of the screen.
	FixScreenInfo() (FixScreenInfo, error)

	// VarScreenInfo returns the current variable properties of the screen.
	VarScreenInfo() (VarScreenInfo, error)

	// SetVarScreenInfo applies a video mode. The device may adjust the
	// requested values; the applied values are written back to info.
	SetVarScreenInfo(info *VarScreenInfo) error

	// Pan displays the region at info's x and y offsets.
	Pan(info *VarScreenInfo) error

	// WaitForVSync blocks until the next vertical blank.
	WaitForVSync()

	// Map maps size bytes of device memory, starting at offset 0.
	Map(size int) ([]byte, error)

	// Unmap releases memory returned by Map.
	Unmap(mem []byte) error

	// Close the device.
	Close() error
}
