package framebuffer

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/fbvideo/internal/ioctl"
)

// From <linux/fb.h>
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioPanDisplay     = 0x4606
)

var fbioWaitForVSync = ioctl.Encode(ioctl.Write, 4, 'F'<<8|0x20)

type linuxFrameBuffer struct {
	f  *os.File
	fd uintptr
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}
	return &linuxFrameBuffer{
		f:  f,
		fd: f.Fd(),
	}, nil
}

func (fb *linuxFrameBuffer) String() string {
	return fmt.Sprintf("fbdev %s", fb.f.Name())
}

func (fb *linuxFrameBuffer) FixScreenInfo() (info FixScreenInfo, err error) {
	err = fb.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&info))
	return
}

func (fb *linuxFrameBuffer) VarScreenInfo() (info VarScreenInfo, err error) {
	err = fb.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&info))
	return
}

func (fb *linuxFrameBuffer) SetVarScreenInfo(info *VarScreenInfo) error {
	if err := fb.ioctl(fbioPutVScreenInfo, unsafe.Pointer(info)); err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}

func (fb *linuxFrameBuffer) Pan(info *VarScreenInfo) error {
	return fb.ioctl(fbioPanDisplay, unsafe.Pointer(info))
}

// WaitForVSync ignores errors; drivers without vsync support return
// immediately.
func (fb *linuxFrameBuffer) WaitForVSync() {
	var arg uint32
	_ = fb.ioctl(fbioWaitForVSync, unsafe.Pointer(&arg))
}

func (fb *linuxFrameBuffer) Map(size int) ([]byte, error) {
	return unix.Mmap(int(fb.fd), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (fb *linuxFrameBuffer) Unmap(mem []byte) error {
	return unix.Munmap(mem)
}

// Close the framebuffer device
func (fb *linuxFrameBuffer) Close() error {
	return fb.f.Close()
}

func (fb *linuxFrameBuffer) ioctl(cmd ioctl.Command, arg unsafe.Pointer) error {
	return ioctl.Do(fb.fd, cmd, arg)
}
