//go:build linux

package ioctl

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		Name string
		Mode Mode
		Size uint16
		Cmd  uintptr
		Want Command
	}{
		{"FBIOGET_VSCREENINFO", None, 0, 0x4600, 0x4600},
		{"FBIO_WAITFORVSYNC", Write, 4, 'F'<<8 | 0x20, 0x40044620},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if v := Encode(test.Mode, test.Size, test.Cmd); v != test.Want {
				it.Errorf("expected %#x, got %#x", test.Want, v)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	c := Encode(Write, 4, 0x4620)
	if v, want := c.String(), "ioctl write (4 bytes) 0x4620"; v != want {
		t.Errorf("expected %q, got %q", want, v)
	}
}

func TestErrorUnwrap(t *testing.T) {
	var err error = &Error{Command: 0x4601, Errno: unix.EINVAL}
	if !errors.Is(err, unix.EINVAL) {
		t.Errorf("expected %v to wrap EINVAL", err)
	}
}
