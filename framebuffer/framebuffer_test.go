package framebuffer

import (
	"errors"
	"math"
	"testing"

	"github.com/BeatGlow/fbvideo/pixel"
)

func TestVarScreenInfoFormat(t *testing.T) {
	tests := []struct {
		Bits uint32
		Want pixel.Format
	}{
		{16, pixel.RGB565},
		{15, pixel.RGB565},
		{32, pixel.ARGB8888},
		{24, pixel.Unknown},
		{8, pixel.Unknown},
	}
	for _, test := range tests {
		info := VarScreenInfo{BitsPerPixel: test.Bits}
		if v := info.Format(); v != test.Want {
			t.Errorf("expected %d bits to map to %s, got %s", test.Bits, test.Want, v)
		}
	}
}

func TestRefreshRate(t *testing.T) {
	// CEA 1280x720@60
	info := VarScreenInfo{
		Xres:        1280,
		Yres:        720,
		Pixclock:    13468,
		LeftMargin:  220,
		RightMargin: 110,
		HsyncLen:    40,
		UpperMargin: 20,
		LowerMargin: 5,
		VsyncLen:    5,
	}
	if v := info.RefreshRate(); math.Abs(v-60) > 0.1 {
		t.Errorf("expected about 60Hz, got %f", v)
	}

	info.Pixclock = 0
	if v := info.RefreshRate(); v != 0 {
		t.Errorf("expected 0Hz without pixel clock, got %f", v)
	}
}

func TestFixScreenInfoName(t *testing.T) {
	m := NewMemory(64, 4, 4, 16)
	info, err := m.FixScreenInfo()
	if err != nil {
		t.Fatal(err)
	}
	if v := info.Name(); v != "memory" {
		t.Errorf("expected name %q, got %q", "memory", v)
	}
	if info.SmemLen != 64 {
		t.Errorf("expected smem_len 64, got %d", info.SmemLen)
	}
}

func TestMemorySetVarScreenInfo(t *testing.T) {
	m := NewMemory(640*2*1620, 640, 480, 16)

	t.Run("fits", func(it *testing.T) {
		info := m.Var
		info.YresVirtual = 1620
		if err := m.SetVarScreenInfo(&info); err != nil {
			it.Fatal(err)
		}
		if m.Var.YresVirtual != 1620 {
			it.Errorf("expected yres_virtual 1620, got %d", m.Var.YresVirtual)
		}
	})

	t.Run("too large", func(it *testing.T) {
		info := m.Var
		info.YresVirtual = 1621
		if err := m.SetVarScreenInfo(&info); !errors.Is(err, ErrRejected) {
			it.Errorf("expected %v, got %v", ErrRejected, err)
		}
	})

	t.Run("accept hook", func(it *testing.T) {
		m.Accept = func(info *VarScreenInfo) bool { return info.BitsPerPixel == 32 }
		defer func() { m.Accept = nil }()
		info := m.Var
		info.YresVirtual = 480
		if err := m.SetVarScreenInfo(&info); !errors.Is(err, ErrRejected) {
			it.Errorf("expected %v, got %v", ErrRejected, err)
		}
	})

	t.Run("test only", func(it *testing.T) {
		before := m.Var
		info := m.Var
		info.Activate = ActivateTest
		info.YresVirtual = 960
		if err := m.SetVarScreenInfo(&info); err != nil {
			it.Fatal(err)
		}
		if m.Var != before {
			it.Errorf("expected mode unchanged after test activation, got %+v", m.Var)
		}

		info.YresVirtual = 1621
		if err := m.SetVarScreenInfo(&info); !errors.Is(err, ErrRejected) {
			it.Errorf("expected %v, got %v", ErrRejected, err)
		}
	})

	t.Run("adjust hook", func(it *testing.T) {
		m.Adjust = func(info *VarScreenInfo) { info.BitsPerPixel = 32 }
		defer func() { m.Adjust = nil }()
		info := m.Var
		info.YresVirtual = 480
		if err := m.SetVarScreenInfo(&info); err != nil {
			it.Fatal(err)
		}
		if info.BitsPerPixel != 32 {
			it.Errorf("expected adjusted depth written back, got %d", info.BitsPerPixel)
		}
	})
}

func TestMemoryPan(t *testing.T) {
	m := NewMemory(4*2*8, 4, 4, 16)
	m.Var.YresVirtual = 8

	info := m.Var
	info.Yoffset = 4
	if err := m.Pan(&info); err != nil {
		t.Fatal(err)
	}
	info.Yoffset = 5
	if err := m.Pan(&info); !errors.Is(err, ErrPan) {
		t.Errorf("expected %v, got %v", ErrPan, err)
	}
	if len(m.Pans) != 1 || m.Pans[0] != [2]uint32{0, 4} {
		t.Errorf("expected one pan to (0,4), got %v", m.Pans)
	}
}

func TestMemoryMap(t *testing.T) {
	m := NewMemory(32, 4, 4, 16)
	mem, err := m.Map(32)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = m.Map(32); !errors.Is(err, ErrMapped) {
		t.Errorf("expected %v, got %v", ErrMapped, err)
	}
	mem[0] = 0xaa
	if m.Mem[0] != 0xaa {
		t.Error("expected mapping to share device memory")
	}
	if err = m.Unmap(mem); err != nil {
		t.Fatal(err)
	}
	if _, err = m.Map(64); err == nil {
		t.Error("expected mapping beyond device memory to fail")
	}
}
