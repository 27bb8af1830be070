package framebuffer

// Memory is a Device backed by plain memory. It accepts any mode whose virtual
// screen fits in Mem, unless Accept says otherwise, and records pan and vsync
// activity.
type Memory struct {
	// Fix is reported by FixScreenInfo; SmemLen is set from Mem.
	Fix FixScreenInfo

	// Var is the current mode.
	Var VarScreenInfo

	// Mem is the device memory.
	Mem []byte

	// Accept decides whether a mode is applied. It runs after the size check.
	Accept func(*VarScreenInfo) bool

	// Adjust may change an accepted mode, like a driver rounding values.
	Adjust func(*VarScreenInfo)

	// ModeSets counts SetVarScreenInfo calls, including rejected ones.
	ModeSets int

	// Pans records the offsets of each successful Pan.
	Pans [][2]uint32

	// VSyncs counts WaitForVSync calls.
	VSyncs int

	mapped bool
}

// NewMemory returns a memory device with size bytes of device memory, currently
// set to a xres×yres mode with the given bits per pixel.
func NewMemory(size, xres, yres, bitsPerPixel int) *Memory {
	m := &Memory{
		Mem: make([]byte, size),
		Var: VarScreenInfo{
			Xres:         uint32(xres),
			Yres:         uint32(yres),
			XresVirtual:  uint32(xres),
			YresVirtual:  uint32(yres),
			BitsPerPixel: uint32(bitsPerPixel),
		},
	}
	copy(m.Fix.ID[:], "memory")
	m.Fix.LineLength = uint32(xres * ((bitsPerPixel + 7) / 8))
	return m
}

func (m *Memory) FixScreenInfo() (FixScreenInfo, error) {
	info := m.Fix
	info.SmemLen = uint32(len(m.Mem))
	return info, nil
}

func (m *Memory) VarScreenInfo() (VarScreenInfo, error) {
	return m.Var, nil
}

func (m *Memory) SetVarScreenInfo(info *VarScreenInfo) error {
	m.ModeSets++
	need := uint64(info.XresVirtual) * uint64(info.YresVirtual) * uint64(info.BytesPerPixel())
	if info.Xres == 0 || info.Yres == 0 ||
		info.XresVirtual < info.Xres || info.YresVirtual < info.Yres ||
		need > uint64(len(m.Mem)) {
		return ErrRejected
	}
	if m.Accept != nil && !m.Accept(info) {
		return ErrRejected
	}
	if m.Adjust != nil {
		m.Adjust(info)
	}
	if info.Activate&activateMask == ActivateTest {
		return nil
	}
	m.Var = *info
	m.Fix.LineLength = info.XresVirtual * uint32(info.BytesPerPixel())
	return nil
}

func (m *Memory) Pan(info *VarScreenInfo) error {
	if info.Xoffset+m.Var.Xres > m.Var.XresVirtual || info.Yoffset+m.Var.Yres > m.Var.YresVirtual {
		return ErrPan
	}
	m.Var.Xoffset = info.Xoffset
	m.Var.Yoffset = info.Yoffset
	m.Pans = append(m.Pans, [2]uint32{info.Xoffset, info.Yoffset})
	return nil
}

func (m *Memory) WaitForVSync() {
	m.VSyncs++
}

// Map returns the first size bytes of Mem.
func (m *Memory) Map(size int) ([]byte, error) {
	if m.mapped {
		return nil, ErrMapped
	}
	if size > len(m.Mem) {
		return nil, ErrNotSupported
	}
	m.mapped = true
	return m.Mem[:size:size], nil
}

func (m *Memory) Unmap(_ []byte) error {
	m.mapped = false
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Device = (*Memory)(nil)
