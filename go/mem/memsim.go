package mem

import (
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// Region is one mapped range of simulated memory.
type Region struct {
	Addr models.Addr
	Size uint64
	Data []byte
}

func (r *Region) Contains(addr models.Addr) bool {
	return addr >= r.Addr && addr < r.Addr+models.Addr(r.Size)
}

// Overlaps treats a range reaching past the top of the address space as
// saturating at MaxAddr; mapped regions themselves never wrap.
func (r *Region) Overlaps(addr models.Addr, size uint64) bool {
	e1, e2 := r.Addr+models.Addr(r.Size), addr+models.Addr(size)
	if e2 < addr {
		e2 = models.MaxAddr
	}
	return r.Addr < e2 && addr < e1
}

// MemSim is a flat simulated memory built from mapped regions. It
// implements the models.MemWriter capability; writes and reads touching
// unmapped space are rejected. Single-threaded like the loading layer
// above it.
type MemSim struct {
	regions []*Region
}

func (m *MemSim) Find(addr models.Addr) *Region {
	for _, r := range m.regions {
		if r.Contains(addr) {
			return r
		}
	}
	return nil
}

// Map adds a zero-filled region. Mapping over an existing region is a
// caller bug and is rejected, as is a region whose end would wrap the
// address space.
func (m *MemSim) Map(addr models.Addr, size uint64) error {
	if size == 0 {
		return errors.New("zero-size mapping")
	}
	if size > uint64(models.MaxAddr-addr) {
		return errors.Errorf("mapping %#x+%#x wraps the address space", uint64(addr), size)
	}
	for _, r := range m.regions {
		if r.Overlaps(addr, size) {
			return errors.Errorf("mapping %#x+%#x overlaps existing region at %#x", uint64(addr), size, uint64(r.Addr))
		}
	}
	m.regions = append(m.regions, &Region{Addr: addr, Size: size, Data: make([]byte, size)})
	return nil
}

func (m *MemSim) Unmap(addr models.Addr) bool {
	for i, r := range m.regions {
		if r.Addr == addr {
			m.regions = append(m.regions[:i], m.regions[i+1:]...)
			return true
		}
	}
	return false
}

// WriteMem copies p into simulated memory at addr, spanning adjacent
// regions if needed. Any byte landing outside a mapped region fails the
// whole write; bytes copied into earlier regions stay written.
func (m *MemSim) WriteMem(addr models.Addr, p []byte) error {
	for len(p) > 0 {
		r := m.Find(addr)
		if r == nil {
			return errors.Errorf("write to unmapped address %#x", uint64(addr))
		}
		off := uint64(addr - r.Addr)
		n := copy(r.Data[off:], p)
		p = p[n:]
		addr += models.Addr(n)
	}
	return nil
}

// ReadMem fills p from simulated memory at addr, mirroring WriteMem.
func (m *MemSim) ReadMem(addr models.Addr, p []byte) error {
	for len(p) > 0 {
		r := m.Find(addr)
		if r == nil {
			return errors.Errorf("read from unmapped address %#x", uint64(addr))
		}
		off := uint64(addr - r.Addr)
		n := copy(p, r.Data[off:])
		p = p[n:]
		addr += models.Addr(n)
	}
	return nil
}

func (m *MemSim) Regions() []*Region {
	return m.regions
}
