package loader

import (
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// FileBase carries the state and default method set shared by every
// object file format. Concrete formats embed it and override what they
// support; the defaults stand in for formats without the concept
// (weak symbols, relocation, interpreters).
type FileBase struct {
	filename string
	data     []byte

	arch  models.Arch
	opSys models.OpSys
	entry models.Addr

	loadOffset models.Addr
	loadMask   models.Addr

	segments []*models.Segment
}

func newFileBase(filename string, data []byte, arch models.Arch, opSys models.OpSys, entry models.Addr) FileBase {
	return FileBase{
		filename: filename,
		data:     data,
		arch:     arch,
		opSys:    opSys,
		entry:    entry,
		loadMask: models.MaxAddr,
	}
}

func (f *FileBase) Filename() string {
	return f.filename
}

func (f *FileBase) Arch() models.Arch {
	return f.arch
}

func (f *FileBase) OpSys() models.OpSys {
	return f.opSys
}

func (f *FileBase) EntryPoint() models.Addr {
	return f.entry
}

// Data is the exclusively owned raw image buffer.
func (f *FileBase) Data() []byte {
	return f.data
}

// SetLoadOffset overrides the base address segments get written at, for
// images that should land somewhere other than their link address.
func (f *FileBase) SetLoadOffset(val models.Addr) {
	f.loadOffset = val
}

func (f *FileBase) SetLoadMask(val models.Addr) {
	f.loadMask = val
}

func (f *FileBase) Segments() []*models.Segment {
	return f.segments
}

// addSegment appends a segment, taking ownership of data. Insertion order
// is preserved; it decides which segment wins for overlapping lookups.
func (f *FileBase) addSegment(name string, base models.Addr, data []byte, size uint64) {
	f.segments = append(f.segments, &models.Segment{
		Name: name,
		Base: base,
		Data: data,
		Size: size,
	})
}

func (f *FileBase) Contains(addr models.Addr) bool {
	return f.SegmentContaining(addr) != nil
}

// SegmentContaining scans in insertion order; the first match is
// authoritative when segments overlap.
func (f *FileBase) SegmentContaining(addr models.Addr) *models.Segment {
	for _, seg := range f.segments {
		if seg.ContainsVirt(addr) {
			return seg
		}
	}
	return nil
}

// MinSegmentAddr degenerates to MaxAddr on an empty segment set and
// MaxSegmentAddr to zero; callers special-case objects with no segments
// rather than trust these as real addresses.
func (f *FileBase) MinSegmentAddr() models.Addr {
	min := models.MaxAddr
	for _, seg := range f.segments {
		if seg.Base < min {
			min = seg.Base
		}
	}
	return min
}

func (f *FileBase) MaxSegmentAddr() models.Addr {
	var max models.Addr
	for _, seg := range f.segments {
		if end := seg.Base + models.Addr(seg.Size); end > max {
			max = end
		}
	}
	return max
}

func (f *FileBase) loadSegment(seg *models.Segment, mem models.MemWriter) error {
	if len(seg.Data) == 0 {
		// nothing to write; zero-fill (bss) is the memory's initial state
		return nil
	}
	dest := (seg.Base + f.loadOffset) & f.loadMask
	if err := mem.WriteMem(dest, seg.Data); err != nil {
		return errors.Wrapf(err, "failed to write segment %q at %#x", seg.Name, uint64(dest))
	}
	return nil
}

// LoadSegments pushes every segment through mem, applying
// (base+loadOffset)&loadMask uniformly. Loading is best-effort per
// segment: a rejected write fails the load without rolling back segments
// already written.
func (f *FileBase) LoadSegments(mem models.MemWriter) error {
	for _, seg := range f.segments {
		if err := f.loadSegment(seg, mem); err != nil {
			return err
		}
	}
	return nil
}

// LoadWeakSymbols loads nothing by default; formats without a weak-symbol
// concept keep this. Callers must not treat the empty drain as an error.
func (f *FileBase) LoadWeakSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (f *FileBase) Interpreter() models.ObjectFile {
	return nil
}

func (f *FileBase) Relocatable() bool {
	return false
}

func (f *FileBase) MapSize() models.Addr {
	panic("MapSize should only be called on relocatable objects")
}

func (f *FileBase) UpdateBias(bias models.Addr) {
	panic("UpdateBias should only be called on relocatable objects")
}

func (f *FileBase) Bias() models.Addr {
	return 0
}

func (f *FileBase) HasTLS() bool {
	return false
}
