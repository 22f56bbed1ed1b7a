package models

import "math"

// Addr is a guest address. It is wide enough for the widest supported
// target address space.
type Addr uint64

// MaxAddr is the all-bits-set address sentinel. It is the default (no-op)
// load mask and the fold seed for MinSegmentAddr on an empty segment set.
const MaxAddr = Addr(math.MaxUint64)

// AddrRange is a half-open [Start, End) guest address range.
type AddrRange struct {
	Start, End Addr
}

func (r AddrRange) Size() uint64 {
	return uint64(r.End - r.Start)
}

func (r AddrRange) Contains(addr Addr) bool {
	return addr >= r.Start && addr < r.End
}
