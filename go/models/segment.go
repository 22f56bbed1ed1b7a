package models

// Segment is a contiguous named region of an object file's initial image
// contents. Data is exclusively owned by the segment; ownership transfers
// from the constructing format parser and is never shared. Data may be
// shorter than Size, in which case the tail is implicitly zero (bss).
type Segment struct {
	Name string
	Base Addr
	Data []byte
	Size uint64
}

func (s *Segment) ContainsVirt(addr Addr) bool {
	return addr >= s.Base && addr < s.Base+Addr(s.Size)
}

func (s *Segment) Range() AddrRange {
	return AddrRange{Start: s.Base, End: s.Base + Addr(s.Size)}
}
