package models

// ObjectFile is the uniform view over an executable image, regardless of
// which concrete format parser recognized it. Implementations embed
// loader.FileBase for the default method set and are immutable after
// construction except for the load offset, load mask and relocation bias,
// which callers configure before any concurrent use. There is no locking
// at this layer.
type ObjectFile interface {
	Filename() string
	Arch() Arch
	OpSys() OpSys

	// EntryPoint is the raw entry address from the image. It is not
	// shifted by the load offset; only UpdateBias moves it.
	EntryPoint() Addr

	Segments() []*Segment
	Contains(addr Addr) bool
	SegmentContaining(addr Addr) *Segment
	MinSegmentAddr() Addr
	MaxSegmentAddr() Addr

	SetLoadOffset(val Addr)
	SetLoadMask(val Addr)

	// LoadSegments writes every segment through mem at
	// (base+loadOffset)&loadMask. Best-effort per segment: a rejected
	// write fails the load but already-written segments stay written.
	LoadSegments(mem MemWriter) error

	// Symbol loading drains per-format symbol data into tab, applying
	// (value+base+offset)&mask to every symbol address. LoadWeakSymbols
	// has a default that loads nothing; that is not an error.
	LoadAllSymbols(tab SymbolTable, base, offset, mask Addr) error
	LoadGlobalSymbols(tab SymbolTable, base, offset, mask Addr) error
	LoadLocalSymbols(tab SymbolTable, base, offset, mask Addr) error
	LoadWeakSymbols(tab SymbolTable, base, offset, mask Addr) error

	// Interpreter is the dynamic linker object named by the image, or nil.
	// Its lifetime is independent of the referencing object.
	Interpreter() ObjectFile

	// Relocatable reports position-independent load support. MapSize and
	// UpdateBias panic unless Relocatable is true; callers check first.
	Relocatable() bool
	MapSize() Addr
	UpdateBias(bias Addr)
	Bias() Addr

	HasTLS() bool
}
