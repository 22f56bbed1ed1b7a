package models

// MemWriter is the memory-write capability supplied by the embedding
// system. Object files never touch physical storage directly; every
// segment byte goes through WriteMem. A write touching an unmapped
// destination must be rejected with an error.
type MemWriter interface {
	WriteMem(addr Addr, p []byte) error
}
