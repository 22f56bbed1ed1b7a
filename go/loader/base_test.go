package loader

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresim/coresim/go/models"
)

// stubObject is a bare format object for exercising the shared method
// set without any byte-layout parsing.
type stubObject struct {
	FileBase
}

func (o *stubObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *stubObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *stubObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func newStub(arch models.Arch, opSys models.OpSys, entry models.Addr) *stubObject {
	return &stubObject{FileBase: newFileBase("stub", nil, arch, opSys, entry)}
}

// memRecorder captures WriteMem calls and can reject a chosen address,
// standing in for the embedding system's memory capability.
type memRecorder struct {
	writes map[models.Addr][]byte
	order  []models.Addr
	reject models.Addr
	fail   bool
}

func newMemRecorder() *memRecorder {
	return &memRecorder{writes: make(map[models.Addr][]byte)}
}

func (m *memRecorder) WriteMem(addr models.Addr, p []byte) error {
	if m.fail && addr == m.reject {
		return errors.Errorf("unmapped destination %#x", uint64(addr))
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	m.writes[addr] = buf
	m.order = append(m.order, addr)
	return nil
}

// sinkTable is a minimal external symbol sink.
type sinkTable struct {
	syms []models.Symbol
	err  error
}

func (s *sinkTable) Insert(sym models.Symbol) error {
	if s.err != nil {
		return s.err
	}
	s.syms = append(s.syms, sym)
	return nil
}

func TestContains(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0x1000)
	o.addSegment("text", 0x1000, make([]byte, 0x100), 0x100)
	o.addSegment("data", 0x2000, make([]byte, 0x10), 0x10)

	assert.True(t, o.Contains(0x1000))
	assert.True(t, o.Contains(0x10ff))
	assert.False(t, o.Contains(0x1100), "segment ranges are half-open")
	assert.False(t, o.Contains(0xfff))
	assert.True(t, o.Contains(0x200f))
	assert.False(t, o.Contains(0x2010))
}

func TestContainsOverlapFirstWins(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0)
	o.addSegment("first", 0x1000, make([]byte, 0x100), 0x100)
	o.addSegment("second", 0x1080, make([]byte, 0x100), 0x100)

	seg := o.SegmentContaining(0x1090)
	require.NotNil(t, seg)
	assert.Equal(t, "first", seg.Name, "insertion order is authoritative for overlaps")

	seg = o.SegmentContaining(0x1110)
	require.NotNil(t, seg)
	assert.Equal(t, "second", seg.Name)
}

func TestSegmentBoundsEmpty(t *testing.T) {
	o := newStub(models.UnknownArch, models.UnknownOpSys, 0)
	assert.Equal(t, models.MaxAddr, o.MinSegmentAddr(), "empty set degenerates to the sentinel")
	assert.Equal(t, models.Addr(0), o.MaxSegmentAddr())
}

func TestSegmentBounds(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0)
	o.addSegment("data", 0x2000, make([]byte, 0x10), 0x10)
	o.addSegment("text", 0x1000, make([]byte, 0x100), 0x100)
	o.addSegment("bss", 0x3000, nil, 0x40)

	assert.Equal(t, models.Addr(0x1000), o.MinSegmentAddr())
	assert.Equal(t, models.Addr(0x3040), o.MaxSegmentAddr())
}

func TestLoadSegmentsTransform(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0x1000)
	text := make([]byte, 0x100)
	for i := range text {
		text[i] = byte(i)
	}
	data := make([]byte, 0x10)
	for i := range data {
		data[i] = byte(0xf0 + i)
	}
	o.addSegment("text", 0x1000, text, 0x100)
	o.addSegment("data", 0x2000, data, 0x10)
	o.SetLoadOffset(0x10000)

	m := newMemRecorder()
	require.NoError(t, o.LoadSegments(m))

	require.Contains(t, m.writes, models.Addr(0x11000))
	require.Contains(t, m.writes, models.Addr(0x12000))
	assert.Equal(t, text, m.writes[0x11000])
	assert.Equal(t, data, m.writes[0x12000])

	// the load offset moves segments, never the entry point
	assert.Equal(t, models.Addr(0x1000), o.EntryPoint())
}

func TestLoadSegmentsMask(t *testing.T) {
	o := newStub(models.Mips, models.Linux, 0)
	o.addSegment("text", 0xffffffff80001000, []byte{1, 2, 3, 4}, 4)
	o.SetLoadMask(0x1fffffff)

	m := newMemRecorder()
	require.NoError(t, o.LoadSegments(m))
	require.Contains(t, m.writes, models.Addr(0x00001000))
}

func TestLoadSegmentsNoRollback(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0)
	o.addSegment("text", 0x1000, []byte{1}, 1)
	o.addSegment("data", 0x2000, []byte{2}, 1)

	m := newMemRecorder()
	m.fail = true
	m.reject = 0x2000
	err := o.LoadSegments(m)
	require.Error(t, err)

	// best-effort per segment: the first write stays
	assert.Contains(t, m.writes, models.Addr(0x1000))
	assert.NotContains(t, m.writes, models.Addr(0x2000))
}

func TestLoadSegmentsSkipsEmptyData(t *testing.T) {
	o := newStub(models.Alpha, models.Tru64, 0)
	o.addSegment("bss", 0x4000, nil, 0x1000)

	m := newMemRecorder()
	require.NoError(t, o.LoadSegments(m))
	assert.Empty(t, m.order, "bss has no bytes to push")
}

func TestWeakSymbolsDefault(t *testing.T) {
	o := newStub(models.Alpha, models.Tru64, 0)
	tab := &sinkTable{}
	require.NoError(t, o.LoadWeakSymbols(tab, 0, 0, models.MaxAddr),
		"an empty weak drain is not an error")
	assert.Empty(t, tab.syms)
}

func TestRelocationDefaults(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0)
	assert.False(t, o.Relocatable())
	assert.Equal(t, models.Addr(0), o.Bias())
	require.Panics(t, func() { o.MapSize() })
	require.Panics(t, func() { o.UpdateBias(0x7f0000000000) })
}

func TestInterpreterDefault(t *testing.T) {
	o := newStub(models.X86_64, models.Linux, 0)
	assert.Nil(t, o.Interpreter())
	assert.False(t, o.HasTLS())
}
