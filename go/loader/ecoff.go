package loader

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// Tru64 ECOFF: file header, COFF optional header, section headers, then
// the raw text and data images.
const ecoffAlphaMagic = 0x0183

const ecoffScnHdrSize = 40

type ecoffFileHdr struct {
	Magic  uint16
	Nscns  uint16
	Timdat int32
	Symptr uint64
	Nsyms  uint32
	Opthdr uint16
	Flags  uint16
}

// Tru64 symbolic header. Only the external symbol and external string
// table fields are consumed; the rest locate debugging tables this
// layer does not read.
type ecoffSymHdr struct {
	Magic         uint16
	Vstamp        uint16
	IlineMax      int32
	IdnMax        int32
	IpdMax        int32
	IsymMax       int32
	IoptMax       int32
	IauxMax       int32
	IssMax        int32
	IssExtMax     int32
	IfdMax        int32
	Crfd          int32
	IextMax       int32
	CbLine        int64
	CbLineOffset  int64
	CbDnOffset    int64
	CbPdOffset    int64
	CbSymOffset   int64
	CbOptOffset   int64
	CbAuxOffset   int64
	CbSsOffset    int64
	CbSsExtOffset int64
	CbFdOffset    int64
	CbRfdOffset   int64
	CbExtOffset   int64
}

const ecoffSymMagic = 0x1992

// ecoffExtSym is one external symbol record: the symbol proper (value,
// external string table index, packed class bits) followed by the
// external flags.
type ecoffExtSym struct {
	Value int64
	Iss   int32
	Bits  uint32 // st:6 sc:5 reserved:1 index:20, low bits first
	Flags uint32 // jmptbl:1 cobol_main:1 weakext:1
	Ifd   int32
}

const (
	ecoffStNil   = 0
	ecoffWeakExt = 1 << 2
)

type EcoffObject struct {
	FileBase
	fileHdr ecoffFileHdr
	aoutHdr aoutExecHdr
}

func MatchEcoff(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return binary.LittleEndian.Uint16(data[:2]) == ecoffAlphaMagic
}

func NewEcoffObject(filename string, data []byte) (models.ObjectFile, error) {
	var fh ecoffFileHdr
	fhSize, err := unpackAt(data, &fh, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "bad ECOFF file header in %s", filename)
	}
	if fh.Magic != ecoffAlphaMagic {
		return nil, errors.Errorf("bad ECOFF magic %#x in %s", fh.Magic, filename)
	}
	var ah aoutExecHdr
	if _, err := unpackAt(data, &ah, fhSize); err != nil {
		return nil, errors.Wrapf(err, "bad ECOFF optional header in %s", filename)
	}
	if !validAoutMagic(ah.Magic) {
		return nil, errors.Errorf("bad ECOFF optional magic %#o in %s", ah.Magic, filename)
	}
	// ZMAGIC images map the headers as part of text; otherwise text
	// follows the section headers at the next 16-byte boundary.
	txtOff := uint64(0)
	if ah.Magic != aoutZMagic {
		txtOff = uint64(roundUp(fhSize+int(fh.Opthdr)+int(fh.Nscns)*ecoffScnHdrSize, 16))
	}
	// Size fields come straight from the file; validate in uint64 space
	// so huge values cannot wrap past the bounds check.
	fileSize := uint64(len(data))
	if txtOff > fileSize || ah.Tsize > fileSize-txtOff || ah.Dsize > fileSize-txtOff-ah.Tsize {
		return nil, errors.Errorf("ECOFF image %s truncated", filename)
	}
	datOff := txtOff + ah.Tsize
	o := &EcoffObject{
		FileBase: newFileBase(filename, data, models.Alpha, models.Tru64, models.Addr(ah.Entry)),
		fileHdr:  fh,
		aoutHdr:  ah,
	}
	if ah.Tsize > 0 {
		o.addSegment("text", models.Addr(ah.TextStart), data[txtOff:txtOff+ah.Tsize], ah.Tsize)
	}
	if ah.Dsize > 0 {
		o.addSegment("data", models.Addr(ah.DataStart), data[datOff:datOff+ah.Dsize], ah.Dsize)
	}
	if ah.Bsize > 0 {
		o.addSegment("bss", models.Addr(ah.BssStart), nil, ah.Bsize)
	}
	return o, nil
}

// GlobalPointer is the GP register value the image was linked for.
func (o *EcoffObject) GlobalPointer() models.Addr {
	return models.Addr(o.aoutHdr.GpValue)
}

func cstring(b []byte, off int) (string, bool) {
	if off < 0 || off >= len(b) {
		return "", false
	}
	end := bytes.IndexByte(b[off:], 0)
	if end < 0 {
		return "", false
	}
	return string(b[off : off+end]), true
}

// loadExtSymbols walks the external symbol table behind the symbolic
// header. An image without one loads nothing; an image that claims one
// and lies about its bounds fails.
func (o *EcoffObject) loadExtSymbols(tab models.SymbolTable, want models.Binding, all bool, base, offset, mask models.Addr) error {
	if o.fileHdr.Symptr == 0 || o.fileHdr.Nsyms == 0 {
		return nil
	}
	fileSize := uint64(len(o.data))
	if o.fileHdr.Symptr >= fileSize {
		return errors.Errorf("symbolic header outside image %s", o.filename)
	}
	var sh ecoffSymHdr
	if _, err := unpackAt(o.data, &sh, int(o.fileHdr.Symptr)); err != nil {
		return errors.Wrapf(err, "bad symbolic header in %s", o.filename)
	}
	if sh.Magic != ecoffSymMagic {
		return errors.Errorf("bad symbolic header magic %#x in %s", sh.Magic, o.filename)
	}
	if sh.IextMax <= 0 {
		return nil
	}
	recSize, err := struc.Sizeof(&ecoffExtSym{})
	if err != nil {
		return err
	}
	if sh.CbExtOffset < 0 || sh.CbSsExtOffset < 0 {
		return errors.Errorf("bad symbolic header offsets in %s", o.filename)
	}
	extOff, strOff := uint64(sh.CbExtOffset), uint64(sh.CbSsExtOffset)
	if extOff > fileSize || uint64(sh.IextMax) > (fileSize-extOff)/uint64(recSize) || strOff > fileSize {
		return errors.Errorf("external symbol table outside image %s", o.filename)
	}
	strtab := o.data[strOff:]
	for i := 0; i < int(sh.IextMax); i++ {
		var sym ecoffExtSym
		if _, err := unpackAt(o.data, &sym, int(extOff)+i*recSize); err != nil {
			return errors.Wrapf(err, "bad external symbol %d in %s", i, o.filename)
		}
		if sym.Bits&0x3f == ecoffStNil {
			continue
		}
		binding := models.GlobalBinding
		if sym.Flags&ecoffWeakExt != 0 {
			binding = models.WeakBinding
		}
		if !all && binding != want {
			continue
		}
		name, ok := cstring(strtab, int(sym.Iss))
		if !ok || name == "" {
			continue
		}
		addr := (models.Addr(sym.Value) + base + offset) & mask
		if err := tab.Insert(models.Symbol{Name: name, Addr: addr, Binding: binding}); err != nil {
			return errors.Wrapf(err, "failed to insert symbol %q", name)
		}
	}
	return nil
}

func (o *EcoffObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadExtSymbols(tab, 0, true, base, offset, mask)
}

func (o *EcoffObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadExtSymbols(tab, models.GlobalBinding, false, base, offset, mask)
}

// LoadLocalSymbols loads nothing; the external symbol table carries no
// locals and the dense per-file tables are not read.
func (o *EcoffObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *EcoffObject) LoadWeakSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadExtSymbols(tab, models.WeakBinding, false, base, offset, mask)
}
