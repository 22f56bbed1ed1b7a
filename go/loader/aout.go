package loader

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// AoutObject handles Tru64 a.out executables: a bare exec header followed
// by the text and data images. Always Alpha.
type AoutObject struct {
	FileBase
	hdr aoutExecHdr
}

func MatchAout(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return validAoutMagic(binary.LittleEndian.Uint16(data[:2]))
}

func NewAoutObject(filename string, data []byte) (models.ObjectFile, error) {
	var hdr aoutExecHdr
	hdrSize, err := unpackAt(data, &hdr, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "bad a.out header in %s", filename)
	}
	if !validAoutMagic(hdr.Magic) {
		return nil, errors.Errorf("bad a.out magic %#o in %s", hdr.Magic, filename)
	}
	// OMAGIC text follows the header directly; demand-paged images keep
	// it at a fixed 512-byte offset.
	txtOff := uint64(hdrSize)
	if hdr.Magic != aoutOMagic {
		txtOff = 512
	}
	// Size fields come straight from the file; validate in uint64 space
	// so huge values cannot wrap past the bounds check.
	fileSize := uint64(len(data))
	if txtOff > fileSize || hdr.Tsize > fileSize-txtOff || hdr.Dsize > fileSize-txtOff-hdr.Tsize {
		return nil, errors.Errorf("a.out image %s truncated", filename)
	}
	datOff := txtOff + hdr.Tsize
	o := &AoutObject{
		FileBase: newFileBase(filename, data, models.Alpha, models.Tru64, models.Addr(hdr.Entry)),
		hdr:      hdr,
	}
	if hdr.Tsize > 0 {
		o.addSegment("text", models.Addr(hdr.TextStart), data[txtOff:txtOff+hdr.Tsize], hdr.Tsize)
	}
	if hdr.Dsize > 0 {
		o.addSegment("data", models.Addr(hdr.DataStart), data[datOff:datOff+hdr.Dsize], hdr.Dsize)
	}
	if hdr.Bsize > 0 {
		o.addSegment("bss", models.Addr(hdr.BssStart), nil, hdr.Bsize)
	}
	return o, nil
}

// The a.out symbol table predates binding classes; the mandatory drains
// load nothing.
func (o *AoutObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *AoutObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *AoutObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}
