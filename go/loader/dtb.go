package loader

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// Flattened device tree blobs ride along with kernel images; they carry
// no code, no symbols and no target tags, just one blob segment.
var dtbMagic = []byte{0xd0, 0x0d, 0xfe, 0xed}

type DtbObject struct {
	FileBase
}

func MatchDtb(data []byte) bool {
	return bytes.Equal(getMagic(data, 4), dtbMagic)
}

func NewDtbObject(filename string, data []byte) (models.ObjectFile, error) {
	if len(data) < 8 {
		return nil, errors.Errorf("device tree %s truncated", filename)
	}
	totalSize := binary.BigEndian.Uint32(data[4:8])
	if int(totalSize) > len(data) || totalSize < 8 {
		return nil, errors.Errorf("device tree %s has bad totalsize %d", filename, totalSize)
	}
	o := &DtbObject{
		FileBase: newFileBase(filename, data, models.UnknownArch, models.UnknownOpSys, 0),
	}
	o.addSegment("dtb", 0, data[:totalSize], uint64(totalSize))
	return o, nil
}

func (o *DtbObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *DtbObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *DtbObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}
