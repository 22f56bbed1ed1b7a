package loader

import (
	"github.com/coresim/coresim/go/models"
)

// RawObject wraps bytes that carry no object header as a single
// unstructured segment at address zero. Callers position it with the
// load offset.
type RawObject struct {
	FileBase
}

func NewRawObject(filename string, data []byte) models.ObjectFile {
	o := &RawObject{
		FileBase: newFileBase(filename, data, models.UnknownArch, models.UnknownOpSys, 0),
	}
	o.addSegment("data", 0, data, uint64(len(data)))
	return o
}

func (o *RawObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *RawObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}

func (o *RawObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return nil
}
