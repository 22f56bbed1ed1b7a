package loader

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Tru64-style COFF optional header, shared by the a.out and ECOFF
// front ends.
type aoutExecHdr struct {
	Magic     uint16
	Vstamp    uint16
	BldRev    uint16
	Padcell   uint16
	Tsize     uint64
	Dsize     uint64
	Bsize     uint64
	Entry     uint64
	TextStart uint64
	DataStart uint64
	BssStart  uint64
	GprMask   uint32
	FprMask   uint32
	GpValue   uint64
}

const (
	aoutOMagic = 0o407
	aoutNMagic = 0o410
	aoutZMagic = 0o413
)

func validAoutMagic(magic uint16) bool {
	switch magic {
	case aoutOMagic, aoutNMagic, aoutZMagic:
		return true
	}
	return false
}

func unpackAt(data []byte, i interface{}, at int) (int, error) {
	size, err := struc.Sizeof(i)
	if err != nil {
		return 0, err
	}
	if at < 0 || at+size > len(data) {
		return 0, errors.Errorf("truncated header at offset %#x", at)
	}
	return size, struc.UnpackWithOrder(bytes.NewReader(data[at:at+size]), i, binary.LittleEndian)
}

func roundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
