package loader

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

var ErrUnknownFormat = errors.New("could not identify object file format")

var gzipMagic = []byte{0x1f, 0x8b}

// CreateObjectFile reads path and probes the format recognizers for the
// first one that accepts the bytes. Kernel and firmware images often ship
// gzip-compressed; those are decompressed transparently before probing.
// With raw set, recognition is skipped and the bytes are wrapped as a
// single unstructured segment.
func CreateObjectFile(path string, raw bool) (models.ObjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read object file")
	}
	return NewObjectFile(path, data, raw)
}

// NewObjectFile is the byte-level factory behind CreateObjectFile. It
// takes ownership of data.
func NewObjectFile(filename string, data []byte, raw bool) (models.ObjectFile, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		var err error
		if data, err = gunzip(data); err != nil {
			return nil, errors.Wrapf(err, "failed to decompress %s", filename)
		}
	}
	if raw {
		return NewRawObject(filename, data), nil
	}
	if MatchElf(data) {
		return NewElfObject(filename, data)
	} else if MatchEcoff(data) {
		return NewEcoffObject(filename, data)
	} else if MatchAout(data) {
		return NewAoutObject(filename, data)
	} else if MatchDtb(data) {
		return NewDtbObject(filename, data)
	}
	return nil, errors.WithStack(ErrUnknownFormat)
}

func gunzip(p []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(p))
	if err != nil {
		return nil, errors.Wrap(err, "bad gzip stream")
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "gzip decompression failed")
	}
	return out, nil
}
