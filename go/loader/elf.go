package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

var elfMagic = []byte{0x7f, 0x45, 0x4c, 0x46}

// elfPageSize rounds relocatable map spans; every supported target uses
// 4k or larger pages.
const elfPageSize = 0x1000

func MatchElf(data []byte) bool {
	return bytes.Equal(getMagic(data, 4), elfMagic)
}

type ElfObject struct {
	FileBase
	file *elf.File

	relocatable bool
	bias        models.Addr
	hasTLS      bool

	interpPath  string
	interp      models.ObjectFile
	interpTried bool
}

func elfArch(file *elf.File) (models.Arch, error) {
	switch file.Machine {
	case elf.EM_ALPHA, elf.EM_ALPHA_STD:
		return models.Alpha, nil
	case elf.EM_SPARCV9:
		return models.SPARC64, nil
	case elf.EM_SPARC, elf.EM_SPARC32PLUS:
		return models.SPARC32, nil
	case elf.EM_MIPS:
		return models.Mips, nil
	case elf.EM_X86_64:
		return models.X86_64, nil
	case elf.EM_386:
		return models.I386, nil
	case elf.EM_AARCH64:
		return models.Arm64, nil
	case elf.EM_ARM:
		// Thumb entry points carry the mode in the low bit.
		if file.Entry&1 != 0 {
			return models.Thumb, nil
		}
		return models.Arm, nil
	case elf.EM_PPC, elf.EM_PPC64:
		return models.Power, nil
	case elf.EM_RISCV:
		if file.Class == elf.ELFCLASS64 {
			return models.Riscv64, nil
		}
		return models.Riscv32, nil
	}
	return models.UnknownArch, errors.Errorf("unsupported ELF machine: %s", file.Machine)
}

func elfOpSys(file *elf.File, data []byte) models.OpSys {
	switch file.OSABI {
	case elf.ELFOSABI_TRU64:
		return models.Tru64
	case elf.ELFOSABI_SOLARIS:
		return models.Solaris
	case elf.ELFOSABI_FREEBSD:
		return models.FreeBSD
	}
	if file.Machine == elf.EM_ARM && file.Class == elf.ELFCLASS32 {
		// EF_ARM_EABI version lives in e_flags, which debug/elf does not
		// surface; old-ABI ARM binaries have a zero EABI field there.
		if flags, ok := elf32Flags(file, data); ok && flags&0xff000000 == 0 {
			return models.LinuxArmOABI
		}
	}
	return models.Linux
}

func elf32Flags(file *elf.File, data []byte) (uint32, bool) {
	const off = 0x24 // e_flags in the ELF32 header
	if len(data) < off+4 {
		return 0, false
	}
	return file.ByteOrder.Uint32(data[off : off+4]), true
}

// segmentName labels a loadable program header after the section starting
// at its base, so segments read as "text"/"data" in diagnostics.
func segmentName(file *elf.File, prog *elf.Prog, idx int) string {
	for _, sec := range file.Sections {
		if sec.Flags&elf.SHF_ALLOC != 0 && sec.Addr == prog.Vaddr && sec.Name != "" {
			return strings.TrimPrefix(sec.Name, ".")
		}
	}
	return fmt.Sprintf("seg%d", idx)
}

func NewElfObject(filename string, data []byte) (models.ObjectFile, error) {
	file, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "bad ELF in %s", filename)
	}
	arch, err := elfArch(file)
	if err != nil {
		return nil, err
	}
	o := &ElfObject{
		FileBase:    newFileBase(filename, data, arch, elfOpSys(file, data), models.Addr(file.Entry)),
		file:        file,
		relocatable: file.Type == elf.ET_DYN,
	}
	for i, prog := range file.Progs {
		switch prog.Type {
		case elf.PT_LOAD:
			buf := make([]byte, prog.Filesz)
			if _, err := io.ReadFull(prog.Open(), buf); err != nil {
				return nil, errors.Wrapf(err, "short read in segment %d of %s", i, filename)
			}
			o.addSegment(segmentName(file, prog, i), models.Addr(prog.Vaddr), buf, prog.Memsz)
		case elf.PT_INTERP:
			buf := make([]byte, prog.Filesz)
			if _, err := io.ReadFull(prog.Open(), buf); err != nil {
				return nil, errors.Wrapf(err, "bad PT_INTERP in %s", filename)
			}
			o.interpPath = strings.TrimRight(string(buf), "\x00")
		case elf.PT_TLS:
			o.hasTLS = true
		}
	}
	return o, nil
}

// Interpreter resolves the PT_INTERP object lazily and caches it. The
// interpreter has its own lifetime; failing to resolve it reads as "none"
// and the embedding system decides whether that is fatal.
func (o *ElfObject) Interpreter() models.ObjectFile {
	if !o.interpTried {
		o.interpTried = true
		if o.interpPath != "" {
			if obj, err := CreateObjectFile(o.interpPath, false); err == nil {
				o.interp = obj
			}
		}
	}
	return o.interp
}

func (o *ElfObject) InterpPath() string {
	return o.interpPath
}

func (o *ElfObject) HasTLS() bool {
	return o.hasTLS
}

func (o *ElfObject) Relocatable() bool {
	return o.relocatable
}

// MapSize is the virtual span needed when the image is relocated,
// rounded up to a page.
func (o *ElfObject) MapSize() models.Addr {
	if !o.relocatable {
		panic("MapSize should only be called on relocatable objects")
	}
	span := o.MaxSegmentAddr() - o.MinSegmentAddr()
	return (span + elfPageSize - 1) &^ (elfPageSize - 1)
}

// UpdateBias commits a chosen load bias, shifting segment bases and the
// entry point. The load offset transform is unaffected.
func (o *ElfObject) UpdateBias(bias models.Addr) {
	if !o.relocatable {
		panic("UpdateBias should only be called on relocatable objects")
	}
	for _, seg := range o.segments {
		seg.Base += bias
	}
	o.entry += bias
	o.bias = bias
}

func (o *ElfObject) Bias() models.Addr {
	return o.bias
}

func elfBinding(sym elf.Symbol) (models.Binding, bool) {
	switch elf.ST_BIND(sym.Info) {
	case elf.STB_GLOBAL:
		return models.GlobalBinding, true
	case elf.STB_LOCAL:
		return models.LocalBinding, true
	case elf.STB_WEAK:
		return models.WeakBinding, true
	}
	return 0, false
}

func (o *ElfObject) loadSymbols(tab models.SymbolTable, want models.Binding, all bool, base, offset, mask models.Addr) error {
	syms, err := o.file.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return errors.Wrapf(err, "bad symbol table in %s", o.filename)
	}
	dyn, err := o.file.DynamicSymbols()
	if err != nil && err != elf.ErrNoSymbols {
		return errors.Wrapf(err, "bad dynamic symbol table in %s", o.filename)
	}
	for _, sym := range append(syms, dyn...) {
		if sym.Name == "" {
			continue
		}
		binding, ok := elfBinding(sym)
		if !ok || (!all && binding != want) {
			continue
		}
		addr := (models.Addr(sym.Value) + base + offset) & mask
		if err := tab.Insert(models.Symbol{Name: sym.Name, Addr: addr, Binding: binding}); err != nil {
			return errors.Wrapf(err, "failed to insert symbol %q", sym.Name)
		}
	}
	return nil
}

func (o *ElfObject) LoadAllSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadSymbols(tab, 0, true, base, offset, mask)
}

func (o *ElfObject) LoadGlobalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadSymbols(tab, models.GlobalBinding, false, base, offset, mask)
}

func (o *ElfObject) LoadLocalSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadSymbols(tab, models.LocalBinding, false, base, offset, mask)
}

func (o *ElfObject) LoadWeakSymbols(tab models.SymbolTable, base, offset, mask models.Addr) error {
	return o.loadSymbols(tab, models.WeakBinding, false, base, offset, mask)
}
