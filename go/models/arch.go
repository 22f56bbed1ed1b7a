package models

// Arch identifies the target architecture of an object file.
type Arch int

const (
	UnknownArch Arch = iota
	Alpha
	SPARC64
	SPARC32
	Mips
	X86_64
	I386
	Arm64
	Arm
	Thumb
	Power
	Riscv64
	Riscv32
)

var archNames = map[Arch]string{
	UnknownArch: "unknown",
	Alpha:       "alpha",
	SPARC64:     "sparc64",
	SPARC32:     "sparc32",
	Mips:        "mips",
	X86_64:      "x86_64",
	I386:        "i386",
	Arm64:       "arm64",
	Arm:         "arm",
	Thumb:       "thumb",
	Power:       "power",
	Riscv64:     "riscv64",
	Riscv32:     "riscv32",
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return "unknown"
}

// OpSys identifies the operating-system ABI an object file targets.
type OpSys int

const (
	UnknownOpSys OpSys = iota
	Tru64
	Linux
	Solaris
	LinuxArmOABI
	FreeBSD
)

var opSysNames = map[OpSys]string{
	UnknownOpSys: "unknown",
	Tru64:        "tru64",
	Linux:        "linux",
	Solaris:      "solaris",
	LinuxArmOABI: "linux-arm-oabi",
	FreeBSD:      "freebsd",
}

func (o OpSys) String() string {
	if name, ok := opSysNames[o]; ok {
		return name
	}
	return "unknown"
}
