package elf

import (
	"encoding/binary"
)

// rawHeader describes a 52-byte ELF32 header image for tests
type rawHeader struct {
	magic     [4]byte
	class     byte
	encoding  byte
	identVer  byte
	fileType  uint16
	machine   uint16
	version   uint32
	entry     uint32
	phoff     uint32
	shoff     uint32
	flags     uint32
	ehsize    uint16
	phentsize uint16
	phnum     uint16
	shentsize uint16
	shnum     uint16
	shstrndx  uint16
}

// canonicalHeader is an i386 executable with a program header table
// directly after the file header
func canonicalHeader() rawHeader {
	return rawHeader{
		magic:     [4]byte{0x7F, 'E', 'L', 'F'},
		class:     1,
		encoding:  1,
		identVer:  1,
		fileType:  2,
		machine:   3,
		version:   1,
		entry:     0x08048080,
		phoff:     HeaderSize,
		shoff:     0x1000,
		flags:     0,
		ehsize:    HeaderSize,
		phentsize: ProgramHeaderEntrySize,
		phnum:     2,
		shentsize: SectionHeaderEntrySize,
		shnum:     5,
		shstrndx:  4,
	}
}

func (r rawHeader) bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], r.magic[:])
	b[4] = r.class
	b[5] = r.encoding
	b[6] = r.identVer
	le := binary.LittleEndian
	le.PutUint16(b[16:], r.fileType)
	le.PutUint16(b[18:], r.machine)
	le.PutUint32(b[20:], r.version)
	le.PutUint32(b[24:], r.entry)
	le.PutUint32(b[28:], r.phoff)
	le.PutUint32(b[32:], r.shoff)
	le.PutUint32(b[36:], r.flags)
	le.PutUint16(b[40:], r.ehsize)
	le.PutUint16(b[42:], r.phentsize)
	le.PutUint16(b[44:], r.phnum)
	le.PutUint16(b[46:], r.shentsize)
	le.PutUint16(b[48:], r.shnum)
	le.PutUint16(b[50:], r.shstrndx)
	return b
}

func phdrBytes(e ProgramHeaderEntry) []byte {
	b := make([]byte, ProgramHeaderEntrySize)
	le := binary.LittleEndian
	le.PutUint32(b[0:], uint32(e.Type))
	le.PutUint32(b[4:], e.Offset)
	le.PutUint32(b[8:], e.VirtualAddress)
	le.PutUint32(b[12:], e.PhysicalAddress)
	le.PutUint32(b[16:], e.FileSize)
	le.PutUint32(b[20:], e.MemorySize)
	le.PutUint32(b[24:], uint32(e.Flags))
	le.PutUint32(b[28:], e.Align)
	return b
}

var loadEntry = ProgramHeaderEntry{
	Type:            SegmentLoad,
	Offset:          0,
	VirtualAddress:  0x08048000,
	PhysicalAddress: 0x08048000,
	FileSize:        0x94,
	MemorySize:      0x94,
	Flags:           FlagRead | FlagExecute,
	Align:           0x1000,
}

// image concatenates a header and program header entries
func image(h rawHeader, entries ...ProgramHeaderEntry) []byte {
	out := h.bytes()
	for _, e := range entries {
		out = append(out, phdrBytes(e)...)
	}
	return out
}
