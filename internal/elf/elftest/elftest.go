// Package elftest builds ELF32 little-endian images for tests.
package elftest

import (
	"encoding/binary"

	"github.com/raven-betanet/elf-decoder/internal/elf"
)

// Header holds every field of a 52-byte ELF32 file header
type Header struct {
	Magic        [4]byte
	Class        byte
	Encoding     byte
	IdentVersion byte
	Type         uint16
	Machine      uint16
	Version      uint32
	Entry        uint32
	Phoff        uint32
	Shoff        uint32
	Flags        uint32
	Ehsize       uint16
	Phentsize    uint16
	Phnum        uint16
	Shentsize    uint16
	Shnum        uint16
	Shstrndx     uint16
}

// Executable returns an i386 executable header whose program header table
// of phnum entries follows the file header.
func Executable(phnum uint16) Header {
	return Header{
		Magic:        [4]byte{0x7F, 'E', 'L', 'F'},
		Class:        1,
		Encoding:     1,
		IdentVersion: 1,
		Type:         uint16(elf.FileTypeExecutable),
		Machine:      uint16(elf.MachineIntel80386),
		Version:      elf.CurrentVersion,
		Entry:        0x08048080,
		Phoff:        elf.HeaderSize,
		Shoff:        0x1000,
		Ehsize:       elf.HeaderSize,
		Phentsize:    elf.ProgramHeaderEntrySize,
		Phnum:        phnum,
		Shentsize:    elf.SectionHeaderEntrySize,
		Shnum:        5,
		Shstrndx:     4,
	}
}

// Bytes encodes the header
func (h Header) Bytes() []byte {
	b := make([]byte, elf.HeaderSize)
	copy(b[0:4], h.Magic[:])
	b[4] = h.Class
	b[5] = h.Encoding
	b[6] = h.IdentVersion
	le := binary.LittleEndian
	le.PutUint16(b[16:], h.Type)
	le.PutUint16(b[18:], h.Machine)
	le.PutUint32(b[20:], h.Version)
	le.PutUint32(b[24:], h.Entry)
	le.PutUint32(b[28:], h.Phoff)
	le.PutUint32(b[32:], h.Shoff)
	le.PutUint32(b[36:], h.Flags)
	le.PutUint16(b[40:], h.Ehsize)
	le.PutUint16(b[42:], h.Phentsize)
	le.PutUint16(b[44:], h.Phnum)
	le.PutUint16(b[46:], h.Shentsize)
	le.PutUint16(b[48:], h.Shnum)
	le.PutUint16(b[50:], h.Shstrndx)
	return b
}

// Entry encodes one 32-byte program header
func Entry(e elf.ProgramHeaderEntry) []byte {
	b := make([]byte, elf.ProgramHeaderEntrySize)
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

// Image concatenates a header and program header entries
func Image(h Header, entries ...elf.ProgramHeaderEntry) []byte {
	out := h.Bytes()
	for _, e := range entries {
		out = append(out, Entry(e)...)
	}
	return out
}

// Load is a read/execute loadable text segment
var Load = elf.ProgramHeaderEntry{
	Type:            elf.SegmentLoad,
	VirtualAddress:  0x08048000,
	PhysicalAddress: 0x08048000,
	FileSize:        0x94,
	MemorySize:      0x94,
	Flags:           elf.FlagRead | elf.FlagExecute,
	Align:           0x1000,
}

// Null is an unused entry, which ends the table by default
var Null = elf.ProgramHeaderEntry{}
