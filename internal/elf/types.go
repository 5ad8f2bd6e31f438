package elf

import (
	"fmt"
	"strings"
)

const (
	// Magic is the big-endian reading of 0x7F 'E' 'L' 'F'
	Magic uint32 = 0x7F454C46

	// CurrentVersion is the only identification and header version
	CurrentVersion = 1

	IdentSize              = 16
	IdentPaddingSize       = 9
	HeaderSize             = 0x34
	ProgramHeaderEntrySize = 0x20
	SectionHeaderEntrySize = 0x28
)

// Class is the identification file class (EI_CLASS)
type Class uint8

const (
	ClassInvalid Class = 0
	Class32      Class = 1
	Class64      Class = 2
)

func (c Class) String() string {
	switch c {
	case Class32:
		return "32-bit"
	case Class64:
		return "64-bit"
	}
	return "Unknown Type"
}

// DataEncoding is the identification data encoding (EI_DATA)
type DataEncoding uint8

const (
	EncodingInvalid      DataEncoding = 0
	EncodingLittleEndian DataEncoding = 1
	EncodingBigEndian    DataEncoding = 2
)

func (d DataEncoding) String() string {
	switch d {
	case EncodingLittleEndian:
		return "Little Endian"
	case EncodingBigEndian:
		return "Big Endian"
	}
	return "Unknown Endianess"
}

// FileType is the object file type (e_type)
type FileType uint16

const (
	FileTypeNone        FileType = 0
	FileTypeRelocatable FileType = 1
	FileTypeExecutable  FileType = 2
	FileTypeShared      FileType = 3
	FileTypeCore        FileType = 4
	FileTypeLoProc      FileType = 0xFF00
	FileTypeHiProc      FileType = 0xFFFF
)

func (t FileType) String() string {
	switch t {
	case FileTypeNone:
		return "No File Type"
	case FileTypeRelocatable:
		return "Relocatable File"
	case FileTypeExecutable:
		return "Executable File"
	case FileTypeShared:
		return "Shared Object File"
	case FileTypeCore:
		return "Core File"
	case FileTypeLoProc:
		return "Processor-specific File (indicator 1)"
	case FileTypeHiProc:
		return "Processor-specific File (indicator 2)"
	}
	return "Unknown File Type"
}

// Machine is the target architecture (e_machine)
type Machine uint16

const (
	MachineNone       Machine = 0
	MachineM32        Machine = 1
	MachineSPARC      Machine = 2
	MachineIntel80386 Machine = 3
	Machine68K        Machine = 4
	Machine88K        Machine = 5
	MachineIntel80860 Machine = 7
	MachineMIPS       Machine = 8
)

func (m Machine) String() string {
	switch m {
	case MachineNone:
		return "No Machine"
	case MachineM32:
		return "AT&T WE 32100"
	case MachineSPARC:
		return "SPARC"
	case MachineIntel80386:
		return "Intel 80386"
	case Machine68K:
		return "Motorola 68000"
	case Machine88K:
		return "Motorola 88000"
	case MachineIntel80860:
		return "Intel 80860"
	case MachineMIPS:
		return "MIPS RS3000"
	}
	return "Unknown Machine Type"
}

// SegmentType is the program header entry type (p_type)
type SegmentType uint32

const (
	SegmentNull    SegmentType = 0
	SegmentLoad    SegmentType = 1
	SegmentDynamic SegmentType = 2
	SegmentInterp  SegmentType = 3
	SegmentNote    SegmentType = 4
	SegmentShlib   SegmentType = 5
	SegmentPhdr    SegmentType = 6
	SegmentLoProc  SegmentType = 0x70000000
	SegmentHiProc  SegmentType = 0x7FFFFFFF
)

// IsProcessorSpecific reports whether t lies in the processor-specific range
func (t SegmentType) IsProcessorSpecific() bool {
	return t >= SegmentLoProc && t <= SegmentHiProc
}

func (t SegmentType) String() string {
	switch t {
	case SegmentNull:
		return "Unused Entry"
	case SegmentLoad:
		return "Loadable Segment"
	case SegmentDynamic:
		return "Dynamic Linking Information"
	case SegmentInterp:
		return "Interpreter Path Name"
	case SegmentNote:
		return "Auxiliary Information"
	case SegmentShlib:
		return "Reserved Entry Type"
	case SegmentPhdr:
		return "Program Header Table"
	}
	if t.IsProcessorSpecific() {
		return "Processor-specific"
	}
	return "Unknown Segment Type"
}

// SegmentFlags holds the permission bits of a program header entry
type SegmentFlags uint32

const (
	FlagExecute SegmentFlags = 0x1
	FlagWrite   SegmentFlags = 0x2
	FlagRead    SegmentFlags = 0x4
)

// String renders the flags as readelf does, e.g. "R E"
func (f SegmentFlags) String() string {
	var sb strings.Builder
	for _, bit := range []struct {
		flag SegmentFlags
		ch   byte
	}{{FlagRead, 'R'}, {FlagWrite, 'W'}, {FlagExecute, 'E'}} {
		if f&bit.flag != 0 {
			sb.WriteByte(bit.ch)
		} else {
			sb.WriteByte(' ')
		}
	}
	if rest := f &^ (FlagRead | FlagWrite | FlagExecute); rest != 0 {
		fmt.Fprintf(&sb, " +0x%x", uint32(rest))
	}
	return sb.String()
}
