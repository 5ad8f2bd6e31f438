package elf

import "fmt"

// e_phoff position within the header
const phoffFieldOffset = 0x1c

// Identification is the first 16 bytes of the file. The 9 bytes of
// padding are read and discarded.
type Identification struct {
	Magic    uint32       `json:"magic"`
	Class    Class        `json:"class"`
	Encoding DataEncoding `json:"encoding"`
	Version  uint8        `json:"ident_version"`
}

// Header is the 52-byte ELF32 file header
type Header struct {
	Identification

	Type                     FileType `json:"type"`
	Machine                  Machine  `json:"machine"`
	Version                  uint32   `json:"version"`
	Entry                    uint32   `json:"entry"`
	ProgramHeaderOffset      uint32   `json:"phoff"`
	SectionHeaderOffset      uint32   `json:"shoff"`
	Flags                    uint32   `json:"flags"`
	HeaderSize               uint16   `json:"ehsize"`
	ProgramHeaderEntrySize   uint16   `json:"phentsize"`
	ProgramHeaderCount       uint16   `json:"phnum"`
	SectionHeaderEntrySize   uint16   `json:"shentsize"`
	SectionHeaderCount       uint16   `json:"shnum"`
	SectionHeaderStringIndex uint16   `json:"shstrndx"`
}

// CheckProgramHeaderLayout returns an InconsistentProgramHeader error when
// exactly one of the program header offset and entry size is zero. The
// condition is advisory; decoding may continue.
func (h *Header) CheckProgramHeaderLayout() error {
	if (h.ProgramHeaderOffset == 0) == (h.ProgramHeaderEntrySize == 0) {
		return nil
	}
	return &DecodeError{
		Kind:   KindInconsistentProgramHeader,
		Offset: phoffFieldOffset,
		Detail: fmt.Sprintf("program header offset 0x%x, entry size 0x%x",
			h.ProgramHeaderOffset, h.ProgramHeaderEntrySize),
	}
}

// HasProgramHeaders reports whether the header declares a program header table
func (h *Header) HasProgramHeaders() bool {
	return h.ProgramHeaderOffset != 0
}

// DecodeHeader decodes the identification and file header from the start
// of data. Any failed check is fatal and no header is returned.
func DecodeHeader(data []byte) (*Header, error) {
	return decodeHeader(NewBuffer(data).Cursor())
}

func decodeHeader(c *Cursor) (*Header, error) {
	h := &Header{}

	start := c.Pos()
	raw, err := c.Read(4)
	if err != nil {
		return nil, err
	}
	h.Magic = DecodeMagic(raw)
	if h.Magic != Magic {
		return nil, mismatch(KindInvalidMagic, start, uint64(Magic), uint64(h.Magic))
	}

	pos := c.Pos()
	b, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	h.Class = Class(b)
	if h.Class == ClassInvalid {
		return nil, mismatch(KindInvalidClass, pos, uint64(Class32), uint64(b))
	}

	pos = c.Pos()
	if b, err = c.ReadByte(); err != nil {
		return nil, err
	}
	h.Encoding = DataEncoding(b)
	if h.Encoding == EncodingInvalid {
		return nil, mismatch(KindInvalidEncoding, pos, uint64(EncodingLittleEndian), uint64(b))
	}

	pos = c.Pos()
	if h.Identification.Version, err = c.ReadByte(); err != nil {
		return nil, err
	}
	if h.Identification.Version != CurrentVersion {
		return nil, mismatch(KindUnsupportedVersion, pos, CurrentVersion, uint64(h.Identification.Version))
	}

	if err := c.Skip(IdentPaddingSize); err != nil {
		return nil, err
	}

	v16, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	h.Type = FileType(v16)

	if v16, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	h.Machine = Machine(v16)

	pos = c.Pos()
	if h.Version, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if h.Version != CurrentVersion {
		return nil, mismatch(KindVersionMismatch, pos, CurrentVersion, uint64(h.Version))
	}

	for _, dst := range []*uint32{&h.Entry, &h.ProgramHeaderOffset, &h.SectionHeaderOffset, &h.Flags} {
		if *dst, err = c.ReadUint32(); err != nil {
			return nil, err
		}
	}

	pos = c.Pos()
	if h.HeaderSize, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if h.HeaderSize != HeaderSize {
		return nil, mismatch(KindInvalidHeaderSize, pos, HeaderSize, uint64(h.HeaderSize))
	}

	pos = c.Pos()
	if h.ProgramHeaderEntrySize, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if h.ProgramHeaderEntrySize != ProgramHeaderEntrySize && h.ProgramHeaderEntrySize != 0 {
		return nil, mismatch(KindInvalidProgramHeaderEntrySize, pos, ProgramHeaderEntrySize, uint64(h.ProgramHeaderEntrySize))
	}

	if h.ProgramHeaderCount, err = c.ReadUint16(); err != nil {
		return nil, err
	}

	pos = c.Pos()
	if h.SectionHeaderEntrySize, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if h.SectionHeaderEntrySize != SectionHeaderEntrySize {
		return nil, mismatch(KindInvalidSectionHeaderEntrySize, pos, SectionHeaderEntrySize, uint64(h.SectionHeaderEntrySize))
	}

	if h.SectionHeaderCount, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if h.SectionHeaderStringIndex, err = c.ReadUint16(); err != nil {
		return nil, err
	}

	return h, nil
}
