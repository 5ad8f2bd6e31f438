package elf

import (
	"errors"
	"fmt"
)

// ProgramHeaderEntry is one 32-byte ELF32 program header
type ProgramHeaderEntry struct {
	Type            SegmentType  `json:"type"`
	Offset          uint32       `json:"offset"`
	VirtualAddress  uint32       `json:"vaddr"`
	PhysicalAddress uint32       `json:"paddr"`
	FileSize        uint32       `json:"filesz"`
	MemorySize      uint32       `json:"memsz"`
	Flags           SegmentFlags `json:"flags"`
	Align           uint32       `json:"align"`
}

// ProgramHeaderTable holds entries in file order
type ProgramHeaderTable []ProgramHeaderEntry

// Termination selects what ends the program header scan
type Termination int

const (
	// TerminateOnNull stops after the first Null entry, which is kept
	TerminateOnNull Termination = iota
	// TerminateOnCount reads exactly the header's declared entry count
	TerminateOnCount
)

func (t Termination) String() string {
	switch t {
	case TerminateOnNull:
		return "sentinel"
	case TerminateOnCount:
		return "count"
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// ParseTermination parses "sentinel" or "count"
func ParseTermination(s string) (Termination, error) {
	switch s {
	case "", "sentinel":
		return TerminateOnNull, nil
	case "count":
		return TerminateOnCount, nil
	}
	return TerminateOnNull, fmt.Errorf("invalid termination mode: %s (valid: sentinel, count)", s)
}

// Option configures a Decoder
type Option func(*Decoder)

// WithTermination sets the program header termination policy
func WithTermination(t Termination) Option {
	return func(d *Decoder) {
		d.termination = t
	}
}

// Decoder runs one decode session over a single Buffer. It is not safe
// for concurrent use; each file gets its own Decoder.
type Decoder struct {
	cursor      *Cursor
	termination Termination
	diagnostics []*DecodeError
}

// NewDecoder creates a decoder reading from buf
func NewDecoder(buf *Buffer, opts ...Option) *Decoder {
	d := &Decoder{cursor: buf.Cursor()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diagnostics returns the reported, non-fatal conditions seen so far
func (d *Decoder) Diagnostics() []*DecodeError {
	return d.diagnostics
}

// Header decodes the file header from the start of the buffer. A fatal
// failure returns an error; an inconsistent program header layout is
// recorded as a diagnostic and the header is still returned.
func (d *Decoder) Header() (*Header, error) {
	if err := d.cursor.Seek(0); err != nil {
		return nil, err
	}
	h, err := decodeHeader(d.cursor)
	if err != nil {
		return nil, err
	}
	var derr *DecodeError
	if err := h.CheckProgramHeaderLayout(); errors.As(err, &derr) {
		d.diagnostics = append(d.diagnostics, derr)
	}
	return h, nil
}

// ProgramHeaders decodes the program header table declared by h. An empty
// table is returned when the header declares no program header offset.
func (d *Decoder) ProgramHeaders(h *Header) (ProgramHeaderTable, error) {
	if !h.HasProgramHeaders() {
		return nil, nil
	}
	if err := d.cursor.Seek(int(h.ProgramHeaderOffset)); err != nil {
		return nil, err
	}

	var table ProgramHeaderTable
	for {
		if d.termination == TerminateOnCount && len(table) >= int(h.ProgramHeaderCount) {
			return table, nil
		}

		pos := d.cursor.Pos()
		entry, err := decodeProgramHeaderEntry(d.cursor)
		if err != nil {
			return nil, err
		}
		table = append(table, entry)

		if entry.Type != SegmentNull {
			continue
		}
		if d.termination == TerminateOnNull {
			return table, nil
		}
		if len(table) < int(h.ProgramHeaderCount) {
			d.diagnostics = append(d.diagnostics, &DecodeError{
				Kind:     KindPrematureNullEntry,
				Offset:   pos,
				Expected: uint64(h.ProgramHeaderCount),
				Actual:   uint64(len(table)),
				Detail:   fmt.Sprintf("null entry %d of %d declared", len(table), h.ProgramHeaderCount),
			})
		}
	}
}

func decodeProgramHeaderEntry(c *Cursor) (ProgramHeaderEntry, error) {
	var e ProgramHeaderEntry
	var typ, flags uint32
	fields := []*uint32{
		&typ,
		&e.Offset,
		&e.VirtualAddress,
		&e.PhysicalAddress,
		&e.FileSize,
		&e.MemorySize,
		&flags,
		&e.Align,
	}
	for _, dst := range fields {
		v, err := c.ReadUint32()
		if err != nil {
			return ProgramHeaderEntry{}, err
		}
		*dst = v
	}
	e.Type = SegmentType(typ)
	e.Flags = SegmentFlags(flags)
	return e, nil
}

// DecodeProgramHeaders decodes the program header table of data using a
// header previously returned by DecodeHeader.
func DecodeProgramHeaders(data []byte, h *Header, opts ...Option) (ProgramHeaderTable, error) {
	return NewDecoder(NewBuffer(data), opts...).ProgramHeaders(h)
}
